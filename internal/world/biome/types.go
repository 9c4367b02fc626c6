package biome

// BiomeType представляет тип биома растительного покрова.
// Порядок объявления является каноническим: он используется для
// разрешения ничьих при сортировке влияний и для выбора типа по
// идентификатору ячейки Вороного.
type BiomeType int

const (
	BiomeNormal BiomeType = iota
	BiomeLush
	BiomeDry
	BiomeDense
	BiomeWindswept
	BiomeFlowery

	NumBiomes = 6
)

// AllBiomes перечисляет типы в каноническом порядке
var AllBiomes = [NumBiomes]BiomeType{
	BiomeNormal, BiomeLush, BiomeDry, BiomeDense, BiomeWindswept, BiomeFlowery,
}

// String возвращает строковое представление типа биома
func (b BiomeType) String() string {
	switch b {
	case BiomeNormal:
		return "normal"
	case BiomeLush:
		return "lush"
	case BiomeDry:
		return "dry"
	case BiomeDense:
		return "dense"
	case BiomeWindswept:
		return "windswept"
	case BiomeFlowery:
		return "flowery"
	default:
		return "unknown"
	}
}

// ParseBiomeType возвращает тип по имени; неизвестные имена дают BiomeNormal
func ParseBiomeType(name string) BiomeType {
	for _, b := range AllBiomes {
		if b.String() == name {
			return b
		}
	}
	return BiomeNormal
}

// Variant различает генерацию высокого и низкого покрова.
// Варианты используют раздельные конфигурационные таблицы и
// непересекающиеся детерминированные потоки случайных чисел.
type Variant int

const (
	VariantTall Variant = iota
	VariantGround
)

// String возвращает строковое представление варианта
func (v Variant) String() string {
	switch v {
	case VariantTall:
		return "tall"
	case VariantGround:
		return "ground"
	default:
		return "unknown"
	}
}

// ParseVariant возвращает вариант по имени; по умолчанию VariantTall
func ParseVariant(name string) (Variant, bool) {
	switch name {
	case "tall":
		return VariantTall, true
	case "ground":
		return VariantGround, true
	default:
		return VariantTall, false
	}
}

// BiomeInfo результат классификации в одной точке мира
type BiomeInfo struct {
	Type           BiomeType `json:"type"`
	Name           string    `json:"name"`
	Strength       float64   `json:"strength"`        // [0..1]
	TransitionZone bool      `json:"transition_zone"` // true, когда доминирование неоднозначно
}

// Influence вклад одного источника (формы или шумового поля) в классификацию
type Influence struct {
	Type     BiomeType // Тип биома
	Weight   float64   // Величина вклада
	Distance float64   // Подписанное расстояние до границы формы; 0 для шумовых полей
}
