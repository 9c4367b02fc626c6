package biome

import (
	"math"
	"sort"

	"github.com/annel0/floragen/internal/noise"
	"github.com/annel0/floragen/internal/vec"
)

// Шумовые каналы классификатора. Каналы порождают независимые
// генераторы от одного мирового сида (см. noise.Source).
const (
	chanMoisture    = 11 // Крупномасштабная "влажность"
	chanElevation   = 23 // Среднемасштабная "высотность"
	chanTendril     = 37 // Мелкие искаженные "щупальца" на границах
	chanCellVariety = 41 // Ячейки Вороного для категориального разнообразия
	chanWind        = 53 // Медленное поле направления ветра
	chanMicro       = 59 // Мелкозернистая добавка к вероятности прорастания
)

// Масштабы экологических шумовых полей
var (
	moistureParams  = noise.Params{Octaves: 4, Persistence: 0.5, Lacunarity: 2.0, BaseScale: 0.004}
	elevationParams = noise.Params{Octaves: 4, Persistence: 0.5, Lacunarity: 2.0, BaseScale: 0.008}
	tendrilParams   = noise.Params{Octaves: 3, Persistence: 0.5, Lacunarity: 2.0, BaseScale: 0.02}
	windParams      = noise.Params{Octaves: 2, Persistence: 0.5, Lacunarity: 2.0, BaseScale: 0.003}
	microParams     = noise.Params{Octaves: 2, Persistence: 0.5, Lacunarity: 2.0, BaseScale: 0.35}
)

const tendrilWarpStrength = 24.0

// ClassifierParams настройки классификации и смешивания
type ClassifierParams struct {
	TransitionWidth  float64 // Ширина спада влияния за границей формы
	TransitionMargin float64 // Зазор между топ-2, ниже которого зона переходная
	MinInfluence     float64 // Нижний предел суммарного влияния ("мертвые зоны" шума)
	InfluenceEpsilon float64 // Порог отсечения пренебрежимых вкладов
	TopK             int     // Сколько влияний участвует в смешивании атрибутов
	MaxRecorded      int     // Предел длины ранжированного списка влияний
}

// DefaultClassifierParams возвращает параметры по умолчанию
func DefaultClassifierParams() ClassifierParams {
	return ClassifierParams{
		TransitionWidth:  12.0,
		TransitionMargin: 0.12,
		MinInfluence:     0.05,
		InfluenceEpsilon: 0.01,
		TopK:             4,
		MaxRecorded:      8,
	}
}

// Blended атрибуты растительности, смешанные по влияниям в точке
type Blended struct {
	Density      float64         // Множитель плотности
	Height       float64         // Множитель высоты
	WindExposure float64         // Подверженность ветру
	Color        [3]float64      // RGB-модификатор
	Species      []SpeciesWeight // Нормализованное распределение видов (сумма = 1)
}

// PickSpecies выбирает вид кумулятивным отбором по значению r из [0, 1)
func (b Blended) PickSpecies(r float64) string {
	if len(b.Species) == 0 {
		return "default"
	}
	acc := 0.0
	for _, sw := range b.Species {
		acc += sw.Probability
		if r < acc {
			return sw.Name
		}
	}
	return b.Species[len(b.Species)-1].Name
}

// Classifier объединяет органические формы и шумовые поля
// в биомное решение для произвольной точки мира.
type Classifier struct {
	src      *noise.Source
	registry *ShapeRegistry
	params   ClassifierParams
}

// NewClassifier создает классификатор поверх источника шума и реестра форм
func NewClassifier(src *noise.Source, registry *ShapeRegistry, params ClassifierParams) *Classifier {
	return &Classifier{
		src:      src,
		registry: registry,
		params:   params,
	}
}

// Params возвращает параметры классификатора
func (c *Classifier) Params() ClassifierParams {
	return c.params
}

// Influences возвращает ранжированный по убыванию список вкладов в точке.
// Вклады собираются в фиксированном каноническом порядке типов,
// поэтому результат не зависит от порядка обхода каких-либо map.
func (c *Classifier) Influences(pos vec.Vec2Float) []Influence {
	var weights [NumBiomes]float64
	var distances [NumBiomes]float64
	var hasShape [NumBiomes]bool

	// Базовый вклад: в "мертвых зонах" шума всегда остается обычный покров.
	weights[BiomeNormal] = 0.08

	// 1. Органические формы окрестности.
	for _, shape := range c.registry.ShapesNear(pos) {
		inf := shape.Influence(pos, c.params.TransitionWidth)
		if inf <= c.params.InfluenceEpsilon {
			continue
		}
		weights[shape.Type] += inf
		d := shape.DistanceToBoundary(pos)
		if !hasShape[shape.Type] || d < distances[shape.Type] {
			distances[shape.Type] = d
			hasShape[shape.Type] = true
		}
	}

	// 2. Экологические поля: влажность и высотность смещают типы,
	// чтобы пятна не выглядели чисто геометрическими кругами.
	moisture := c.src.Fractal2D(pos.X, pos.Y, chanMoisture, moistureParams)
	if moisture > 0.55 {
		weights[BiomeLush] += (moisture - 0.55) * 1.5
	}
	if moisture < 0.35 {
		weights[BiomeDry] += (0.35 - moisture) * 1.2
	}

	elevation := c.src.Fractal2D(pos.X, pos.Y, chanElevation, elevationParams)
	if elevation > 0.68 {
		weights[BiomeWindswept] += (elevation - 0.68) * 1.6
	}
	if elevation < 0.40 {
		weights[BiomeDense] += (0.40 - elevation) * 0.9
	}

	// 3. Мелкие "щупальца": искаженный шум с малым весом, тип по ячейке
	// Вороного. Вес гаснет к границе ячейки (там побеждающая точка
	// меняется, и без затухания плотность рвалась бы скачком).
	tendril := c.src.Warped2D(pos.X, pos.Y, chanTendril, tendrilWarpStrength, tendrilParams)
	cell := c.src.Voronoi2D(pos.X, pos.Y, chanCellVariety, 1.0/160.0)
	edgeFade := (cell.Distance2 - cell.Distance) / 24.0
	if edgeFade > 1 {
		edgeFade = 1
	}
	if edgeFade < 0 {
		edgeFade = 0
	}
	tendrilType := AllBiomes[noise.Abs64(cell.CellID)%NumBiomes]
	weights[tendrilType] += tendril * 0.15 * edgeFade

	// Сборка в каноническом порядке типов.
	influences := make([]Influence, 0, NumBiomes)
	for _, b := range AllBiomes {
		if weights[b] <= c.params.InfluenceEpsilon {
			continue
		}
		influences = append(influences, Influence{
			Type:     b,
			Weight:   weights[b],
			Distance: distances[b],
		})
	}

	// Стабильная сортировка по убыванию веса: при точном равенстве
	// сохраняется канонический порядок типов.
	sort.SliceStable(influences, func(i, j int) bool {
		return influences[i].Weight > influences[j].Weight
	})

	if len(influences) > c.params.MaxRecorded {
		influences = influences[:c.params.MaxRecorded]
	}
	return influences
}

// Classify возвращает биомное решение в точке: доминирующий тип,
// суммарную силу влияния и флаг переходной зоны.
func (c *Classifier) Classify(pos vec.Vec2Float) BiomeInfo {
	influences := c.Influences(pos)

	total := 0.0
	for _, inf := range influences {
		total += inf.Weight
	}
	if total < c.params.MinInfluence {
		total = c.params.MinInfluence
	}
	if total > 1.0 {
		total = 1.0
	}

	dominant := BiomeNormal
	transition := false
	if len(influences) > 0 {
		dominant = influences[0].Type
		if len(influences) > 1 {
			transition = influences[0].Weight-influences[1].Weight < c.params.TransitionMargin
		}
	}

	return BiomeInfo{
		Type:           dominant,
		Name:           dominant.String(),
		Strength:       total,
		TransitionZone: transition,
	}
}

// BlendedAttributes смешивает конфигурации биомов по топ-K влияниям.
// Веса нормализуются к сумме 1; распределение видов после смешивания
// отдельно ренормализуется.
func (c *Classifier) BlendedAttributes(pos vec.Vec2Float, table *Table) Blended {
	influences := c.Influences(pos)
	if len(influences) > c.params.TopK {
		influences = influences[:c.params.TopK]
	}

	totalWeight := 0.0
	for _, inf := range influences {
		totalWeight += inf.Weight
	}

	if len(influences) == 0 || totalWeight <= 0 {
		cfg := table.Config(BiomeNormal)
		return Blended{
			Density:      cfg.DensityMultiplier,
			Height:       cfg.HeightMultiplier,
			WindExposure: cfg.WindExposure,
			Color:        cfg.ColorModifier,
			Species:      table.SpeciesWeights(BiomeNormal),
		}
	}

	var out Blended
	merged := make(map[string]float64)

	for _, inf := range influences {
		w := inf.Weight / totalWeight
		if w < 0 {
			w = 0
		}
		if w > 1 {
			w = 1
		}

		cfg := table.Config(inf.Type)
		out.Density += w * cfg.DensityMultiplier
		out.Height += w * cfg.HeightMultiplier
		out.WindExposure += w * cfg.WindExposure
		for i := 0; i < 3; i++ {
			out.Color[i] += w * cfg.ColorModifier[i]
		}
		for name, p := range cfg.Species {
			merged[name] += w * p
		}
	}

	out.Species = normalizeSpecies(merged)
	return out
}

// MicroVariation возвращает мелкозернистый шум [0, 1] для локальной
// вариации вероятности прорастания внутри чанка.
func (c *Classifier) MicroVariation(pos vec.Vec2Float) float64 {
	return c.src.Fractal2D(pos.X, pos.Y, chanMicro, microParams)
}

// WindAngle возвращает направление ветра в точке, [0, 2π).
// Поле очень медленное: соседние чанки получают близкие направления.
func (c *Classifier) WindAngle(pos vec.Vec2Float) float64 {
	return c.src.Fractal2D(pos.X, pos.Y, chanWind, windParams) * 2 * math.Pi
}
