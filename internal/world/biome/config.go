package biome

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Config описывает параметры растительности одного биома для одного варианта.
// Это статические данные (§ конфигурация), ядро их не вычисляет.
type Config struct {
	Name              string             // Отображаемое имя
	DensityMultiplier float64            // Множитель плотности покрова
	HeightMultiplier  float64            // Множитель высоты экземпляров
	ColorModifier     [3]float64         // RGB-модификатор окраски
	WindExposure      float64            // Подверженность ветру, [0..1]
	Species           map[string]float64 // Распределение видов, сумма = 1
}

// SpeciesWeight элемент нормализованного распределения видов
type SpeciesWeight struct {
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
}

// Table конфигурационная таблица: по одной записи на каждый тип биома
type Table struct {
	variant Variant
	configs [NumBiomes]Config
}

// Variant возвращает вариант покрова таблицы
func (t *Table) Variant() Variant {
	return t.variant
}

// Config возвращает конфигурацию биома. Неизвестный тип откатывается
// к BiomeNormal — детерминированность важнее строгой валидации.
func (t *Table) Config(b BiomeType) Config {
	if b < 0 || int(b) >= NumBiomes {
		b = BiomeNormal
	}
	return t.configs[b]
}

// SpeciesWeights возвращает распределение видов биома, отсортированное
// по имени и нормированное к сумме 1. Порядок фиксирован, чтобы
// кумулятивный выбор вида был детерминированным.
func (t *Table) SpeciesWeights(b BiomeType) []SpeciesWeight {
	return normalizeSpecies(t.Config(b).Species)
}

func normalizeSpecies(dist map[string]float64) []SpeciesWeight {
	names := make([]string, 0, len(dist))
	for name, p := range dist {
		if p > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	// Сумма в отсортированном порядке: порядок сложения влияет на
	// последние биты, а результат обязан быть побитово воспроизводимым.
	total := 0.0
	for _, name := range names {
		total += dist[name]
	}

	if total <= 0 {
		return []SpeciesWeight{{Name: "default", Probability: 1.0}}
	}

	weights := make([]SpeciesWeight, 0, len(names))
	for _, name := range names {
		weights = append(weights, SpeciesWeight{Name: name, Probability: dist[name] / total})
	}
	return weights
}

// DefaultTables возвращает встроенные таблицы для обоих вариантов покрова
func DefaultTables() map[Variant]*Table {
	tall := &Table{variant: VariantTall}
	tall.configs = [NumBiomes]Config{
		BiomeNormal: {
			Name:              "Луговая трава",
			DensityMultiplier: 1.0,
			HeightMultiplier:  1.0,
			ColorModifier:     [3]float64{0.45, 0.72, 0.30},
			WindExposure:      0.5,
			Species:           map[string]float64{"meadow_tall": 0.55, "wild_wheat": 0.30, "thistle": 0.15},
		},
		BiomeLush: {
			Name:              "Сочные заросли",
			DensityMultiplier: 1.5,
			HeightMultiplier:  1.25,
			ColorModifier:     [3]float64{0.30, 0.78, 0.28},
			WindExposure:      0.35,
			Species:           map[string]float64{"meadow_tall": 0.30, "fern_tall": 0.40, "reed": 0.30},
		},
		BiomeDry: {
			Name:              "Сухостой",
			DensityMultiplier: 0.55,
			HeightMultiplier:  0.8,
			ColorModifier:     [3]float64{0.72, 0.66, 0.32},
			WindExposure:      0.7,
			Species:           map[string]float64{"wild_wheat": 0.50, "dry_tuft": 0.35, "thistle": 0.15},
		},
		BiomeDense: {
			Name:              "Густотравье",
			DensityMultiplier: 1.8,
			HeightMultiplier:  1.1,
			ColorModifier:     [3]float64{0.36, 0.68, 0.26},
			WindExposure:      0.3,
			Species:           map[string]float64{"meadow_tall": 0.45, "fern_tall": 0.25, "wild_wheat": 0.30},
		},
		BiomeWindswept: {
			Name:              "Выветренные склоны",
			DensityMultiplier: 0.7,
			HeightMultiplier:  0.7,
			ColorModifier:     [3]float64{0.52, 0.70, 0.40},
			WindExposure:      1.0,
			Species:           map[string]float64{"dry_tuft": 0.40, "meadow_tall": 0.40, "thistle": 0.20},
		},
		BiomeFlowery: {
			Name:              "Цветочный луг",
			DensityMultiplier: 1.2,
			HeightMultiplier:  0.95,
			ColorModifier:     [3]float64{0.50, 0.74, 0.36},
			WindExposure:      0.5,
			Species:           map[string]float64{"meadow_tall": 0.40, "flower_stalk": 0.35, "wild_wheat": 0.25},
		},
	}

	ground := &Table{variant: VariantGround}
	ground.configs = [NumBiomes]Config{
		BiomeNormal: {
			Name:              "Низкий покров",
			DensityMultiplier: 1.0,
			HeightMultiplier:  1.0,
			ColorModifier:     [3]float64{0.42, 0.68, 0.30},
			WindExposure:      0.25,
			Species:           map[string]float64{"short_grass": 0.65, "clover": 0.25, "pebble_moss": 0.10},
		},
		BiomeLush: {
			Name:              "Мшистый ковер",
			DensityMultiplier: 1.6,
			HeightMultiplier:  1.1,
			ColorModifier:     [3]float64{0.28, 0.74, 0.30},
			WindExposure:      0.15,
			Species:           map[string]float64{"clover": 0.40, "moss_patch": 0.40, "short_grass": 0.20},
		},
		BiomeDry: {
			Name:              "Выгоревший покров",
			DensityMultiplier: 0.5,
			HeightMultiplier:  0.75,
			ColorModifier:     [3]float64{0.70, 0.62, 0.34},
			WindExposure:      0.4,
			Species:           map[string]float64{"dry_sprout": 0.55, "short_grass": 0.35, "pebble_moss": 0.10},
		},
		BiomeDense: {
			Name:              "Плотный подлесок",
			DensityMultiplier: 1.9,
			HeightMultiplier:  1.05,
			ColorModifier:     [3]float64{0.34, 0.64, 0.26},
			WindExposure:      0.1,
			Species:           map[string]float64{"short_grass": 0.45, "clover": 0.30, "moss_patch": 0.25},
		},
		BiomeWindswept: {
			Name:              "Прижатая трава",
			DensityMultiplier: 0.8,
			HeightMultiplier:  0.6,
			ColorModifier:     [3]float64{0.50, 0.68, 0.40},
			WindExposure:      0.8,
			Species:           map[string]float64{"short_grass": 0.60, "dry_sprout": 0.25, "pebble_moss": 0.15},
		},
		BiomeFlowery: {
			Name:              "Разнотравье",
			DensityMultiplier: 1.3,
			HeightMultiplier:  0.9,
			ColorModifier:     [3]float64{0.48, 0.70, 0.36},
			WindExposure:      0.3,
			Species:           map[string]float64{"short_grass": 0.40, "daisy": 0.30, "clover": 0.30},
		},
	}

	return map[Variant]*Table{
		VariantTall:   tall,
		VariantGround: ground,
	}
}

// yamlBiome строка YAML-файла таблицы биомов
type yamlBiome struct {
	Name    string             `yaml:"name"`
	Density float64            `yaml:"density"`
	Height  float64            `yaml:"height"`
	Color   []float64          `yaml:"color"`
	Wind    float64            `yaml:"wind"`
	Species map[string]float64 `yaml:"species"`
}

// LoadTables читает YAML-файл с переопределениями таблиц биомов.
// Отсутствующие биомы и поля сохраняют встроенные значения.
//
// Формат файла:
//
//	tall:
//	  lush:
//	    density: 1.5
//	    species: {fern_tall: 0.6, reed: 0.4}
//	ground:
//	  dry:
//	    height: 0.6
func LoadTables(path string) (map[Variant]*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение таблицы биомов: %w", err)
	}

	var raw map[string]map[string]yamlBiome
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("разбор таблицы биомов: %w", err)
	}

	tables := DefaultTables()
	for variantName, biomes := range raw {
		variant, ok := ParseVariant(variantName)
		if !ok {
			return nil, fmt.Errorf("неизвестный вариант покрова %q", variantName)
		}

		table := tables[variant]
		for biomeName, entry := range biomes {
			b := ParseBiomeType(biomeName)
			cfg := table.configs[b]

			if entry.Name != "" {
				cfg.Name = entry.Name
			}
			if entry.Density > 0 {
				cfg.DensityMultiplier = entry.Density
			}
			if entry.Height > 0 {
				cfg.HeightMultiplier = entry.Height
			}
			if len(entry.Color) == 3 {
				cfg.ColorModifier = [3]float64{entry.Color[0], entry.Color[1], entry.Color[2]}
			}
			if entry.Wind > 0 {
				cfg.WindExposure = entry.Wind
			}
			if len(entry.Species) > 0 {
				cfg.Species = entry.Species
			}

			table.configs[b] = cfg
		}
	}

	return tables, nil
}
