package biome

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTables_Complete(t *testing.T) {
	tables := DefaultTables()
	require.Len(t, tables, 2, "должны существовать таблицы для обоих вариантов")

	for variant, table := range tables {
		assert.Equal(t, variant, table.Variant())

		for _, b := range AllBiomes {
			cfg := table.Config(b)
			assert.NotEmpty(t, cfg.Name, "%s/%s: имя не задано", variant, b)
			assert.Greater(t, cfg.DensityMultiplier, 0.0)
			assert.Greater(t, cfg.HeightMultiplier, 0.0)
			assert.NotEmpty(t, cfg.Species)

			weights := table.SpeciesWeights(b)
			sum := 0.0
			for _, sw := range weights {
				sum += sw.Probability
			}
			assert.InDelta(t, 1.0, sum, 1e-9, "%s/%s: распределение видов должно суммироваться к 1", variant, b)
		}
	}
}

func TestTable_UnknownBiomeFallsBack(t *testing.T) {
	table := DefaultTables()[VariantTall]

	// Некорректный тип откатывается к normal, а не паникует.
	assert.Equal(t, table.Config(BiomeNormal), table.Config(BiomeType(-1)))
	assert.Equal(t, table.Config(BiomeNormal), table.Config(BiomeType(99)))
}

func TestSpeciesWeights_SortedByName(t *testing.T) {
	weights := DefaultTables()[VariantGround].SpeciesWeights(BiomeLush)
	for i := 1; i < len(weights); i++ {
		assert.Less(t, weights[i-1].Name, weights[i].Name,
			"виды должны идти в отсортированном порядке для детерминированного отбора")
	}
}

func TestParseBiomeType(t *testing.T) {
	assert.Equal(t, BiomeLush, ParseBiomeType("lush"))
	assert.Equal(t, BiomeWindswept, ParseBiomeType("windswept"))
	assert.Equal(t, BiomeNormal, ParseBiomeType("no-such-biome"), "неизвестное имя должно давать normal")
}

func TestLoadTables_Overrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "biomes.yml")
	content := `tall:
  lush:
    density: 2.5
    species:
      fern_tall: 0.7
      reed: 0.3
ground:
  dry:
    height: 0.33
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	tables, err := LoadTables(path)
	require.NoError(t, err)

	lush := tables[VariantTall].Config(BiomeLush)
	assert.Equal(t, 2.5, lush.DensityMultiplier, "density должен переопределиться")
	assert.Len(t, lush.Species, 2, "распределение видов должно замениться целиком")

	dry := tables[VariantGround].Config(BiomeDry)
	assert.Equal(t, 0.33, dry.HeightMultiplier)

	// Непереопределенные поля сохраняют встроенные значения.
	defaults := DefaultTables()
	assert.Equal(t, defaults[VariantTall].Config(BiomeLush).HeightMultiplier, lush.HeightMultiplier)
	assert.Equal(t, defaults[VariantTall].Config(BiomeNormal), tables[VariantTall].Config(BiomeNormal))
}

func TestLoadTables_Errors(t *testing.T) {
	_, err := LoadTables("/no/such/file.yml")
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("unknown_variant:\n  normal: {}\n"), 0644))
	_, err = LoadTables(bad)
	assert.Error(t, err, "неизвестный вариант покрова должен отклоняться")
}

func TestVariantParsing(t *testing.T) {
	v, ok := ParseVariant("ground")
	assert.True(t, ok)
	assert.Equal(t, VariantGround, v)

	_, ok = ParseVariant("medium")
	assert.False(t, ok)
}
