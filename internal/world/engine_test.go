package world

import (
	"math"
	"testing"

	"github.com/annel0/floragen/internal/vec"
	"github.com/annel0/floragen/internal/world/biome"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, seed int64, opts ...Option) *Engine {
	t.Helper()
	engine, err := NewEngine(seed, opts...)
	require.NoError(t, err, "движок должен создаваться с корректными параметрами")
	return engine
}

func TestEngine_Deterministic(t *testing.T) {
	a := newTestEngine(t, 12345)
	b := newTestEngine(t, 12345)
	coord := vec.Vec2{X: 1, Y: 3}

	setA := a.GenerateVegetationForChunk(coord, biome.VariantTall)
	setB := b.GenerateVegetationForChunk(coord, biome.VariantTall)

	assert.Equal(t, setA.Positions, setB.Positions, "позиции должны совпадать побитово")
	assert.Equal(t, setA.Scales, setB.Scales, "масштабы должны совпадать побитово")
	assert.Equal(t, setA.Rotations, setB.Rotations, "повороты должны совпадать побитово")
	assert.Equal(t, setA.Species, setB.Species, "виды должны совпадать")
}

func TestEngine_DeterministicAcrossClearCache(t *testing.T) {
	engine := newTestEngine(t, 12345)
	coord := vec.Vec2{X: -4, Y: 9}

	before := engine.GenerateVegetationForChunk(coord, biome.VariantGround)
	engine.ClearCache()
	after := engine.GenerateVegetationForChunk(coord, biome.VariantGround)

	assert.Equal(t, before.Positions, after.Positions, "ClearCache не должен менять результат")
	assert.Equal(t, before.Scales, after.Scales)
	assert.Equal(t, before.Rotations, after.Rotations)
	assert.Equal(t, before.Species, after.Species)
}

func TestEngine_ConcreteScenario(t *testing.T) {
	// worldSeed = 12345, позиция (100, 0, 200) -> чанк (1, 3),
	// chunkSeed = 12345 + 1*73856093 + 3*19349663.
	engine := newTestEngine(t, 12345)

	coord := ToChunk(vec.Vec2Float{X: 100, Y: 200})
	require.Equal(t, vec.Vec2{X: 1, Y: 3}, coord)
	require.Equal(t, int64(12345+73856093+3*19349663), ChunkSeed(12345, coord))

	first := engine.GenerateVegetationForChunk(coord, biome.VariantTall)
	require.Greater(t, first.Len(), 0, "чанк не должен быть пустым")

	engine.ClearCache()
	second := engine.GenerateVegetationForChunk(coord, biome.VariantTall)

	require.Equal(t, first.Len(), second.Len(), "количество экземпляров должно воспроизводиться")
	for i := 0; i < 3 && i < first.Len(); i++ {
		assert.Equal(t, first.Positions[i], second.Positions[i], "позиция %d должна воспроизводиться", i)
	}
}

func TestEngine_SeedSensitivity(t *testing.T) {
	a := newTestEngine(t, 1)
	b := newTestEngine(t, 2)

	differs := false
	for cx := 0; cx < 4 && !differs; cx++ {
		for cz := 0; cz < 4 && !differs; cz++ {
			coord := vec.Vec2{X: cx, Y: cz}
			setA := a.GenerateVegetationForChunk(coord, biome.VariantTall)
			setB := b.GenerateVegetationForChunk(coord, biome.VariantTall)
			if setA.Len() != setB.Len() {
				differs = true
				break
			}
			for i := 0; i < setA.Len(); i++ {
				if setA.Positions[i] != setB.Positions[i] {
					differs = true
					break
				}
			}
		}
	}
	assert.True(t, differs, "смена сида мира обязана менять хотя бы один чанк")
}

func TestEngine_SetWorldSeedInvalidatesCache(t *testing.T) {
	engine := newTestEngine(t, 100)
	coord := vec.Vec2{X: 0, Y: 0}

	before := engine.GenerateVegetationForChunk(coord, biome.VariantTall)
	engine.SetWorldSeed(200)
	assert.Equal(t, int64(200), engine.WorldSeed())

	after := engine.GenerateVegetationForChunk(coord, biome.VariantTall)

	// После смены сида результат для того же ключа пересчитан.
	same := before.Len() == after.Len()
	if same {
		for i := 0; i < before.Len(); i++ {
			if before.Positions[i] != after.Positions[i] {
				same = false
				break
			}
		}
	}
	assert.False(t, same, "новый сид должен дать новый набор для уже запрошенного чанка")

	// Возврат старого сида воспроизводит старый набор.
	engine.SetWorldSeed(100)
	restored := engine.GenerateVegetationForChunk(coord, biome.VariantTall)
	assert.Equal(t, before.Positions, restored.Positions, "возврат сида должен восстановить набор")
}

func TestEngine_VariantsUseDistinctStreams(t *testing.T) {
	engine := newTestEngine(t, 12345)
	coord := vec.Vec2{X: 2, Y: 2}

	tall := engine.GenerateVegetationForChunk(coord, biome.VariantTall)
	ground := engine.GenerateVegetationForChunk(coord, biome.VariantGround)

	same := tall.Len() == ground.Len()
	if same {
		for i := 0; i < tall.Len(); i++ {
			if tall.Positions[i] != ground.Positions[i] {
				same = false
				break
			}
		}
	}
	assert.False(t, same, "варианты покрова не должны делить одну случайную последовательность")
}

func TestEngine_InstancesInsideChunk(t *testing.T) {
	engine := newTestEngine(t, 777)
	coord := vec.Vec2{X: -3, Y: 5}
	origin := ChunkOrigin(coord)

	set := engine.GenerateVegetationForChunk(coord, biome.VariantTall)
	require.Greater(t, set.Len(), 0)

	assert.Equal(t, set.Len(), len(set.Scales), "параллельные массивы должны совпадать по длине")
	assert.Equal(t, set.Len(), len(set.Rotations))
	assert.Equal(t, set.Len(), len(set.Species))

	for i := 0; i < set.Len(); i++ {
		p := set.Positions[i]
		assert.GreaterOrEqual(t, p.X, origin.X, "экземпляр %d вышел за чанк по X", i)
		assert.Less(t, p.X, origin.X+ChunkSize, "экземпляр %d вышел за чанк по X", i)
		assert.GreaterOrEqual(t, p.Z, origin.Y, "экземпляр %d вышел за чанк по Z", i)
		assert.Less(t, p.Z, origin.Y+ChunkSize, "экземпляр %d вышел за чанк по Z", i)

		assert.Greater(t, set.Scales[i].Y, 0.0, "масштаб должен быть положительным")
		assert.GreaterOrEqual(t, set.Rotations[i], 0.0)
		assert.Less(t, set.Rotations[i], 2*math.Pi)
		assert.NotEmpty(t, set.Species[i], "вид не должен быть пустым")
	}
}

func TestEngine_ExclusionFilter(t *testing.T) {
	coord := vec.Vec2{X: 0, Y: 0}

	full := newTestEngine(t, 42)
	fullSet := full.GenerateVegetationForChunk(coord, biome.VariantTall)
	require.Greater(t, fullSet.Len(), 0)

	// Исключаем западную половину чанка.
	half := newTestEngine(t, 42, WithExclusion(func(pos vec.Vec3Float) bool {
		return pos.X < ChunkSize/2
	}))
	halfSet := half.GenerateVegetationForChunk(coord, biome.VariantTall)

	assert.Less(t, halfSet.Len(), fullSet.Len(), "исключение должно уменьшить набор")
	for i, p := range halfSet.Positions {
		assert.GreaterOrEqual(t, p.X, ChunkSize/2, "экземпляр %d попал в исключенную зону", i)
	}
}

func TestEngine_GetBiomeInfo(t *testing.T) {
	engine := newTestEngine(t, 12345)

	for x := -300.0; x <= 300.0; x += 87.3 {
		info := engine.GetBiomeInfo(vec.Vec2Float{X: x, Y: -x})
		assert.GreaterOrEqual(t, info.Strength, 0.05, "сила влияния не должна падать ниже пола")
		assert.LessOrEqual(t, info.Strength, 1.0)
		assert.NotEqual(t, "unknown", info.Name)
	}
}

func TestEngine_ChunkBiomeRecord(t *testing.T) {
	engine := newTestEngine(t, 12345)
	coord := vec.Vec2{X: 4, Y: -2}

	rec := engine.ChunkBiomeRecord(coord)
	require.NotNil(t, rec)
	assert.LessOrEqual(t, len(rec.Influences), 8, "список влияний ограничен")

	// Влияния ранжированы по убыванию.
	for i := 1; i < len(rec.Influences); i++ {
		assert.GreaterOrEqual(t, rec.Influences[i-1].Weight, rec.Influences[i].Weight,
			"влияния должны быть отсортированы по убыванию")
	}

	// Повторный запрос возвращает закешированную запись.
	assert.Same(t, rec, engine.ChunkBiomeRecord(coord))
}

func TestEngine_ProbabilityBounds(t *testing.T) {
	engine := newTestEngine(t, 2024)
	stream := NewStream(555)

	for i := 0; i < 10000; i++ {
		pos := vec.Vec2Float{
			X: stream.Range(-2000, 2000),
			Y: stream.Range(-2000, 2000),
		}
		attrs := engine.BlendedAttributes(pos, biome.VariantTall)

		assert.GreaterOrEqual(t, attrs.Density, 0.0, "плотность не может быть отрицательной")
		assert.Greater(t, attrs.Height, 0.0, "высота должна быть положительной")

		sum := 0.0
		for _, sw := range attrs.Species {
			assert.GreaterOrEqual(t, sw.Probability, 0.0)
			assert.LessOrEqual(t, sw.Probability, 1.0)
			sum += sw.Probability
		}
		assert.InDelta(t, 1.0, sum, 1e-6, "распределение видов должно суммироваться к 1 в (%v, %v)", pos.X, pos.Y)
	}
}

func TestEngine_SpeciesDistributionFidelity(t *testing.T) {
	// 100000 выборок против фиксированной таблицы: эмпирические частоты
	// должны сойтись к заданным вероятностям.
	tables := biome.DefaultTables()
	weights := tables[biome.VariantTall].SpeciesWeights(biome.BiomeNormal)

	blended := biome.Blended{Species: weights}
	stream := NewStream(31337)

	counts := make(map[string]int)
	const draws = 100000
	for i := 0; i < draws; i++ {
		counts[blended.PickSpecies(stream.Next())]++
	}

	for _, sw := range weights {
		empirical := float64(counts[sw.Name]) / draws
		assert.InDelta(t, sw.Probability, empirical, 0.02,
			"частота вида %s разошлась с вероятностью", sw.Name)
	}
}

func TestEngine_InvalidParams(t *testing.T) {
	bad := DefaultParams()
	bad.BaseSpacing = 0

	_, err := NewEngine(1, WithParams(bad))
	assert.Error(t, err, "некорректная конфигурация должна отклоняться при создании")
}

func TestEngine_ReloadTablesClearsCache(t *testing.T) {
	engine := newTestEngine(t, 12345)
	coord := vec.Vec2{X: 1, Y: 1}

	engine.GenerateVegetationForChunk(coord, biome.VariantTall)
	stats := engine.Stats()
	require.Greater(t, stats.CachedSets, 0)

	engine.ReloadTables(biome.DefaultTables())
	stats = engine.Stats()
	assert.Equal(t, 0, stats.CachedSets, "перезагрузка таблиц должна сбрасывать кеш")
}
