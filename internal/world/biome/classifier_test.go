package biome

import (
	"math"
	"testing"

	"github.com/annel0/floragen/internal/noise"
	"github.com/annel0/floragen/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier(seed int64) *Classifier {
	src := noise.NewSource(seed)
	return NewClassifier(src, NewShapeRegistry(seed), DefaultClassifierParams())
}

func TestClassify_Deterministic(t *testing.T) {
	a := newTestClassifier(12345)
	b := newTestClassifier(12345)

	for x := -500.0; x <= 500.0; x += 111.1 {
		pos := vec.Vec2Float{X: x, Y: x * 0.3}
		assert.Equal(t, a.Classify(pos), b.Classify(pos), "классификация разошлась в (%v)", pos)
	}
}

func TestClassify_StrengthBounds(t *testing.T) {
	cls := newTestClassifier(999)
	params := cls.Params()

	for x := -1000.0; x <= 1000.0; x += 73.7 {
		info := cls.Classify(vec.Vec2Float{X: x, Y: -x * 0.5})
		assert.GreaterOrEqual(t, info.Strength, params.MinInfluence,
			"сила не должна падать ниже пола даже в мертвых зонах шума")
		assert.LessOrEqual(t, info.Strength, 1.0)
	}
}

func TestInfluences_SortedAndCapped(t *testing.T) {
	cls := newTestClassifier(2024)

	for x := -640.0; x <= 640.0; x += 97.0 {
		influences := cls.Influences(vec.Vec2Float{X: x, Y: x})
		require.NotEmpty(t, influences, "всегда есть хотя бы базовый вклад")
		assert.LessOrEqual(t, len(influences), cls.Params().MaxRecorded)

		for i := 1; i < len(influences); i++ {
			assert.GreaterOrEqual(t, influences[i-1].Weight, influences[i].Weight,
				"влияния должны идти по убыванию")
		}
		for _, inf := range influences {
			assert.Greater(t, inf.Weight, 0.0)
		}
	}
}

func TestBlendedAttributes_SpeciesRenormalized(t *testing.T) {
	cls := newTestClassifier(7)
	table := DefaultTables()[VariantGround]

	for x := -320.0; x <= 320.0; x += 41.3 {
		blended := cls.BlendedAttributes(vec.Vec2Float{X: x, Y: 2 * x}, table)

		sum := 0.0
		for _, sw := range blended.Species {
			sum += sw.Probability
		}
		assert.InDelta(t, 1.0, sum, 1e-6, "после смешивания распределение должно ренормализоваться")
		assert.Greater(t, blended.Density, 0.0)
		assert.Greater(t, blended.Height, 0.0)
	}
}

func TestBlendedAttributes_DensityContinuity(t *testing.T) {
	// Трансекта через мир: плотность меняется плавно, без бинарных
	// скачков на границах форм и ячеек.
	cls := newTestClassifier(12345)
	table := DefaultTables()[VariantTall]

	const step = 0.5
	const maxDelta = 0.4 // на шаг; бинарная кромка дала бы скачок порядка 1.0

	prev := cls.BlendedAttributes(vec.Vec2Float{X: -400, Y: 133}, table).Density
	for x := -400.0 + step; x <= 400.0; x += step {
		cur := cls.BlendedAttributes(vec.Vec2Float{X: x, Y: 133}, table).Density
		assert.LessOrEqual(t, math.Abs(cur-prev), maxDelta,
			"разрыв плотности на x=%v: %v -> %v", x, prev, cur)
		prev = cur
	}
}

func TestClassify_TransitionZoneExists(t *testing.T) {
	// На достаточно длинной трансекте встречаются и переходные,
	// и однозначные точки.
	cls := newTestClassifier(12345)

	transitions := 0
	pure := 0
	for x := -2000.0; x <= 2000.0; x += 9.7 {
		if cls.Classify(vec.Vec2Float{X: x, Y: -x}).TransitionZone {
			transitions++
		} else {
			pure++
		}
	}
	assert.Greater(t, transitions, 0, "переходные зоны должны встречаться")
	assert.Greater(t, pure, 0, "чистые зоны должны встречаться")
}

func TestWindAngle_Bounds(t *testing.T) {
	cls := newTestClassifier(55)

	for x := -200.0; x <= 200.0; x += 31.1 {
		angle := cls.WindAngle(vec.Vec2Float{X: x, Y: x})
		assert.GreaterOrEqual(t, angle, 0.0)
		assert.LessOrEqual(t, angle, 2*math.Pi)
	}
}

func TestShapeRegistry_Deterministic(t *testing.T) {
	a := NewShapeRegistry(42)
	b := NewShapeRegistry(42)
	pos := vec.Vec2Float{X: 300, Y: -700}

	shapesA := a.ShapesNear(pos)
	shapesB := b.ShapesNear(pos)

	require.Equal(t, len(shapesA), len(shapesB), "количество форм должно совпадать")
	for i := range shapesA {
		assert.Equal(t, shapesA[i].Center, shapesB[i].Center, "форма %d: центры разошлись", i)
		assert.Equal(t, shapesA[i].Type, shapesB[i].Type)
		assert.Equal(t, shapesA[i].BaseRadius, shapesB[i].BaseRadius)
	}
}

func TestShapeRegistry_LazyPerRegion(t *testing.T) {
	r := NewShapeRegistry(7)
	assert.Equal(t, 0, r.Count(), "до первого запроса регионов нет")

	r.ShapesNear(vec.Vec2Float{X: 0, Y: 0})
	assert.Equal(t, 9, r.Count(), "запрос порождает окрестность 3×3 региона")

	// Повторный запрос той же окрестности ничего не добавляет.
	r.ShapesNear(vec.Vec2Float{X: 1, Y: 1})
	assert.Equal(t, 9, r.Count())
}

func TestShapeRegistry_CountsPerRegion(t *testing.T) {
	r := NewShapeRegistry(100)

	for _, pos := range []vec.Vec2Float{{X: 0, Y: 0}, {X: 1000, Y: 1000}, {X: -5000, Y: 3000}} {
		shapes := r.ShapesNear(pos)
		// 9 регионов по 1-3 формы.
		assert.GreaterOrEqual(t, len(shapes), 9)
		assert.LessOrEqual(t, len(shapes), 27)
	}
}
