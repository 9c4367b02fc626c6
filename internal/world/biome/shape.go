package biome

import (
	"math"

	"github.com/annel0/floragen/internal/noise"
	"github.com/annel0/floragen/internal/vec"
)

// Пределы искажения границы относительно базового радиуса.
// Не дают форме самопересечься или выродиться.
const (
	minRadiusFactor = 0.6
	maxRadiusFactor = 1.4
)

// Гармоники искажения границы. Целые кратности угла сохраняют
// замкнутость контура (значение при 0 и 2π совпадает).
var (
	boundaryHarmonics  = [3]float64{2, 3, 5}
	boundaryAmplitudes = [3]float64{0.22, 0.14, 0.08}
)

// OrganicShape неправильная замкнутая форма биомного пятна.
// Контрольные точки порождаются один раз из сида и не изменяются.
type OrganicShape struct {
	Center        vec.Vec2Float
	Type          BiomeType
	BaseRadius    float64
	Seed          int64
	Strength      float64
	ControlPoints []vec.Vec2Float
	Complexity    int
}

// NewShape создает форму: 8-12 контрольных точек на равных углах,
// радиус каждой точки возмущен детерминированным искажением границы.
func NewShape(center vec.Vec2Float, biomeType BiomeType, baseRadius float64, seed int64, strength float64) *OrganicShape {
	s := &OrganicShape{
		Center:     center,
		Type:       biomeType,
		BaseRadius: baseRadius,
		Seed:       seed,
		Strength:   strength,
	}

	s.Complexity = 8 + int(noise.Abs64(noise.Hash2(seed, 7, seed))%5)
	s.ControlPoints = make([]vec.Vec2Float, 0, s.Complexity)

	for i := 0; i < s.Complexity; i++ {
		angle := 2 * math.Pi * float64(i) / float64(s.Complexity)
		r := s.boundaryRadius(angle)
		s.ControlPoints = append(s.ControlPoints, vec.Vec2Float{
			X: center.X + math.Cos(angle)*r,
			Y: center.Y + math.Sin(angle)*r,
		})
	}

	return s
}

// boundaryRadius возвращает радиус границы под заданным углом.
// Та же функция используется и при построении контрольных точек,
// и при вычислении расстояния до границы.
func (s *OrganicShape) boundaryRadius(angle float64) float64 {
	distortion := 0.0
	for i := range boundaryHarmonics {
		phase := noise.Float01(noise.Hash2(s.Seed, int64(i+1)*131, s.Seed^0x5F3759DF)) * 2 * math.Pi
		distortion += boundaryAmplitudes[i] * math.Sin(boundaryHarmonics[i]*angle+phase)
	}

	factor := 1.0 + distortion
	if factor < minRadiusFactor {
		factor = minRadiusFactor
	}
	if factor > maxRadiusFactor {
		factor = maxRadiusFactor
	}
	return s.BaseRadius * factor
}

// DistanceToBoundary возвращает подписанное расстояние до границы формы
// (отрицательное — внутри). Позиция точно в центре не имеет угла,
// поэтому трактуется как "глубоко внутри", а не как NaN.
func (s *OrganicShape) DistanceToBoundary(pos vec.Vec2Float) float64 {
	dist := s.Center.DistanceTo(pos)
	if dist == 0 {
		return -s.BaseRadius * minRadiusFactor
	}
	return dist - s.boundaryRadius(s.Center.AngleTo(pos))
}

// Influence возвращает вклад формы в точке: Strength внутри границы,
// плавный спад по smoothstep в пределах transitionWidth за границей,
// ноль дальше. Жесткие 1/0 границы не используются — переходные зоны
// требуют мягкого спада.
func (s *OrganicShape) Influence(pos vec.Vec2Float, transitionWidth float64) float64 {
	d := s.DistanceToBoundary(pos)
	switch {
	case d <= 0:
		return s.Strength
	case transitionWidth <= 0 || d >= transitionWidth:
		return 0
	default:
		t := 1.0 - d/transitionWidth
		return s.Strength * t * t * (3 - 2*t)
	}
}
