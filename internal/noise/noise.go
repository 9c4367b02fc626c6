// Package noise реализует композицию непрерывных скалярных полей:
// фрактальный (многооктавный) шум, шум с доменным искажением и
// ячеистый шум Вороного. Все функции детерминированы относительно
// (позиция, сид, параметры) и не имеют изменяемого состояния,
// наблюдаемого снаружи.
package noise

import (
	"math"
	"sync"

	"github.com/aquilax/go-perlin"
)

// Параметры базового генератора Перлина: одна октава,
// октавную композицию выполняет Fractal2D самостоятельно.
const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinN     = 1
)

// Params задает параметры фрактального шума
type Params struct {
	Octaves     int     // Количество октав
	Persistence float64 // Множитель амплитуды между октавами
	Lacunarity  float64 // Множитель частоты между октавами
	BaseScale   float64 // Базовая частота (масштаб координат)
}

// CellInfo результат выборки шума Вороного
type CellInfo struct {
	Value     float64 // Нормированное расстояние до ближайшей опорной точки, [0..1]
	Distance  float64 // Расстояние в мировых единицах
	Distance2 float64 // Расстояние до второй ближайшей точки; на границе ячеек равно Distance
	CellID    int64   // Стабильный идентификатор ячейки
}

// Source порождает независимые шумовые каналы от одного мирового сида.
// Экземпляры Перлина создаются лениво по каналу и кешируются;
// кеш не влияет на результат, только на стоимость выборки.
type Source struct {
	seed int64

	mu      sync.Mutex
	perlins map[int64]*perlin.Perlin
}

// NewSource создает источник шума для указанного сида
func NewSource(seed int64) *Source {
	return &Source{
		seed:    seed,
		perlins: make(map[int64]*perlin.Perlin),
	}
}

// Seed возвращает сид источника
func (s *Source) Seed() int64 {
	return s.seed
}

// perlinFor возвращает генератор Перлина для шумового канала
func (s *Source) perlinFor(channel int64) *perlin.Perlin {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.perlins[channel]; ok {
		return p
	}
	p := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, s.seed+channel*0x5DEECE66D)
	s.perlins[channel] = p
	return p
}

// SignedFractal2D возвращает фрактальный шум в диапазоне [-1, 1]:
// сумма октав с нарастающей частотой и затухающей амплитудой,
// нормированная на максимально достижимую амплитуду.
func (s *Source) SignedFractal2D(x, z float64, channel int64, p Params) float64 {
	gen := s.perlinFor(channel)

	total := 0.0
	maxAmp := 0.0
	amplitude := 1.0
	frequency := p.BaseScale

	for i := 0; i < p.Octaves; i++ {
		total += gen.Noise2D(x*frequency, z*frequency) * amplitude
		maxAmp += amplitude
		amplitude *= p.Persistence
		frequency *= p.Lacunarity
	}

	if maxAmp == 0 {
		return 0
	}
	return clamp(total/maxAmp, -1, 1)
}

// Fractal2D возвращает фрактальный шум, приведенный к диапазону [0, 1]
func (s *Source) Fractal2D(x, z float64, channel int64, p Params) float64 {
	return (s.SignedFractal2D(x, z, channel, p) + 1.0) / 2.0
}

// Warped2D вычисляет шум с доменным искажением: два независимых
// фрактальных смещения сдвигают точку выборки, после чего фрактальный
// шум берется в смещенной позиции. Результат в [0, 1].
func (s *Source) Warped2D(x, z float64, channel int64, warpStrength float64, p Params) float64 {
	offX := s.SignedFractal2D(x, z, channel*2+101, p)
	offZ := s.SignedFractal2D(x, z, channel*2+103, p)

	return s.Fractal2D(x+offX*warpStrength, z+offZ*warpStrength, channel, p)
}

// Voronoi2D разбивает плоскость на ячейки размером 1/pointDensity и
// возвращает расстояние до ближайшей опорной точки среди ячейки и её
// восьми соседей. Опорная точка ячейки целиком определяется хешем
// (ячейка, сид, канал).
func (s *Source) Voronoi2D(x, z float64, channel int64, pointDensity float64) CellInfo {
	cellSize := 1.0 / pointDensity
	sx := x * pointDensity
	sz := z * pointDensity

	ix := int64(math.Floor(sx))
	iz := int64(math.Floor(sz))

	best := CellInfo{Distance: math.MaxFloat64, Distance2: math.MaxFloat64}

	for dz := int64(-1); dz <= 1; dz++ {
		for dx := int64(-1); dx <= 1; dx++ {
			cx := ix + dx
			cz := iz + dz

			h := Hash2(cx, cz, s.seed+channel)
			fx := float64(cx) + Float01(h)
			fz := float64(cz) + Float01(Hash2(cz, cx, s.seed+channel+1))

			ddx := (fx - sx) * cellSize
			ddz := (fz - sz) * cellSize
			dist := math.Sqrt(ddx*ddx + ddz*ddz)

			switch {
			case dist < best.Distance:
				best.Distance2 = best.Distance
				best.Distance = dist
				best.CellID = h
			case dist < best.Distance2:
				best.Distance2 = dist
			}
		}
	}

	// Нормировка: ближайшая точка не дальше диагонали ячейки.
	best.Value = clamp(best.Distance/(cellSize*math.Sqrt2), 0, 1)
	return best
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
