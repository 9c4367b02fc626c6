package vec

import "math"

// Vec2Float представляет позицию на плоскости мира (x, z) с плавающей точкой
type Vec2Float struct {
	X, Y float64
}

// FromVec2 создает Vec2Float из Vec2
func FromVec2(v Vec2) Vec2Float {
	return Vec2Float{X: float64(v.X), Y: float64(v.Y)}
}

// ToCell возвращает целочисленную ячейку сетки с шагом size,
// в которую попадает позиция (деление с округлением вниз).
func (v Vec2Float) ToCell(size float64) Vec2 {
	return Vec2{
		X: int(math.Floor(v.X / size)),
		Y: int(math.Floor(v.Y / size)),
	}
}

// Add складывает два вектора
func (v Vec2Float) Add(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2Float) Sub(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul умножает вектор на скаляр
func (v Vec2Float) Mul(scalar float64) Vec2Float {
	return Vec2Float{X: v.X * scalar, Y: v.Y * scalar}
}

// Length возвращает длину вектора
func (v Vec2Float) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalized возвращает нормализованный вектор
func (v Vec2Float) Normalized() Vec2Float {
	length := v.Length()
	if length == 0 {
		return Vec2Float{X: 0, Y: 0}
	}
	return Vec2Float{X: v.X / length, Y: v.Y / length}
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2Float) DistanceTo(other Vec2Float) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// AngleTo возвращает угол (в радианах) от v к other в диапазоне [0, 2π)
func (v Vec2Float) AngleTo(other Vec2Float) float64 {
	angle := math.Atan2(other.Y-v.Y, other.X-v.X)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}
