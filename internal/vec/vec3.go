package vec

import "math"

// Vec3Float представляет трехмерный вектор с плавающими координатами.
// Ось Y направлена вверх; растительность размещается на плоскости XZ.
type Vec3Float struct {
	X float64
	Y float64
	Z float64
}

// XZ возвращает проекцию на плоскость мира (x, z)
func (v Vec3Float) XZ() Vec2Float {
	return Vec2Float{X: v.X, Y: v.Z}
}

// DistanceTo возвращает расстояние до другого вектора
func (v Vec3Float) DistanceTo(other Vec3Float) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Equals проверяет равенство векторов
func (v Vec3Float) Equals(other Vec3Float) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}
