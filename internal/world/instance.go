package world

import "github.com/annel0/floragen/internal/vec"

// InstanceSet набор экземпляров растительности одного чанка.
// Параллельные массивы одинаковой длины: по записи на экземпляр.
// Геометрия и отрисовка — забота внешнего слоя; здесь только данные.
type InstanceSet struct {
	Positions []vec.Vec3Float `json:"positions"`
	Scales    []vec.Vec3Float `json:"scales"`
	Rotations []float64       `json:"rotations"` // Поворот вокруг вертикальной оси, радианы
	Species   []string        `json:"species"`
}

// NewInstanceSet создает пустой набор с запасом емкости
func NewInstanceSet(capacity int) *InstanceSet {
	return &InstanceSet{
		Positions: make([]vec.Vec3Float, 0, capacity),
		Scales:    make([]vec.Vec3Float, 0, capacity),
		Rotations: make([]float64, 0, capacity),
		Species:   make([]string, 0, capacity),
	}
}

// Append добавляет экземпляр во все параллельные массивы
func (s *InstanceSet) Append(pos, scale vec.Vec3Float, rotation float64, species string) {
	s.Positions = append(s.Positions, pos)
	s.Scales = append(s.Scales, scale)
	s.Rotations = append(s.Rotations, rotation)
	s.Species = append(s.Species, species)
}

// Len возвращает количество экземпляров
func (s *InstanceSet) Len() int {
	return len(s.Positions)
}
