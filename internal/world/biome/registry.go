package biome

import (
	"sync"

	"github.com/annel0/floragen/internal/noise"
	"github.com/annel0/floragen/internal/vec"
)

// RegionSize размер региона генерации форм в мировых единицах.
// Регионы крупнее чанков: одно биомное пятно накрывает много чанков.
const RegionSize = 256.0

// Параметры генерации форм на регион
const (
	minShapesPerRegion = 1
	maxShapesPerRegion = 3
	minShapeRadius     = 48.0
	maxShapeRadius     = 112.0
)

// ShapeRegistry лениво порождает органические формы по регионам
// и хранит их до смены сида. Формы региона целиком определяются
// (сид мира, координаты региона).
type ShapeRegistry struct {
	seed int64

	mu      sync.Mutex
	regions map[vec.Vec2][]*OrganicShape
}

// NewShapeRegistry создает реестр форм для указанного сида
func NewShapeRegistry(seed int64) *ShapeRegistry {
	return &ShapeRegistry{
		seed:    seed,
		regions: make(map[vec.Vec2][]*OrganicShape),
	}
}

// ShapesNear возвращает формы окрестности 3×3 регионов вокруг позиции.
// Порядок обхода регионов фиксирован, поэтому порядок форм стабилен.
func (r *ShapeRegistry) ShapesNear(pos vec.Vec2Float) []*OrganicShape {
	region := pos.ToCell(RegionSize)

	shapes := make([]*OrganicShape, 0, 9*maxShapesPerRegion)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			shapes = append(shapes, r.regionShapes(vec.Vec2{X: region.X + dx, Y: region.Y + dy})...)
		}
	}
	return shapes
}

// regionShapes возвращает (генерируя при первом запросе) формы региона
func (r *ShapeRegistry) regionShapes(region vec.Vec2) []*OrganicShape {
	r.mu.Lock()
	defer r.mu.Unlock()

	if shapes, ok := r.regions[region]; ok {
		return shapes
	}

	rx := int64(region.X)
	ry := int64(region.Y)

	regionHash := noise.Hash2(rx, ry, r.seed)
	count := minShapesPerRegion + int(noise.Abs64(regionHash)%(maxShapesPerRegion-minShapesPerRegion+1))

	shapes := make([]*OrganicShape, 0, count)
	for i := 0; i < count; i++ {
		shapeSeed := noise.Hash2(rx*maxShapesPerRegion+int64(i), ry*maxShapesPerRegion-int64(i), r.seed+int64(i)*1013)

		center := vec.Vec2Float{
			X: float64(region.X)*RegionSize + noise.Float01(noise.Hash2(shapeSeed, 1, r.seed))*RegionSize,
			Y: float64(region.Y)*RegionSize + noise.Float01(noise.Hash2(shapeSeed, 2, r.seed))*RegionSize,
		}

		biomeType := AllBiomes[noise.Abs64(shapeSeed)%NumBiomes]
		radius := minShapeRadius + noise.Float01(noise.Hash2(shapeSeed, 3, r.seed))*(maxShapeRadius-minShapeRadius)
		strength := 0.7 + 0.3*noise.Float01(noise.Hash2(shapeSeed, 4, r.seed))

		shapes = append(shapes, NewShape(center, biomeType, radius, shapeSeed, strength))
	}

	r.regions[region] = shapes
	return shapes
}

// Count возвращает количество сгенерированных регионов (для статуса)
func (r *ShapeRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.regions)
}
