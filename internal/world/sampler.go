package world

import (
	"math"

	"github.com/annel0/floragen/internal/vec"
	"github.com/annel0/floragen/internal/world/biome"
)

// Смещения сида потока по вариантам: высокий и низкий покров одного
// чанка не должны делить одну случайную последовательность.
const (
	variantOffsetTall   = 15731
	variantOffsetGround = 789221
)

func variantOffset(v biome.Variant) int64 {
	if v == biome.VariantGround {
		return variantOffsetGround
	}
	return variantOffsetTall
}

// sampleChunk генерирует набор экземпляров чанка. Чистая функция от
// (сид мира, координата, вариант, таблица): порядок шагов и порядок
// чтения потока фиксированы, никакой обход map здесь не допускается.
func sampleChunk(seed int64, coord vec.Vec2, variant biome.Variant,
	cls *biome.Classifier, table *biome.Table, params Params, exclude ExclusionFunc) *InstanceSet {

	stream := NewStream(ChunkSeed(seed, coord) + variantOffset(variant))
	origin := ChunkOrigin(coord)

	// Шаг сетки из плотности в центре чанка.
	centerAttrs := cls.BlendedAttributes(ChunkCenter(coord), table)
	density := centerAttrs.Density
	if density < params.MinDensity {
		density = params.MinDensity
	}
	spacing := params.BaseSpacing / math.Sqrt(density)
	if spacing < params.BaseSpacing*0.25 {
		spacing = params.BaseSpacing * 0.25
	}
	if spacing > ChunkSize {
		spacing = ChunkSize
	}

	steps := int(ChunkSize / spacing)
	set := NewInstanceSet(steps * steps / 2)

	for gz := 0; gz < steps; gz++ {
		for gx := 0; gx < steps; gx++ {
			// Джиттер внутри ячейки сетки убирает видимую регулярность.
			jx := stream.Next()
			jz := stream.Next()
			px := origin.X + (float64(gx)+jx)*spacing
			pz := origin.Y + (float64(gz)+jz)*spacing
			pos2 := vec.Vec2Float{X: px, Y: pz}

			// Атрибуты в самой точке: биом может меняться внутри чанка.
			attrs := cls.BlendedAttributes(pos2, table)

			spawnProb := attrs.Density*params.Coverage + (cls.MicroVariation(pos2)-0.5)*0.1
			if spawnProb < 0 {
				spawnProb = 0
			}
			if spawnProb > 1 {
				spawnProb = 1
			}

			if stream.Next() > spawnProb {
				continue
			}

			pos3 := vec.Vec3Float{X: px, Y: 0, Z: pz}
			if exclude != nil && exclude(pos3) {
				continue
			}

			heightVar := stream.Next()
			widthVar := stream.Next()
			sy := params.BaseScale * attrs.Height * (0.8 + 0.4*heightVar)
			sw := params.BaseScale * (0.9 + 0.2*widthVar)

			yaw := stream.Next() * 2 * math.Pi
			if attrs.WindExposure > 0 && params.WindAlignment > 0 {
				yaw = mixAngle(yaw, cls.WindAngle(pos2), attrs.WindExposure*params.WindAlignment)
			}

			species := attrs.PickSpecies(stream.Next())

			set.Append(pos3, vec.Vec3Float{X: sw, Y: sy, Z: sw}, yaw, species)
		}
	}

	return set
}

// mixAngle интерполирует угол a к углу b по кратчайшей дуге
func mixAngle(a, b, t float64) float64 {
	diff := math.Mod(b-a+3*math.Pi, 2*math.Pi) - math.Pi
	angle := math.Mod(a+diff*t, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}
