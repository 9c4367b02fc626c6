package world

import (
	"github.com/annel0/floragen/internal/vec"
	"github.com/annel0/floragen/internal/world/biome"
)

// ChunkSize размер чанка в мировых единицах (квадрат ChunkSize×ChunkSize
// на плоскости XZ). Чанк — единица кеширования и генерации.
const ChunkSize = 64.0

// Большие нечетные константы для вывода сида чанка из сида мира.
// Арифметика int64 с естественным переполнением (wrapping).
const (
	chunkSeedX = 73856093
	chunkSeedZ = 19349663
)

// ToChunk возвращает координату чанка, содержащего позицию.
// Каждая позиция принадлежит ровно одному чанку.
func ToChunk(pos vec.Vec2Float) vec.Vec2 {
	return pos.ToCell(ChunkSize)
}

// ChunkSeed возвращает стабильный сид чанка:
// worldSeed + cx*P1 + cz*P2.
func ChunkSeed(worldSeed int64, coord vec.Vec2) int64 {
	return worldSeed + int64(coord.X)*chunkSeedX + int64(coord.Y)*chunkSeedZ
}

// ChunkOrigin возвращает мировую позицию угла чанка с минимальными координатами
func ChunkOrigin(coord vec.Vec2) vec.Vec2Float {
	return vec.Vec2Float{
		X: float64(coord.X) * ChunkSize,
		Y: float64(coord.Y) * ChunkSize,
	}
}

// ChunkCenter возвращает мировую позицию центра чанка
func ChunkCenter(coord vec.Vec2) vec.Vec2Float {
	origin := ChunkOrigin(coord)
	return vec.Vec2Float{X: origin.X + ChunkSize/2, Y: origin.Y + ChunkSize/2}
}

// ChunkBiomeRecord кешируемая сводка классификации чанка
type ChunkBiomeRecord struct {
	Dominant       biome.BiomeType   `json:"dominant"`
	Name           string            `json:"name"`
	Strength       float64           `json:"strength"`
	TransitionZone bool              `json:"transition_zone"`
	Influences     []biome.Influence `json:"influences"` // Ранжированы по убыванию, не длиннее MaxRecorded
}
