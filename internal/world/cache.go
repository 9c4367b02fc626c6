package world

import (
	"fmt"
	"sync"

	"github.com/annel0/floragen/internal/vec"
	"github.com/annel0/floragen/internal/world/biome"
	"golang.org/x/sync/singleflight"
)

// chunkKey ключ кеша наборов экземпляров: координата чанка + вариант покрова
type chunkKey struct {
	coord   vec.Vec2
	variant biome.Variant
}

// ChunkCache мемоизирует биомные записи по чанку и наборы экземпляров
// по (чанк, вариант). Инвалидация только целиком: Clear() при смене
// сида или явном сбросе; частичного вытеснения нет.
//
// singleflight гарантирует не больше одного вычисления на некеширо-
// ванный ключ: параллельные первые запросы одного чанка не исполняют
// computeFn дважды.
type ChunkCache struct {
	mu      sync.RWMutex
	records map[vec.Vec2]*ChunkBiomeRecord
	sets    map[chunkKey]*InstanceSet

	recGroup singleflight.Group
	setGroup singleflight.Group
}

// NewChunkCache создает пустой кеш
func NewChunkCache() *ChunkCache {
	return &ChunkCache{
		records: make(map[vec.Vec2]*ChunkBiomeRecord),
		sets:    make(map[chunkKey]*InstanceSet),
	}
}

// Record возвращает биомную запись чанка, вычисляя её при первом запросе
func (c *ChunkCache) Record(coord vec.Vec2, compute func() *ChunkBiomeRecord) *ChunkBiomeRecord {
	c.mu.RLock()
	if rec, ok := c.records[coord]; ok {
		c.mu.RUnlock()
		metricCacheHits.Inc()
		return rec
	}
	c.mu.RUnlock()
	metricCacheMisses.Inc()

	key := fmt.Sprintf("%d:%d", coord.X, coord.Y)
	v, _, _ := c.recGroup.Do(key, func() (interface{}, error) {
		// Запись появляется в кеше только целиком, по завершении вычисления.
		rec := compute()
		c.mu.Lock()
		c.records[coord] = rec
		c.mu.Unlock()
		return rec, nil
	})
	return v.(*ChunkBiomeRecord)
}

// Instances возвращает набор экземпляров для (чанк, вариант),
// вычисляя его при первом запросе
func (c *ChunkCache) Instances(coord vec.Vec2, variant biome.Variant, compute func() *InstanceSet) *InstanceSet {
	k := chunkKey{coord: coord, variant: variant}

	c.mu.RLock()
	if set, ok := c.sets[k]; ok {
		c.mu.RUnlock()
		metricCacheHits.Inc()
		return set
	}
	c.mu.RUnlock()
	metricCacheMisses.Inc()

	key := fmt.Sprintf("%d:%d:%d", coord.X, coord.Y, variant)
	v, _, _ := c.setGroup.Do(key, func() (interface{}, error) {
		set := compute()
		c.mu.Lock()
		c.sets[k] = set
		c.mu.Unlock()
		return set, nil
	})
	return v.(*InstanceSet)
}

// Clear сбрасывает кеш целиком
func (c *ChunkCache) Clear() {
	c.mu.Lock()
	c.records = make(map[vec.Vec2]*ChunkBiomeRecord)
	c.sets = make(map[chunkKey]*InstanceSet)
	c.mu.Unlock()
}

// Len возвращает размеры кеша: (биомные записи, наборы экземпляров)
func (c *ChunkCache) Len() (records, sets int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records), len(c.sets)
}
