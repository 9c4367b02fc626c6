package world

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/annel0/floragen/internal/eventbus"
	"github.com/annel0/floragen/internal/noise"
	"github.com/annel0/floragen/internal/vec"
	"github.com/annel0/floragen/internal/world/biome"
)

// Типы диагностических событий движка
const (
	EventChunkGenerated = "chunk_generated"
	EventCacheCleared   = "cache_cleared"
	EventReseeded       = "reseeded"
	EventTablesReloaded = "tables_reloaded"
)

// ExclusionFunc сообщает, занята ли позиция внешним объектом
// (например, фундаментом здания). nil означает "никогда не занята".
type ExclusionFunc func(pos vec.Vec3Float) bool

// Params параметры генерации растительности
type Params struct {
	BaseSpacing   float64 // Базовый шаг сетки выборки, мировые единицы
	BaseScale     float64 // Базовый масштаб экземпляра
	Coverage      float64 // Множитель вероятности прорастания
	WindAlignment float64 // Доля подворота к направлению ветра
	MinDensity    float64 // Нижний предел плотности при расчете шага

	Classifier biome.ClassifierParams
}

// DefaultParams возвращает параметры по умолчанию
func DefaultParams() Params {
	return Params{
		BaseSpacing:   1.6,
		BaseScale:     1.0,
		Coverage:      0.45,
		WindAlignment: 0.35,
		MinDensity:    0.05,
		Classifier:    biome.DefaultClassifierParams(),
	}
}

// validate проверяет параметры один раз при создании движка.
// Ядро не имеет поточечных ошибок, поэтому ошибки конфигурации
// должны всплывать сразу, а не на каждом запросе.
func (p Params) validate() error {
	if p.BaseSpacing <= 0 {
		return fmt.Errorf("base spacing должен быть > 0, получено %v", p.BaseSpacing)
	}
	if p.MinDensity <= 0 {
		return fmt.Errorf("min density должен быть > 0, получено %v", p.MinDensity)
	}
	if p.Coverage < 0 || p.Coverage > 1 {
		return fmt.Errorf("coverage должен лежать в [0,1], получено %v", p.Coverage)
	}
	if p.Classifier.TopK <= 0 || p.Classifier.MaxRecorded <= 0 {
		return fmt.Errorf("topK и maxRecorded должны быть > 0")
	}
	return nil
}

// Engine контекст мира: сид, источник шума, реестр форм, классификатор
// и кеш чанков за одним объектом. Несколько независимых миров — это
// просто несколько движков; скрытого глобального состояния нет.
type Engine struct {
	mu         sync.RWMutex
	seed       int64
	src        *noise.Source
	registry   *biome.ShapeRegistry
	classifier *biome.Classifier
	cache      *ChunkCache
	tables     map[biome.Variant]*biome.Table

	params  Params
	exclude ExclusionFunc
	bus     eventbus.EventBus
}

// Option настраивает движок при создании
type Option func(*Engine)

// WithExclusion задает внешний запрос занятости позиций
func WithExclusion(fn ExclusionFunc) Option {
	return func(e *Engine) { e.exclude = fn }
}

// WithEventBus подключает диагностическую шину
func WithEventBus(bus eventbus.EventBus) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithTables заменяет встроенные таблицы биомов
func WithTables(tables map[biome.Variant]*biome.Table) Option {
	return func(e *Engine) { e.tables = tables }
}

// WithParams заменяет параметры генерации
func WithParams(p Params) Option {
	return func(e *Engine) { e.params = p }
}

// NewEngine создает движок для указанного сида мира
func NewEngine(seed int64, opts ...Option) (*Engine, error) {
	e := &Engine{
		params: DefaultParams(),
		tables: biome.DefaultTables(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.params.validate(); err != nil {
		return nil, fmt.Errorf("некорректные параметры движка: %w", err)
	}

	e.reseedLocked(seed)
	return e, nil
}

// reseedLocked пересоздает все производное от сида состояние.
// Вызывается из-под write-lock (или до публикации движка).
func (e *Engine) reseedLocked(seed int64) {
	e.seed = seed
	e.src = noise.NewSource(seed)
	e.registry = biome.NewShapeRegistry(seed)
	e.classifier = biome.NewClassifier(e.src, e.registry, e.params.Classifier)
	e.cache = NewChunkCache()
}

// WorldSeed возвращает текущий сид мира
func (e *Engine) WorldSeed() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.seed
}

// SetWorldSeed задает новый сид и целиком сбрасывает производное
// состояние: кеш, реестр форм и источники шума. Это единственный
// путь, по которому содержимое уже закешированного ключа может измениться.
func (e *Engine) SetWorldSeed(seed int64) {
	e.mu.Lock()
	e.reseedLocked(seed)
	e.mu.Unlock()

	e.publish(EventReseeded, map[string]string{"seed": strconv.FormatInt(seed, 10)})
}

// ClearCache принудительно сбрасывает кеш без смены сида
// (например, после горячей перезагрузки конфигурации)
func (e *Engine) ClearCache() {
	e.mu.RLock()
	cache := e.cache
	e.mu.RUnlock()

	cache.Clear()
	e.publish(EventCacheCleared, nil)
}

// ReloadTables подменяет таблицы биомов и сбрасывает кеш
func (e *Engine) ReloadTables(tables map[biome.Variant]*biome.Table) {
	e.mu.Lock()
	e.tables = tables
	e.cache = NewChunkCache()
	e.mu.Unlock()

	e.publish(EventTablesReloaded, nil)
}

// GetBiomeInfo возвращает биомное решение в точке мира.
// Используется внешними потребителями помимо инстансинга
// (выбор звука шагов, визуальные запросы).
func (e *Engine) GetBiomeInfo(pos vec.Vec2Float) biome.BiomeInfo {
	e.mu.RLock()
	cls := e.classifier
	e.mu.RUnlock()

	return cls.Classify(pos)
}

// BlendedAttributes возвращает смешанные атрибуты растительности в точке
func (e *Engine) BlendedAttributes(pos vec.Vec2Float, variant biome.Variant) biome.Blended {
	e.mu.RLock()
	cls := e.classifier
	table := e.tables[variant]
	e.mu.RUnlock()

	return cls.BlendedAttributes(pos, table)
}

// ChunkBiomeRecord возвращает (кешируя) биомную сводку чанка
func (e *Engine) ChunkBiomeRecord(coord vec.Vec2) *ChunkBiomeRecord {
	e.mu.RLock()
	cls := e.classifier
	cache := e.cache
	params := e.params.Classifier
	e.mu.RUnlock()

	return cache.Record(coord, func() *ChunkBiomeRecord {
		center := ChunkCenter(coord)
		influences := cls.Influences(center)
		if len(influences) > params.MaxRecorded {
			influences = influences[:params.MaxRecorded]
		}
		info := cls.Classify(center)
		return &ChunkBiomeRecord{
			Dominant:       info.Type,
			Name:           info.Name,
			Strength:       info.Strength,
			TransitionZone: info.TransitionZone,
			Influences:     influences,
		}
	})
}

// GenerateVegetationForChunk возвращает (кешируя) набор экземпляров
// растительности для чанка и варианта покрова. При фиксированном сиде
// результат побитово воспроизводим, в том числе после ClearCache.
func (e *Engine) GenerateVegetationForChunk(coord vec.Vec2, variant biome.Variant) *InstanceSet {
	e.mu.RLock()
	seed := e.seed
	cls := e.classifier
	cache := e.cache
	table := e.tables[variant]
	params := e.params
	exclude := e.exclude
	e.mu.RUnlock()

	return cache.Instances(coord, variant, func() *InstanceSet {
		start := time.Now()
		set := sampleChunk(seed, coord, variant, cls, table, params, exclude)

		metricGenDuration.Observe(time.Since(start).Seconds())
		metricChunksGenerated.WithLabelValues(variant.String()).Inc()
		metricInstancesPerChunk.Observe(float64(set.Len()))

		e.publish(EventChunkGenerated, map[string]string{
			"chunk":     fmt.Sprintf("%d:%d", coord.X, coord.Y),
			"variant":   variant.String(),
			"instances": strconv.Itoa(set.Len()),
		})
		return set
	})
}

// GenerateVegetationAt генерирует растительность чанка, содержащего позицию
func (e *Engine) GenerateVegetationAt(pos vec.Vec2Float, variant biome.Variant) *InstanceSet {
	return e.GenerateVegetationForChunk(ToChunk(pos), variant)
}

// EngineStats сводка состояния движка для статусных запросов
type EngineStats struct {
	Seed          int64 `json:"seed"`
	CachedRecords int   `json:"cached_records"`
	CachedSets    int   `json:"cached_sets"`
	Regions       int   `json:"regions"`
}

// Stats возвращает сводку состояния движка
func (e *Engine) Stats() EngineStats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	records, sets := e.cache.Len()
	return EngineStats{
		Seed:          e.seed,
		CachedRecords: records,
		CachedSets:    sets,
		Regions:       e.registry.Count(),
	}
}

// publish отправляет диагностическое событие, если шина подключена
func (e *Engine) publish(eventType string, metadata map[string]string) {
	if e.bus == nil {
		return
	}
	_ = e.bus.Publish(context.Background(), eventbus.NewEnvelope(eventType, "world-engine", metadata))
}
