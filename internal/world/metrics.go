package world

import "github.com/prometheus/client_golang/prometheus"

// Метрики движка:
// * floragen_chunks_generated_total{variant} — счетчик сгенерированных чанков
// * floragen_cache_hits_total / floragen_cache_misses_total — кеш
// * floragen_chunk_generation_seconds — histogram длительности генерации
// * floragen_instances_per_chunk — histogram размера набора экземпляров
var (
	metricChunksGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "floragen",
		Name:      "chunks_generated_total",
		Help:      "Количество сгенерированных наборов растительности.",
	}, []string{"variant"})

	metricCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "floragen",
		Name:      "cache_hits_total",
		Help:      "Попадания в кеш чанков.",
	})

	metricCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "floragen",
		Name:      "cache_misses_total",
		Help:      "Промахи кеша чанков.",
	})

	metricGenDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "floragen",
		Name:      "chunk_generation_seconds",
		Help:      "Длительность генерации одного чанка.",
		Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	})

	metricInstancesPerChunk = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "floragen",
		Name:      "instances_per_chunk",
		Help:      "Количество экземпляров в сгенерированном чанке.",
		Buckets:   []float64{0, 100, 250, 500, 1000, 2000, 4000, 8000},
	})
)

func init() {
	prometheus.MustRegister(
		metricChunksGenerated,
		metricCacheHits,
		metricCacheMisses,
		metricGenDuration,
		metricInstancesPerChunk,
	)
}
