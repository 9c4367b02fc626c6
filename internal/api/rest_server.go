package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"

	"github.com/annel0/floragen/internal/logging"
	"github.com/annel0/floragen/internal/middleware"
	"github.com/annel0/floragen/internal/vec"
	"github.com/annel0/floragen/internal/world"
	"github.com/annel0/floragen/internal/world/biome"
)

// Сжимаем ответы с наборами экземпляров начиная с этого размера JSON.
const gzipThresholdBytes = 4096

// Метрики HTTP регистрируются в глобальном регистре один раз на процесс.
var (
	promOnce sync.Once
	promMW   *middleware.PrometheusMiddleware
)

// RestServer REST-обвязка движка для внешних потребителей
// (рендерер, слой мира, инструменты).
type RestServer struct {
	engine  *world.Engine
	router  *gin.Engine
	httpSrv *http.Server
	metrics *ServerMetrics
}

// NewRestServer создает REST сервер поверх движка
func NewRestServer(engine *world.Engine, port int) *RestServer {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	promOnce.Do(func() {
		promMW = middleware.NewPrometheusMiddleware("floragen")
	})
	router.Use(promMW.Handler())
	promMW.RegisterMetricsEndpoint(router)

	s := &RestServer{
		engine:  engine,
		router:  router,
		metrics: NewServerMetrics(),
		httpSrv: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		},
	}

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/biome", s.handleBiome)
		apiGroup.GET("/chunks/:cx/:cz/biome", s.handleChunkBiome)
		apiGroup.GET("/chunks/:cx/:cz/vegetation", s.handleChunkVegetation)
		apiGroup.PUT("/world/seed", s.handleSetSeed)
		apiGroup.POST("/cache/clear", s.handleClearCache)
		apiGroup.POST("/tables/reload", s.handleReloadTables)
		apiGroup.GET("/status", s.handleStatus)
	}

	return s
}

// Router возвращает роутер (для тестов)
func (s *RestServer) Router() *gin.Engine {
	return s.router
}

// Start запускает сервер в отдельной горутине
func (s *RestServer) Start() {
	go func() {
		logging.Info("REST API слушает %s", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("REST API: %v", err)
		}
	}()
}

// Stop останавливает сервер
func (s *RestServer) Stop(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// handleBiome возвращает классификацию в точке: GET /api/biome?x=&z=
func (s *RestServer) handleBiome(c *gin.Context) {
	x, errX := strconv.ParseFloat(c.Query("x"), 64)
	z, errZ := strconv.ParseFloat(c.Query("z"), 64)
	if errX != nil || errZ != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "параметры x и z обязательны"})
		return
	}

	info := s.engine.GetBiomeInfo(vec.Vec2Float{X: x, Y: z})
	c.JSON(http.StatusOK, info)
}

// handleChunkBiome возвращает биомную сводку чанка
func (s *RestServer) handleChunkBiome(c *gin.Context) {
	coord, ok := parseChunkCoord(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.engine.ChunkBiomeRecord(coord))
}

// handleChunkVegetation возвращает набор экземпляров чанка:
// GET /api/chunks/:cx/:cz/vegetation?variant=tall|ground
func (s *RestServer) handleChunkVegetation(c *gin.Context) {
	coord, ok := parseChunkCoord(c)
	if !ok {
		return
	}

	variantName := c.DefaultQuery("variant", "tall")
	variant, ok := biome.ParseVariant(variantName)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("неизвестный вариант %q", variantName)})
		return
	}

	set := s.engine.GenerateVegetationForChunk(coord, variant)
	s.writeJSONMaybeGzip(c, gin.H{
		"chunk":     coord,
		"variant":   variant.String(),
		"count":     set.Len(),
		"instances": set,
	})
}

// handleSetSeed задает новый сид мира: PUT /api/world/seed {"seed": 12345}
func (s *RestServer) handleSetSeed(c *gin.Context) {
	var req struct {
		Seed int64 `json:"seed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "тело должно содержать поле seed"})
		return
	}

	s.engine.SetWorldSeed(req.Seed)
	logging.Info("Сид мира изменен на %d", req.Seed)
	c.JSON(http.StatusOK, gin.H{"seed": req.Seed})
}

// handleClearCache сбрасывает кеш без смены сида
func (s *RestServer) handleClearCache(c *gin.Context) {
	s.engine.ClearCache()
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// handleReloadTables горячо перезагружает таблицу биомов из файла
func (s *RestServer) handleReloadTables(c *gin.Context) {
	var req struct {
		Path string `json:"path"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "тело должно содержать поле path"})
		return
	}

	tables, err := biome.LoadTables(req.Path)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	s.engine.ReloadTables(tables)
	logging.Info("Таблицы биомов перезагружены из %s", req.Path)
	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}

// handleStatus возвращает сводку состояния сервиса
func (s *RestServer) handleStatus(c *gin.Context) {
	cpuPercent, err := s.metrics.GetCPUUsage()
	if err != nil {
		cpuPercent = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"uptime":    s.metrics.GetUptime(),
		"memory_mb": s.metrics.GetMemoryUsage(),
		"cpu_pct":   cpuPercent,
		"engine":    s.engine.Stats(),
	})
}

// writeJSONMaybeGzip отдает большие JSON-ответы gzip-сжатыми,
// если клиент поддерживает gzip
func (s *RestServer) writeJSONMaybeGzip(c *gin.Context, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	acceptsGzip := strings.Contains(c.GetHeader("Accept-Encoding"), "gzip")
	if !acceptsGzip || len(data) < gzipThresholdBytes {
		c.Data(http.StatusOK, "application/json", data)
		return
	}

	c.Header("Content-Encoding", "gzip")
	c.Header("Content-Type", "application/json")
	c.Status(http.StatusOK)

	gz := gzip.NewWriter(c.Writer)
	if _, err := gz.Write(data); err != nil {
		logging.Error("gzip ответа: %v", err)
	}
	if err := gz.Close(); err != nil {
		logging.Error("закрытие gzip: %v", err)
	}
}

// parseChunkCoord разбирает координату чанка из пути
func parseChunkCoord(c *gin.Context) (vec.Vec2, bool) {
	cx, errX := strconv.Atoi(c.Param("cx"))
	cz, errZ := strconv.Atoi(c.Param("cz"))
	if errX != nil || errZ != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "координаты чанка должны быть целыми"})
		return vec.Vec2{}, false
	}
	return vec.Vec2{X: cx, Y: cz}, true
}
