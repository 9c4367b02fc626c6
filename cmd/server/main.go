package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/floragen/internal/api"
	"github.com/annel0/floragen/internal/config"
	"github.com/annel0/floragen/internal/eventbus"
	"github.com/annel0/floragen/internal/logging"
	"github.com/annel0/floragen/internal/world"
	"github.com/annel0/floragen/internal/world/biome"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации")
	flag.Parse()

	if err := logging.InitDefaultLogger("floragen"); err != nil {
		log.Fatalf("Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("Запуск сервиса генерации растительности...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("Ошибка загрузки конфигурации: %v", err)
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	// Сид мира: из конфигурации либо случайный на старте сессии.
	// Дальше вся генерация — чистая функция сида и координат.
	seed := cfg.Engine.WorldSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logging.Info("Сид мира не задан, выбран случайный: %d", seed)
	}

	opts := buildEngineOptions(cfg)
	engine, err := world.NewEngine(seed, opts...)
	if err != nil {
		logging.Error("Ошибка создания движка: %v", err)
		log.Fatalf("Ошибка создания движка: %v", err)
	}

	restPort := cfg.Server.GetRESTPort()
	server := api.NewRestServer(engine, restPort)
	server.Start()

	logging.Info("Сервис запущен: сид=%d, REST=:%d", seed, restPort)

	// Ожидание сигнала завершения
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logging.Info("Остановка сервиса...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logging.Error("Ошибка остановки REST API: %v", err)
	}
	logging.Info("Сервис остановлен")
}

// buildEngineOptions собирает опции движка из конфигурации
func buildEngineOptions(cfg *config.Config) []world.Option {
	var opts []world.Option

	params := world.DefaultParams()
	if cfg.Engine.BaseSpacing > 0 {
		params.BaseSpacing = cfg.Engine.BaseSpacing
	}
	if cfg.Engine.BaseScale > 0 {
		params.BaseScale = cfg.Engine.BaseScale
	}
	opts = append(opts, world.WithParams(params))

	if cfg.Engine.BiomeTable != "" {
		tables, err := biome.LoadTables(cfg.Engine.BiomeTable)
		if err != nil {
			logging.Error("Ошибка загрузки таблицы биомов: %v", err)
			log.Fatalf("Ошибка загрузки таблицы биомов: %v", err)
		}
		opts = append(opts, world.WithTables(tables))
		logging.Info("Таблица биомов загружена из %s", cfg.Engine.BiomeTable)
	}

	if cfg.EventBus.Enabled {
		var bus eventbus.EventBus
		if cfg.EventBus.URL != "" {
			natsBus, err := eventbus.NewNatsBus(cfg.EventBus.URL)
			if err != nil {
				logging.Error("Ошибка подключения к NATS: %v", err)
				log.Fatalf("Ошибка подключения к NATS: %v", err)
			}
			bus = natsBus
			logging.Info("Диагностическая шина: NATS %s", cfg.EventBus.URL)
		} else {
			bus = eventbus.NewMemoryBus(256)
			logging.Info("Диагностическая шина: in-memory")
		}

		if cfg.Engine.LogDiagEvents {
			if _, err := eventbus.AttachLogger(context.Background(), bus, eventbus.Filter{}); err != nil {
				logging.Warn("Не удалось подписать логгер на шину: %v", err)
			}
		}
		opts = append(opts, world.WithEventBus(bus))
	}

	return opts
}
