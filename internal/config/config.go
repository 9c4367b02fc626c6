package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации сервиса
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Engine   EngineConfig   `yaml:"engine"`
	EventBus EventBusConfig `yaml:"eventbus"`
}

type ServerConfig struct {
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"`
}

type EngineConfig struct {
	WorldSeed     int64   `yaml:"world_seed"`     // 0 = случайный сид на старте сессии
	BaseSpacing   float64 `yaml:"base_spacing"`   // 0 = значение по умолчанию
	BaseScale     float64 `yaml:"base_scale"`     // 0 = значение по умолчанию
	BiomeTable    string  `yaml:"biome_table"`    // Путь к YAML с переопределениями биомов
	LogDiagEvents bool    `yaml:"log_diag_events"` // Логировать события диагностической шины
}

type EventBusConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"` // Пустой URL = in-memory шина
}

// GetRESTPort возвращает REST порт с приоритетом: config -> env -> default
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "FLORAGEN_REST_PORT", 8080)
}

// GetMetricsPort возвращает порт метрик Prometheus с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "FLORAGEN_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV FLORAGEN_CONFIG или возвращает nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("FLORAGEN_CONFIG")
		if path == "" {
			return nil, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}

	return &cfg, nil
}
