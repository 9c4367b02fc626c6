package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `server:
  rest_port: 9090
  metrics_port: 9091
engine:
  world_seed: 12345
  base_spacing: 2.0
  biome_table: /etc/floragen/biomes.yml
  log_diag_events: true
eventbus:
  enabled: true
  url: nats://localhost:4222
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Server.RESTPort)
	assert.Equal(t, int64(12345), cfg.Engine.WorldSeed)
	assert.Equal(t, 2.0, cfg.Engine.BaseSpacing)
	assert.Equal(t, "/etc/floragen/biomes.yml", cfg.Engine.BiomeTable)
	assert.True(t, cfg.Engine.LogDiagEvents)
	assert.True(t, cfg.EventBus.Enabled)
	assert.Equal(t, "nats://localhost:4222", cfg.EventBus.URL)
}

func TestLoad_NoConfig(t *testing.T) {
	t.Setenv("FLORAGEN_CONFIG", "")

	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Nil(t, cfg, "без конфигурации должны использоваться дефолты")
}

func TestLoad_FromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  rest_port: 7070\n"), 0644))
	t.Setenv("FLORAGEN_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 7070, cfg.Server.RESTPort)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("/no/such/config.yml")
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("server: [not a map"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestGetRESTPort_Priority(t *testing.T) {
	t.Setenv("FLORAGEN_REST_PORT", "")

	s := &ServerConfig{RESTPort: 9999}
	assert.Equal(t, 9999, s.GetRESTPort(), "значение из конфига имеет высший приоритет")

	s = &ServerConfig{}
	assert.Equal(t, 8080, s.GetRESTPort(), "без конфига и ENV используется дефолт")

	t.Setenv("FLORAGEN_REST_PORT", "8181")
	assert.Equal(t, 8181, s.GetRESTPort(), "ENV переопределяет дефолт")

	t.Setenv("FLORAGEN_REST_PORT", "not-a-port")
	assert.Equal(t, 8080, s.GetRESTPort(), "некорректный ENV игнорируется")
}

func TestGetMetricsPort_Default(t *testing.T) {
	t.Setenv("FLORAGEN_METRICS_PORT", "")
	s := &ServerConfig{}
	assert.Equal(t, 2112, s.GetMetricsPort())
}
