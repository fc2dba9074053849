package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("DFX_CONFIG", path)
}

func TestLoadAppliesDefaults(t *testing.T) {
	writeConfig(t, "{}")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://api.gleif.org/api/v1", cfg.Gleif.BaseURL)
	assert.Equal(t, "/lei-records/", cfg.Gleif.APIPath)
	assert.Equal(t, 10*time.Second, cfg.Gleif.Timeout)
	assert.Equal(t, "DEUTDEFFXXX", cfg.Local.BIC)
	assert.Equal(t, "DEUTSCHE BANK AKTIENGESELLSCHAFT", cfg.Local.LegalName)
	assert.Equal(t, 4, cfg.EventBus.Workers)
	assert.Equal(t, 256, cfg.EventBus.QueueSize)
	assert.Empty(t, cfg.Security.APIKey)
}

func TestLoadOverridesFromFile(t *testing.T) {
	writeConfig(t, `
server:
  host: "127.0.0.1"
  port: "9090"
local:
  bic: "COBADEFFXXX"
  legal_name: "COMMERZBANK AKTIENGESELLSCHAFT"
event_bus:
  workers: 2
  queue_size: 64
security:
  api_key: "secret"
gleif:
  timeout: 3s
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "COBADEFFXXX", cfg.Local.BIC)
	assert.Equal(t, 2, cfg.EventBus.Workers)
	assert.Equal(t, 64, cfg.EventBus.QueueSize)
	assert.Equal(t, "secret", cfg.Security.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Gleif.Timeout)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("DFX_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	require.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	writeConfig(t, "server: [not a map")
	_, err := Load()
	require.Error(t, err)
}
