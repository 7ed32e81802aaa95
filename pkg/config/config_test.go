package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "ENV", "LOG_LEVEL", "LOG_FORMAT", "ALLOWED_ORIGIN", "MODEL_PATH",
		"DATABASE_URL", "HISTORY_BUFFER", "HISTORY_BATCH"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "*", cfg.AllowedOrigin)
	assert.Equal(t, "models/model_pipeline.bin", cfg.ModelPath)
	assert.Equal(t, DefaultHistoryBuffer, cfg.HistoryBuffer)
	assert.Equal(t, DefaultHistoryBatch, cfg.HistoryBatch)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, ":8000", cfg.Addr())
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("ALLOWED_ORIGIN", "https://fraud.example.com")
	t.Setenv("PORT", "9090")
	t.Setenv("HISTORY_BATCH", "8")
	t.Setenv("HISTORY_BUFFER", "not-a-number")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://fraud.example.com", cfg.AllowedOrigin)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 8, cfg.HistoryBatch)
	assert.Equal(t, DefaultHistoryBuffer, cfg.HistoryBuffer)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Port = "http" }},
		{"port out of range", func(c *Config) { c.Port = "70000" }},
		{"empty model path", func(c *Config) { c.ModelPath = "" }},
		{"zero buffer", func(c *Config) { c.HistoryBuffer = 0 }},
		{"zero batch", func(c *Config) { c.HistoryBatch = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Port: DefaultPort, ModelPath: DefaultModelPath, HistoryBuffer: 1, HistoryBatch: 1}
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
