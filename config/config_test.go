package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/mangarec/core"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "csv", cfg.Data.Backend)
	assert.Equal(t, "items.csv", cfg.Data.ItemsPath)
	assert.Equal(t, "info", cfg.Log.Level)

	// 引擎零值交给 Normalized 补齐
	ecfg := cfg.EngineConfig().Normalized()
	assert.Equal(t, core.ModeItemCF, ecfg.Mode)
	assert.Equal(t, 4, ecfg.LikedThreshold)
	assert.Equal(t, 4, ecfg.RelevanceThreshold)
	assert.InDelta(t, 0.3, ecfg.TestFraction, 1e-12)
	assert.Equal(t, 5, ecfg.TopN)
	assert.Equal(t, 5, ecfg.EvalTopN)
	assert.Equal(t, 2, ecfg.MinRatings)
	assert.Equal(t, int64(42), ecfg.Seed)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  addr: ":9000"
data:
  backend: redis
  items_path: data/items.csv
  redis:
    addr: localhost:6379
    db: 1
engine:
  mode: content
  top_n: 10
  test_fraction: 0.2
filters:
  - item.category == "Josei"
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "redis", cfg.Data.Backend)
	assert.Equal(t, "localhost:6379", cfg.Data.Redis.Addr)
	assert.Equal(t, 1, cfg.Data.Redis.DB)
	assert.Equal(t, core.ModeContent, cfg.Engine.Mode)
	assert.Equal(t, 10, cfg.Engine.TopN)
	assert.Equal(t, []string{`item.category == "Josei"`}, cfg.Filters)
	assert.Equal(t, "debug", cfg.Log.Level)

	// 未设置的字段保留默认值
	assert.Equal(t, "ratings.csv", cfg.Data.RatingsPath)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(*Config) {}, false},
		{"unknown backend", func(c *Config) { c.Data.Backend = "postgres" }, true},
		{"unknown mode", func(c *Config) { c.Engine.Mode = "usercf" }, true},
		{"test_fraction at 1", func(c *Config) { c.Engine.TestFraction = 1 }, true},
		{"negative test_fraction", func(c *Config) { c.Engine.TestFraction = -0.1 }, true},
		{"redis without addr", func(c *Config) { c.Data.Backend = "redis" }, true},
		{"redis with addr", func(c *Config) {
			c.Data.Backend = "redis"
			c.Data.Redis.Addr = "localhost:6379"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
