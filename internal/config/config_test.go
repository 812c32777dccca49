package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, currentVersion, cfg.Version)
	assert.Equal(t, "skip", cfg.OnMissingSeed)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "human", cfg.Log.Format)
	assert.Empty(t, cfg.Base)
	assert.Zero(t, cfg.ShardBuckets)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	raw := `{
  "version": 1,
  "base": "https://draws.example.test/audit",
  "onMissingSeed": "warn",
  "shardBuckets": 16,
  "historyPath": "/var/lib/drawaudit/history.db",
  "log": {"level": "debug", "format": "json"}
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(raw), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://draws.example.test/audit", cfg.Base)
	assert.Equal(t, "warn", cfg.OnMissingSeed)
	assert.Equal(t, 16, cfg.ShardBuckets)
	assert.Equal(t, "/var/lib/drawaudit/history.db", cfg.HistoryPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	raw := `{"version": 1, "onMissingSeed": "skip", "base": "https://file.example.test"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(raw), 0644))

	t.Setenv("DRAWAUDIT_ONMISSINGSEED", "error")
	t.Setenv("DRAWAUDIT_BASE", "https://env.example.test")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.OnMissingSeed)
	assert.Equal(t, "https://env.example.test", cfg.Base)
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".drawaudit")

	cfg := DefaultConfig()
	cfg.Base = "https://draws.example.test/audit"
	cfg.ShardBuckets = 8
	require.NoError(t, cfg.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg.Base, loaded.Base)
	assert.Equal(t, cfg.ShardBuckets, loaded.ShardBuckets)
	assert.Equal(t, cfg.OnMissingSeed, loaded.OnMissingSeed)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"error policy valid", func(c *Config) { c.OnMissingSeed = "error" }, false},
		{"unknown policy", func(c *Config) { c.OnMissingSeed = "ignore" }, true},
		{"negative buckets", func(c *Config) { c.ShardBuckets = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
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
