// Package config loads and persists the drawaudit configuration from
// ~/.drawaudit/config.json. Values resolve with the usual precedence:
// CLI flag > DRAWAUDIT_* environment variable > config file > default.
// The precedence itself is applied at the call sites that own the flags;
// this package only supplies the file and environment layers.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const currentVersion = 1

// Config is the persisted drawaudit configuration.
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	// Base is the default artifact root, so --base can be omitted once
	// the auditor has settled on an operator.
	Base string `json:"base,omitempty" mapstructure:"base"`

	// OnMissingSeed is the default Level 3 missing-seed policy.
	OnMissingSeed string `json:"onMissingSeed" mapstructure:"onMissingSeed"`

	// ShardBuckets is the operator's published shard bucket count;
	// 0 disables the shard range check.
	ShardBuckets int `json:"shardBuckets,omitempty" mapstructure:"shardBuckets"`

	// HistoryPath overrides the run ledger location.
	HistoryPath string `json:"historyPath,omitempty" mapstructure:"historyPath"`

	Log LogConfig `json:"log" mapstructure:"log"`
}

// LogConfig controls the logrus setup.
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Version:       currentVersion,
		OnMissingSeed: "skip",
		Log: LogConfig{
			Level:  "info",
			Format: "human",
		},
	}
}

// DefaultDir returns the drawaudit configuration directory, ~/.drawaudit.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate home directory: %w", err)
	}
	return filepath.Join(home, ".drawaudit"), nil
}

// Load reads config.json from dir, layering DRAWAUDIT_* environment
// variables over it. A missing file is not an error: defaults apply.
func Load(dir string) (*Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("version", def.Version)
	v.SetDefault("onMissingSeed", def.OnMissingSeed)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("DRAWAUDIT")
	v.AutomaticEnv()
	for _, key := range []string{"base", "onMissingSeed", "shardBuckets", "historyPath"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("cannot read config in %s: %w", dir, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config in %s: %w", dir, err)
	}
	return &cfg, nil
}

// Save writes the configuration as indented JSON to dir/config.json,
// creating the directory when needed.
func (c *Config) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode config: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}

// Validate checks value ranges before a saved config is used.
func (c *Config) Validate() error {
	switch c.OnMissingSeed {
	case "", "error", "skip", "warn":
	default:
		return fmt.Errorf("onMissingSeed must be error, skip or warn, got %q", c.OnMissingSeed)
	}
	if c.ShardBuckets < 0 {
		return fmt.Errorf("shardBuckets must be >= 0, got %d", c.ShardBuckets)
	}
	return nil
}
