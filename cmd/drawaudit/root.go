package main

import (
	"os"

	"github.com/spf13/cobra"

	"drawaudit/internal/config"
	"drawaudit/internal/logging"
	"drawaudit/internal/version"
)

var (
	// logLevelFlag and logFormatFlag are the persistent logging flags.
	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "drawaudit",
	Short: "drawaudit - independent lottery draw verification",
	Long: `drawaudit independently verifies a periodic weighted lottery draw
without trusting the operator. Three audit levels:

  1  snapshot integrity: the published entrant snapshot hashes to the
     committed value byte for byte
  2  structure and coherence: the snapshot is canonically ordered, its
     totals match, and its canonical rebuild hashes to the same commitment
  3  winner reproduction: once the seed is revealed, the published winner
     list is exactly reproducible via weighted sampling without replacement`,
	Version: version.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		logging.Setup(logging.Config{
			Format: resolveString(logFormatFlag, "DRAWAUDIT_LOG_FORMAT", cfg.Log.Format),
			Level:  resolveString(logLevelFlag, "DRAWAUDIT_LOG_LEVEL", cfg.Log.Level),
		})
	},
}

func init() {
	rootCmd.SetVersionTemplate("drawaudit version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, error (default: info)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human or json (default: human)")
}

// loadConfig reads ~/.drawaudit/config.json, falling back to defaults
// when the directory or file does not exist or fails to load.
func loadConfig() *config.Config {
	dir, err := config.DefaultDir()
	if err != nil {
		return config.DefaultConfig()
	}
	cfg, err := config.Load(dir)
	if err != nil || cfg.Validate() != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// resolveString applies the flag > environment > config precedence for a
// single string setting.
func resolveString(flagValue, envVar, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(envVar); env != "" {
		return env
	}
	return configValue
}
