// Package logging configures the process-wide logrus logger.
// Call sites import logrus directly; this package only applies the
// format and level resolved from config, flags, and environment.
package logging

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Config controls logger construction
type Config struct {
	Format string // "human" or "json"
	Level  string // "debug", "info", "warn", "error"
}

// Setup applies cfg to the standard logrus logger.
// Unknown levels fall back to info, unknown formats to human.
func Setup(cfg Config) {
	log.SetOutput(os.Stderr)

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	switch cfg.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// Quiet raises the level so only warnings and errors are emitted.
func Quiet() {
	log.SetLevel(log.WarnLevel)
}
