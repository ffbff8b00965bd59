package config

import (
	"strings"

	"memomcp/internal/logging"
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// IsValidFormat reports whether Format is a known encoding. Empty means console.
func (c *LoggingConfig) IsValidFormat() bool {
	switch strings.ToLower(c.Format) {
	case "", logging.FormatConsole, logging.FormatJSON:
		return true
	}
	return false
}
