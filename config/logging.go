package config

import (
	"fmt"

	corelogger "github.com/kilianp07/spaplan/core/logger"
)

// LoggingConfig defines the minimum level of the process logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = string(corelogger.LevelInfo)
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	if !corelogger.Level(c.Level).Valid() {
		return fmt.Errorf("unknown level %s", c.Level)
	}
	return nil
}
