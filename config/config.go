package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/spaplan/core/metrics"
	"github.com/kilianp07/spaplan/core/runlog"
)

// EnvPrefix marks environment variables that override file settings.
// SPA_WAIT__SETTLE_MS sets wait.settle_ms.
const EnvPrefix = "SPA_"

type Config struct {
	Workdir WorkdirConfig  `json:"workdir"`
	Reader  ReaderConfig   `json:"reader"`
	Merge   MergeConfig    `json:"merge"`
	Wait    WaitConfig     `json:"wait"`
	Logging LoggingConfig  `json:"logging"`
	Metrics metrics.Config `json:"metrics"`
	History runlog.Config  `json:"history"`
}

// Load reads the configuration at path and applies environment overrides.
// An empty path loads the environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Reader.SetDefaults()
	c.Merge.SetDefaults()
	c.Wait.SetDefaults()
	c.Logging.SetDefaults()
	c.History.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Merge.Validate(); err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	if err := c.Wait.Validate(); err != nil {
		return fmt.Errorf("wait: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.History.Validate(); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	return nil
}
