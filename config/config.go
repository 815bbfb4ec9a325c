// Package config loads the run configuration from YAML or JSON with
// environment overrides.
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

	"github.com/DougMackenzie/energy-optimizer/core/metrics"
	"github.com/DougMackenzie/energy-optimizer/core/model"
	"github.com/DougMackenzie/energy-optimizer/infra/backend"
)

type Config struct {
	Site       model.Site       `json:"site"`
	Limits     model.Limits     `json:"limits"`
	Trajectory TrajectoryConfig `json:"trajectory"`
	Backend    backend.Config   `json:"backend"`
	Metrics    metrics.Config   `json:"metrics"`
	Optimizer  OptimizerConfig  `json:"optimizer"`
}

// Load reads a config file and applies EO_-prefixed environment overrides,
// where double underscores separate nesting levels.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
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
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("EO_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "eo_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Optimizer.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks mandatory fields across sections.
func (c *Config) Validate() error {
	if c.Site.Name == "" {
		return fmt.Errorf("site.name is required")
	}
	if c.Site.LandAcres <= 0 {
		return fmt.Errorf("site.land_acres must be positive")
	}
	if err := c.Trajectory.Validate(); err != nil {
		return err
	}
	return c.Optimizer.Validate()
}
