package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/studyplan/core/factory"
	"github.com/kilianp07/studyplan/core/history"
	"github.com/kilianp07/studyplan/core/metrics"
	"github.com/kilianp07/studyplan/core/scheduler"
	"github.com/kilianp07/studyplan/infra/monitoring"
	"github.com/kilianp07/studyplan/infra/mqtt"
)

// ErrCounterIDs is returned when counter session IDs are combined with a
// store that outlives the process or is shared.
var ErrCounterIDs = errors.New("id_strategy counter requires the memory store")

type Config struct {
	Planner scheduler.SchedulerConfig `json:"planner"`
	Store   factory.ModuleConfig      `json:"store"`
	History history.Config            `json:"history"`
	Metrics metrics.Config            `json:"metrics"`
	Notify  mqtt.Config               `json:"notify"`
	HTTP    HTTPConfig                `json:"http"`
	Logging LoggingConfig             `json:"logging"`
	Sentry  monitoring.Config         `json:"sentry"`
}

// HTTPConfig configures the JSON API server.
type HTTPConfig struct {
	Addr string `json:"addr"`
}

// Load reads the configuration file at path and applies K_ prefixed
// environment overrides, e.g. K_PLANNER__DAILY_BUDGET_MINUTES=300. An empty
// path loads defaults and environment only.
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
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
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

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Planner.SetDefaults()
	if c.Store.Type == "" {
		c.Store.Type = "memory"
	}
	c.History.SetDefaults()
	c.Metrics.SetDefaults()
	c.Notify.SetDefaults()
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	c.Logging.SetDefaults()
}

// Validate checks every section and reports all failures at once.
func (c Config) Validate() error {
	var errs []error
	if err := c.Planner.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("planner: %w", err))
	}
	if c.Planner.IDStrategy == "counter" && c.Store.Type != "memory" {
		errs = append(errs, fmt.Errorf("planner: %w, got %q", ErrCounterIDs, c.Store.Type))
	}
	if err := c.History.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("history: %w", err))
	}
	if err := c.Notify.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	return errors.Join(errs...)
}
