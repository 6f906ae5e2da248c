package scheduler

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/studyplan/core/model"
)

// DefaultDailyBudgetMinutes applies when no budget is configured.
const DefaultDailyBudgetMinutes = 480

// SchedulerConfig defines planning parameters loaded from configuration.
type SchedulerConfig struct {
	DailyBudgetMinutes int    `json:"daily_budget_minutes" yaml:"daily_budget_minutes"`
	IDStrategy         string `json:"id_strategy" yaml:"id_strategy"` // hash or counter
}

// SetDefaults fills unset fields.
func (c *SchedulerConfig) SetDefaults() {
	if c.DailyBudgetMinutes == 0 {
		c.DailyBudgetMinutes = DefaultDailyBudgetMinutes
	}
	if c.IDStrategy == "" {
		c.IDStrategy = "hash"
	}
}

// Validate checks the budget range and the id strategy.
func (c SchedulerConfig) Validate() error {
	if err := model.ValidateBudget(c.DailyBudgetMinutes); err != nil {
		return err
	}
	if _, err := NewIDGenerator(c.IDStrategy); err != nil {
		return err
	}
	return nil
}

// IDGenerator returns the generator selected by IDStrategy. Counter
// identities restart with every generator and suit one-off runs only.
func (c SchedulerConfig) IDGenerator() (IDGenerator, error) {
	return NewIDGenerator(c.IDStrategy)
}

// LoadConfig loads SchedulerConfig from a JSON or YAML file.
func LoadConfig(path string) (SchedulerConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return SchedulerConfig{}, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var cfg SchedulerConfig
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	default:
		return SchedulerConfig{}, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err != nil {
		return cfg, err
	}
	cfg.SetDefaults()
	return cfg, cfg.Validate()
}

// DecodeConfig reads from r to decode a SchedulerConfig.
func DecodeConfig(r io.Reader, format string) (SchedulerConfig, error) {
	var cfg SchedulerConfig
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported format: %s", format)
	}
	cfg.SetDefaults()
	return cfg, cfg.Validate()
}
