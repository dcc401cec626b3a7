// Package config provides tessellation settings from a YAML file,
// defaults and command-line overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/chazu/tessellation/pkg/implicit"
	"github.com/chazu/tessellation/pkg/mdc"
)

// Kernel names.
const (
	KernelMDC           = "mdc"
	KernelMarchingCubes = "marching-cubes"
)

// Config represents the tessellation settings. Workers bounds both the
// parts meshed at once and the grid shards within each part.
type Config struct {
	CellSize       float64       `yaml:"cell_size"`
	Sharpness      float64       `yaml:"sharpness"`
	BisectionSteps int           `yaml:"bisection_steps"`
	NormalEpsilon  float64       `yaml:"normal_epsilon"`
	MaxCells       int           `yaml:"max_cells"`
	Workers        int           `yaml:"workers"`
	Kernel         string        `yaml:"kernel"`
	LogLevel       string        `yaml:"log_level"`
	EvalTimeout    time.Duration `yaml:"eval_timeout"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		CellSize:       0.1,
		Sharpness:      0.1,
		BisectionSteps: mdc.DefaultBisectionSteps,
		NormalEpsilon:  implicit.DefaultNormalEpsilon,
		MaxCells:       mdc.DefaultMaxCells,
		Workers:        1,
		Kernel:         KernelMDC,
		LogLevel:       "info",
		EvalTimeout:    5 * time.Second,
	}
}

// Load reads a YAML file over the defaults and validates the result.
// Keys absent from the file keep their default values.
func Load(path string) (Config, error) {
	conf := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return conf, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return conf, fmt.Errorf("config: %s: %w", path, err)
	}
	conf.normalize()
	if err := conf.Validate(); err != nil {
		return conf, fmt.Errorf("config: %s: %w", path, err)
	}
	return conf, nil
}

func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Kernel = strings.ToLower(strings.TrimSpace(c.Kernel))
}

// MDCOptions converts the settings into engine options logging to log.
// A nil log selects a new logger from c.
func (c Config) MDCOptions(log logrus.FieldLogger) mdc.Options {
	if log == nil {
		log = c.Logger()
	}
	return mdc.Options{
		CellSize:       c.CellSize,
		Sharpness:      c.Sharpness,
		BisectionSteps: c.BisectionSteps,
		Workers:        c.Workers,
		MaxCells:       c.MaxCells,
		Logger:         log,
	}
}
