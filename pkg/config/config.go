package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yasi-python/relistats/pkg/binomial"
)

type SolverCfg struct {
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`
}

type DefaultsCfg struct {
	Confidence float64 `yaml:"confidence"` // used when no -c is given
	Level      float64 `yaml:"level"`      // paired level for finite/plan/table statistics
}

type TableCfg struct {
	Workers int `yaml:"workers"`
}

type CacheCfg struct {
	Path string `yaml:"path"` // empty disables the table cache
}

type MetricsCfg struct {
	Textfile string `yaml:"textfile"` // empty disables export
}

type Config struct {
	LogLevel string      `yaml:"log_level"`
	Solver   SolverCfg   `yaml:"solver"`
	Defaults DefaultsCfg `yaml:"defaults"`
	Table    TableCfg    `yaml:"table"`
	Cache    CacheCfg    `yaml:"cache"`
	Metrics  MetricsCfg  `yaml:"metrics"`
}

func Default() *Config {
	s := binomial.DefaultSolver()
	return &Config{
		LogLevel: "info",
		Solver:   SolverCfg{Tolerance: s.Tolerance, MaxIterations: s.MaxIterations},
		Defaults: DefaultsCfg{Confidence: binomial.DefaultConfidence, Level: binomial.DefaultConfidence},
		Table:    TableCfg{Workers: 4},
	}
}

// Load reads a YAML config. Fields left out keep their Default values.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Solver.Tolerance == 0 {
		c.Solver.Tolerance = d.Solver.Tolerance
	}
	if c.Solver.MaxIterations == 0 {
		c.Solver.MaxIterations = d.Solver.MaxIterations
	}
	if c.Defaults.Confidence == 0 {
		c.Defaults.Confidence = d.Defaults.Confidence
	}
	if c.Defaults.Level == 0 {
		c.Defaults.Level = d.Defaults.Level
	}
	if c.Table.Workers <= 0 {
		c.Table.Workers = d.Table.Workers
	}
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q: want debug|info|warn|error", c.LogLevel)
	}
	if c.Solver.Tolerance <= 0 || c.Solver.Tolerance >= 1 {
		return fmt.Errorf("solver.tolerance %g: want 0 < tolerance < 1", c.Solver.Tolerance)
	}
	if c.Solver.MaxIterations <= 0 {
		return fmt.Errorf("solver.max_iterations %d: want > 0", c.Solver.MaxIterations)
	}
	if c.Defaults.Confidence < 0 || c.Defaults.Confidence > 1 {
		return fmt.Errorf("defaults.confidence %g: want [0, 1]", c.Defaults.Confidence)
	}
	if c.Defaults.Level < 0 || c.Defaults.Level > 1 {
		return fmt.Errorf("defaults.level %g: want [0, 1]", c.Defaults.Level)
	}
	return nil
}

func (c *Config) BinomialSolver() binomial.Solver {
	return binomial.Solver{Tolerance: c.Solver.Tolerance, MaxIterations: c.Solver.MaxIterations}
}
