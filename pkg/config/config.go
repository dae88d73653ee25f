// Package config holds the settings of an analysis run.
//
// A Config is an explicit value passed to the analysis engine. It is read
// from an optional YAML file and then overridden by command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
)

// DefaultSolver is the in-process SAT solver.
const DefaultSolver = "gini"

// Config is the configuration of one analysis run.
type Config struct {
	// Solver names the backend: "gini" or an entry of the solver registry.
	Solver string `yaml:"solver"`

	// Debug is the verbosity: 0 silent, 1 info, 2 and above debug.
	Debug int `yaml:"debug"`

	// Bound, when positive, is used as path length instead of the bound
	// computed from the causality graph.
	Bound int `yaml:"bound"`

	// SolversFile is the external solver registry (YAML or JSON).
	SolversFile string `yaml:"solvers_file"`

	// WorkDir holds the CNF and result files of external solvers.
	// Empty means a fresh temporary directory per solve.
	WorkDir string `yaml:"work_dir"`

	// MetricsFile, when set, receives the run metrics in the Prometheus
	// text format.
	MetricsFile string `yaml:"metrics_file"`

	Cache Cache `yaml:"cache"`
}

// Cache configures the verdict cache.
type Cache struct {
	Backend  string        `yaml:"backend"`
	Path     string        `yaml:"path"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// Enabled reports whether a cache backend is configured.
func (c Cache) Enabled() bool {
	return c.Backend != "" && c.Backend != CacheNone
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Solver: DefaultSolver,
		Cache:  Cache{Backend: CacheNone},
	}
}

// Load reads a YAML configuration over the defaults.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (c Config) Validate() error {
	var errs []error
	if c.Solver == "" {
		errs = append(errs, errors.New("solver cannot be empty"))
	}
	if c.Debug < 0 {
		errs = append(errs, fmt.Errorf("debug level %d is negative", c.Debug))
	}
	if c.Bound < 0 {
		errs = append(errs, fmt.Errorf("bound %d is negative", c.Bound))
	}
	switch c.Cache.Backend {
	case "", CacheNone, CacheMemory, CacheFile, CacheSQLite:
	case CacheRedis:
		if c.Cache.Addr == "" {
			errs = append(errs, errors.New("redis cache requires an address"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.Cache.Backend))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, errors.New("cache ttl cannot be negative"))
	}
	return errors.Join(errs...)
}
