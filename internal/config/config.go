// Package config provides the Config struct and loader for modelbench.yaml
// configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/modelbench/modelbench/internal/metering"
	"github.com/modelbench/modelbench/internal/providers"
)

// ConfigFileName is the file the loader walks up from the working directory
// to find.
const ConfigFileName = "modelbench.yaml"

// Default values for configuration. These are the single source of truth;
// New() references them and no other code should duplicate them.
const (
	DefaultServerPort = 8080
	// DefaultRateLimitPerMinute caps POST /api/compare per client address.
	DefaultRateLimitPerMinute = 5

	DefaultCallTimeoutSeconds = 30
	DefaultMaxConcurrentCalls = 8
	// DefaultAnalysisWorkers of zero means size the pool to GOMAXPROCS.
	DefaultAnalysisWorkers = 0
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port,omitempty"`
	// RateLimitPerMinute limits comparison requests per client per minute.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute,omitempty"`
}

// RuntimeConfig holds the concurrency and deadline knobs.
type RuntimeConfig struct {
	CallTimeoutSeconds int `yaml:"call_timeout_seconds,omitempty"`
	MaxConcurrentCalls int `yaml:"max_concurrent_calls,omitempty"`
	AnalysisWorkers    int `yaml:"analysis_workers,omitempty"`
}

// Config is the top-level configuration loaded from modelbench.yaml.
// Providers maps model identifiers to kind-specific parameters; everything
// except "kind" is decoded by the provider factory. Rates maps model
// identifiers to USD per one million tokens.
type Config struct {
	Server    ServerConfig              `yaml:"server,omitempty"`
	Runtime   RuntimeConfig             `yaml:"runtime,omitempty"`
	Providers map[string]map[string]any `yaml:"providers,omitempty"`
	Rates     map[string]float64        `yaml:"rates,omitempty"`
}

// New returns a Config with all hard-coded defaults populated and an empty
// provider set.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               DefaultServerPort,
			RateLimitPerMinute: DefaultRateLimitPerMinute,
		},
		Runtime: RuntimeConfig{
			CallTimeoutSeconds: DefaultCallTimeoutSeconds,
			MaxConcurrentCalls: DefaultMaxConcurrentCalls,
			AnalysisWorkers:    DefaultAnalysisWorkers,
		},
		Providers: map[string]map[string]any{},
		Rates:     map[string]float64{},
	}
}

// Load reads the configuration at path, validates it against the embedded
// schema, and fills in missing fields with defaults. An empty path walks up
// from the working directory looking for modelbench.yaml; not finding one
// returns defaults with a nil error. Real I/O errors are returned.
func Load(path string) (*Config, error) {
	cfg := New()

	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
	} else {
		data, err = findConfigFile(".")
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return cfg, nil
			}
			return nil, fmt.Errorf("loading %s: %w", ConfigFileName, err)
		}
	}

	if errs := ValidateBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", errs[0])
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFileName, err)
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for modelbench.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found; propagates
// real I/O errors instead of swallowing them.
func findConfigFile(dir string) ([]byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ConfigFileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *Config) {
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if src.Server.RateLimitPerMinute != 0 {
		dst.Server.RateLimitPerMinute = src.Server.RateLimitPerMinute
	}
	if src.Runtime.CallTimeoutSeconds != 0 {
		dst.Runtime.CallTimeoutSeconds = src.Runtime.CallTimeoutSeconds
	}
	if src.Runtime.MaxConcurrentCalls != 0 {
		dst.Runtime.MaxConcurrentCalls = src.Runtime.MaxConcurrentCalls
	}
	if src.Runtime.AnalysisWorkers != 0 {
		dst.Runtime.AnalysisWorkers = src.Runtime.AnalysisWorkers
	}
	if len(src.Providers) > 0 {
		dst.Providers = src.Providers
	}
	if len(src.Rates) > 0 {
		dst.Rates = src.Rates
	}
}

// BuildRegistry constructs the provider registry from the configured
// providers. The "kind" key selects the wire format; the remaining keys are
// decoded by the provider factory.
func (c *Config) BuildRegistry() (*providers.Registry, error) {
	reg := providers.NewRegistry()
	for id, params := range c.Providers {
		kind, _ := params["kind"].(string)
		if kind == "" {
			return nil, fmt.Errorf("provider %q: kind is required", id)
		}
		inv, err := providers.Create(providers.Kind(kind), id, params)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(id, inv); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// BuildRateTable constructs the immutable rate table from configured rates.
func (c *Config) BuildRateTable() *metering.RateTable {
	return metering.NewRateTable(c.Rates)
}
