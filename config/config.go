// Package config loads the planner configuration from YAML with environment
// variable expansion and PAYOFF_* overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Cache     CacheConfig     `yaml:"cache"`
	Store     StoreConfig     `yaml:"store"`
	Limits    LimitsConfig    `yaml:"limits"`
	Log       LogConfig       `yaml:"log"`
	Explainer ExplainerConfig `yaml:"explainer"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// RateLimitConfig describes the per-client token bucket: Burst requests,
// refilled at Burst per Window.
type RateLimitConfig struct {
	Enabled bool          `yaml:"enabled"`
	Burst   int           `yaml:"burst"`
	Window  time.Duration `yaml:"window"`
}

type CacheConfig struct {
	// Driver is "memory", "redis" or "none".
	Driver        string        `yaml:"driver"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
}

type StoreConfig struct {
	// Driver is "memory", "sqlite" or "postgres".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type LimitsConfig struct {
	MaxDebts            int     `yaml:"max_debts"`
	MaxDebtAmount       float64 `yaml:"max_debt_amount"`
	MaxInterestRate     float64 `yaml:"max_interest_rate"`
	MaxBudgetCandidates int     `yaml:"max_budget_candidates"`
	Workers             int     `yaml:"workers"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ExplainerConfig struct {
	APIKey  string        `yaml:"api_key"`
	APIURL  string        `yaml:"api_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s' (value: %v): %s", e.Field, e.Value, e.Message)
}

// DefaultConfig returns a configuration that runs without external services.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Burst:   10,
			Window:  time.Minute,
		},
		Cache: CacheConfig{
			Driver:    "memory",
			RedisAddr: "localhost:6379",
			TTL:       10 * time.Minute,
		},
		Store: StoreConfig{
			Driver: "memory",
		},
		Limits: LimitsConfig{
			MaxDebts:            50,
			MaxDebtAmount:       100_000_000,
			MaxInterestRate:     1000,
			MaxBudgetCandidates: 120,
			Workers:             4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Explainer: ExplainerConfig{
			APIURL:  "https://api.openai.com/v1/chat/completions",
			Model:   "gpt-4o-mini",
			Timeout: 30 * time.Second,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path skips the
// file. Environment overrides are applied last, then the result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setString("PAYOFF_ADDR", &c.Server.Addr)
	setString("PAYOFF_CACHE_DRIVER", &c.Cache.Driver)
	setString("PAYOFF_REDIS_ADDR", &c.Cache.RedisAddr)
	setString("PAYOFF_REDIS_PASSWORD", &c.Cache.RedisPassword)
	setString("PAYOFF_STORE_DRIVER", &c.Store.Driver)
	setString("PAYOFF_STORE_DSN", &c.Store.DSN)
	setString("PAYOFF_LOG_LEVEL", &c.Log.Level)
	setString("PAYOFF_LOG_FORMAT", &c.Log.Format)
	setString("OPENAI_API_KEY", &c.Explainer.APIKey)

	if v := getenv("PAYOFF_RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ValidationError{Field: "PAYOFF_RATE_LIMIT_BURST", Value: v, Message: "must be an integer"}
		}
		c.RateLimit.Burst = n
	}
	return nil
}

// Validate checks every section and reports all failures at once.
func (c *Config) Validate() error {
	var errs []string
	for _, check := range []func() error{
		c.validateServer,
		c.validateRateLimit,
		c.validateCache,
		c.validateStore,
		c.validateLimits,
	} {
		if err := check(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Addr == "" {
		return ValidationError{Field: "server.addr", Message: "must not be empty"}
	}
	if c.Server.MaxBodyBytes <= 0 {
		return ValidationError{Field: "server.max_body_bytes", Value: c.Server.MaxBodyBytes, Message: "must be positive"}
	}
	return nil
}

func (c *Config) validateRateLimit() error {
	if !c.RateLimit.Enabled {
		return nil
	}
	if c.RateLimit.Burst <= 0 {
		return ValidationError{Field: "rate_limit.burst", Value: c.RateLimit.Burst, Message: "must be positive"}
	}
	if c.RateLimit.Window <= 0 {
		return ValidationError{Field: "rate_limit.window", Value: c.RateLimit.Window, Message: "must be positive"}
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Driver {
	case "none", "memory":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return ValidationError{Field: "cache.redis_addr", Message: "required for the redis driver"}
		}
	default:
		return ValidationError{Field: "cache.driver", Value: c.Cache.Driver, Message: "must be one of: none, memory, redis"}
	}
	if c.Cache.TTL < 0 {
		return ValidationError{Field: "cache.ttl", Value: c.Cache.TTL, Message: "must not be negative"}
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Driver {
	case "memory":
	case "sqlite", "postgres":
		if c.Store.DSN == "" {
			return ValidationError{Field: "store.dsn", Message: fmt.Sprintf("required for the %s driver", c.Store.Driver)}
		}
	default:
		return ValidationError{Field: "store.driver", Value: c.Store.Driver, Message: "must be one of: memory, sqlite, postgres"}
	}
	return nil
}

func (c *Config) validateLimits() error {
	l := c.Limits
	switch {
	case l.MaxDebts <= 0:
		return ValidationError{Field: "limits.max_debts", Value: l.MaxDebts, Message: "must be positive"}
	case l.MaxDebtAmount <= 0:
		return ValidationError{Field: "limits.max_debt_amount", Value: l.MaxDebtAmount, Message: "must be positive"}
	case l.MaxInterestRate <= 0:
		return ValidationError{Field: "limits.max_interest_rate", Value: l.MaxInterestRate, Message: "must be positive"}
	case l.MaxBudgetCandidates <= 0:
		return ValidationError{Field: "limits.max_budget_candidates", Value: l.MaxBudgetCandidates, Message: "must be positive"}
	case l.Workers <= 0:
		return ValidationError{Field: "limits.workers", Value: l.Workers, Message: "must be positive"}
	}
	return nil
}
