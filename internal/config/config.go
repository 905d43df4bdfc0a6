package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the windrose API configuration.
type Config struct {
	HTTP    HTTPConfig              `yaml:"http"`
	Auth    AuthConfig              `yaml:"auth"`
	Logging LoggingConfig           `yaml:"logging"`
	Search  SearchConfig            `yaml:"search"`
	Breaker BreakerConfig           `yaml:"breaker"`
	Engines map[string]EngineConfig `yaml:"engines"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SearchConfig holds orchestrator settings.
type SearchConfig struct {
	TimeoutMS int         `yaml:"timeout_ms"`
	Cache     CacheConfig `yaml:"cache"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTLSec  int  `yaml:"ttl_sec"`
}

// BreakerConfig holds circuit breaker settings.
type BreakerConfig struct {
	Driver    string   `yaml:"driver"` // memory, redis (default: memory)
	Threshold int      `yaml:"threshold"`
	WindowSec int      `yaml:"window_sec"`
	Addrs     []string `yaml:"addrs"` // redis driver only
	Password  string   `yaml:"password"`
}

// EngineConfig holds per-engine settings. The map key is the engine id.
type EngineConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Priority     int      `yaml:"priority"`
	FallbackOnly bool     `yaml:"fallback_only"`
	TimeoutMS    int      `yaml:"timeout_ms"`
	MaxResults   int      `yaml:"max_results"`
	APIKey       string   `yaml:"api_key"`
	BaseURL      string   `yaml:"base_url"`
	Mirrors      []string `yaml:"mirrors"` // searxng instance pool
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Search.TimeoutMS <= 0 {
		c.Search.TimeoutMS = 3500
	}
	if c.Search.Cache.Size <= 0 {
		c.Search.Cache.Size = 256
	}
	if c.Search.Cache.TTLSec <= 0 {
		c.Search.Cache.TTLSec = 300
	}
	if c.Breaker.Driver == "" {
		c.Breaker.Driver = "memory"
	}
	if c.Breaker.Threshold <= 0 {
		c.Breaker.Threshold = 3
	}
	if c.Breaker.WindowSec <= 0 {
		c.Breaker.WindowSec = 300
	}
	for id, e := range c.Engines {
		if e.TimeoutMS <= 0 {
			e.TimeoutMS = 3000
		}
		if e.MaxResults <= 0 {
			e.MaxResults = 30
		}
		c.Engines[id] = e
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Breaker.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("breaker.driver must be \"memory\" or \"redis\", got %q", c.Breaker.Driver)
	}
	if c.Breaker.Driver == "redis" && len(c.Breaker.Addrs) == 0 {
		return fmt.Errorf("breaker.addrs is required for the redis driver")
	}
	enabled := 0
	for id, e := range c.Engines {
		if id == "" {
			return fmt.Errorf("engines map contains an empty id")
		}
		if e.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one engine must be enabled")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
