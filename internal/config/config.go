package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/dataprovider/internal/domain/search/pagination"
)

// Config holds the search API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Search   SearchConfig   `yaml:"search"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. No keys disables auth.
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

// Supported search drivers.
const (
	DriverRedis = "redis"
	DriverBleve = "bleve"
)

// DatabaseConfig holds search backend connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, bleve (default: redis)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	BlevePath        string   `yaml:"bleve_path"`
}

// SearchConfig describes the index served by the API and how its documents
// become models.
type SearchConfig struct {
	Index           string                `yaml:"index"`
	Filter          string                `yaml:"filter"`     // base filter, combined with ?q=
	KeyPrefix       string                `yaml:"key_prefix"` // stripped from document keys
	ReturnFields    []string              `yaml:"return_fields"`
	DefaultPageSize int                   `yaml:"default_page_size"`
	MaxPageSize     int                   `yaml:"max_page_size"`
	KeyField        string                `yaml:"key_field"`    // explicit key field, overrides identity
	TypeField       string                `yaml:"type_field"`   // per-document type; empty means DefaultType
	DefaultType     string                `yaml:"default_type"` // used when TypeField is empty
	DefaultSort     string                `yaml:"default_sort"` // e.g. "-year,title"
	MultiSort       bool                  `yaml:"multi_sort"`
	Types           map[string]TypeConfig `yaml:"types"`
}

// TypeConfig describes one model type.
type TypeConfig struct {
	Attributes []string          `yaml:"attributes"`
	Labels     map[string]string `yaml:"labels"`
	Identity   []string          `yaml:"identity"`
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
	if c.Database.Driver == "" {
		c.Database.Driver = DriverRedis
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.Filter == "" {
		c.Search.Filter = "*"
	}
	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = pagination.DefaultPageSize
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = pagination.MaxPageSize
	}
	if c.Search.DefaultType == "" && c.Search.TypeField == "" && len(c.Search.Types) == 1 {
		for name := range c.Search.Types {
			c.Search.DefaultType = name
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", DriverRedis)
		}
	case DriverBleve:
		if c.Database.BlevePath == "" {
			return fmt.Errorf("database.bleve_path is required for driver %q", DriverBleve)
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverRedis, DriverBleve, c.Database.Driver)
	}
	return c.Search.validate()
}

func (s *SearchConfig) validate() error {
	if s.Index == "" {
		return fmt.Errorf("search.index is required")
	}
	if s.DefaultPageSize > s.MaxPageSize {
		return fmt.Errorf("search.default_page_size (%d) exceeds search.max_page_size (%d)",
			s.DefaultPageSize, s.MaxPageSize)
	}
	if len(s.Types) == 0 {
		return fmt.Errorf("search.types must declare at least one type")
	}
	if s.TypeField == "" {
		if s.DefaultType == "" {
			return fmt.Errorf("search.default_type is required without search.type_field")
		}
		if _, ok := s.Types[s.DefaultType]; !ok {
			return fmt.Errorf("search.default_type %q is not declared in search.types", s.DefaultType)
		}
	}
	for name, t := range s.Types {
		for _, id := range t.Identity {
			if id == "" {
				return fmt.Errorf("search.types.%s.identity contains an empty field", name)
			}
		}
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
