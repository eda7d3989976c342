package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Backend    BackendConfig    `yaml:"backend"`
	Session    SessionConfig    `yaml:"session"`
	Redis      RedisConfig      `yaml:"redis"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Exports    ExportConfig     `yaml:"exports"`
	UI         UIConfig         `yaml:"ui"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

// BackendConfig describes the FixNear REST backend this client talks to.
type BackendConfig struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps"`
	RateLimitBurst int           `yaml:"rate_limit_burst"`
}

// SessionConfig controls where the session mirror lives and how often the
// token is revalidated against the backend.
type SessionConfig struct {
	Store              string        `yaml:"store"` // file, redis, memory
	FilePath           string        `yaml:"file_path"`
	Profile            string        `yaml:"profile"`
	ValidationInterval time.Duration `yaml:"validation_interval"`
}

type RedisConfig struct {
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"pool_size"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type UIConfig struct {
	CustomerFilter string `yaml:"customer_filter"`
	ProviderFilter string `yaml:"provider_filter"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; its values feed os.ExpandEnv below
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return errors.New("backend base_url is required")
	}
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("backend base_url must be http(s), got %q", c.Backend.BaseURL)
	}

	switch c.Session.Store {
	case "file", "memory":
	case "redis":
		if c.Redis.Address == "" {
			return errors.New("session store redis requires redis.address")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}

	if c.Logging.Output == "file" && c.Logging.FilePath == "" {
		return errors.New("logging.output=file requires logging.file_path")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "fixnear"
	}
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}

	if c.Backend.RequestTimeout == 0 {
		c.Backend.RequestTimeout = 10 * time.Second
	}
	if c.Backend.RateLimitRPS == 0 {
		c.Backend.RateLimitRPS = 10
	}
	if c.Backend.RateLimitBurst == 0 {
		c.Backend.RateLimitBurst = 5
	}

	if c.Session.Store == "" {
		c.Session.Store = "file"
	}
	if c.Session.FilePath == "" {
		c.Session.FilePath = "data/session.json"
	}
	if c.Session.Profile == "" {
		c.Session.Profile = "default"
	}
	if c.Session.ValidationInterval == 0 {
		c.Session.ValidationInterval = time.Minute
	}

	if c.Redis.CacheTTL == 0 {
		c.Redis.CacheTTL = 5 * time.Minute
	}

	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}

	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}

	if c.UI.CustomerFilter == "" {
		c.UI.CustomerFilter = "all"
	}
	if c.UI.ProviderFilter == "" {
		c.UI.ProviderFilter = "pending"
	}
}
