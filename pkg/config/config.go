package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Sampler  SamplerConfig  `yaml:"sampler"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig represents database configuration.
// Driver selects sqlite (file-backed, the default) or postgres.
type DatabaseConfig struct {
	Driver         string `yaml:"driver"`
	Path           string `yaml:"path"`
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"ssl_mode"`
	MaxConnections int    `yaml:"max_connections"`
	MinConnections int    `yaml:"min_connections"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SamplerConfig represents the background presence sampler configuration
type SamplerConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a configuration with default values
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:         "sqlite",
			Path:           "online_users.db",
			Host:           "localhost",
			Port:           5432,
			User:           "presight",
			Password:       "presight_dev",
			Database:       "presight_dev",
			SSLMode:        "disable",
			MaxConnections: 20,
			MinConnections: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Sampler: SamplerConfig{
			Enabled:  true,
			Interval: 20 * time.Second,
		},
	}
}

// getConfigPath returns the configuration file path
func getConfigPath() string {
	if path := os.Getenv("PRESIGHT_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}

// applyEnv overrides configuration with environment variables
func (c *Config) applyEnv() {
	if host := os.Getenv("PRESIGHT_SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("PRESIGHT_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if readTimeout := os.Getenv("PRESIGHT_SERVER_READ_TIMEOUT"); readTimeout != "" {
		if d, err := time.ParseDuration(readTimeout); err == nil {
			c.Server.ReadTimeout = d
		}
	}
	if writeTimeout := os.Getenv("PRESIGHT_SERVER_WRITE_TIMEOUT"); writeTimeout != "" {
		if d, err := time.ParseDuration(writeTimeout); err == nil {
			c.Server.WriteTimeout = d
		}
	}

	if driver := os.Getenv("PRESIGHT_DATABASE_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if path := os.Getenv("PRESIGHT_DATABASE_PATH"); path != "" {
		c.Database.Path = path
	}
	if host := os.Getenv("PRESIGHT_DATABASE_HOST"); host != "" {
		c.Database.Host = host
	}
	if port := os.Getenv("PRESIGHT_DATABASE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Database.Port = p
		}
	}
	if user := os.Getenv("PRESIGHT_DATABASE_USER"); user != "" {
		c.Database.User = user
	}
	if password := os.Getenv("PRESIGHT_DATABASE_PASSWORD"); password != "" {
		c.Database.Password = password
	}
	if database := os.Getenv("PRESIGHT_DATABASE_DATABASE"); database != "" {
		c.Database.Database = database
	}
	if sslMode := os.Getenv("PRESIGHT_DATABASE_SSL_MODE"); sslMode != "" {
		c.Database.SSLMode = sslMode
	}
	if maxConns := os.Getenv("PRESIGHT_DATABASE_MAX_CONNECTIONS"); maxConns != "" {
		if m, err := strconv.Atoi(maxConns); err == nil {
			c.Database.MaxConnections = m
		}
	}
	if minConns := os.Getenv("PRESIGHT_DATABASE_MIN_CONNECTIONS"); minConns != "" {
		if m, err := strconv.Atoi(minConns); err == nil {
			c.Database.MinConnections = m
		}
	}

	if level := os.Getenv("PRESIGHT_LOGGING_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("PRESIGHT_LOGGING_FORMAT"); format != "" {
		c.Logging.Format = format
	}

	if enabled := os.Getenv("PRESIGHT_SAMPLER_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			c.Sampler.Enabled = b
		}
	}
	if interval := os.Getenv("PRESIGHT_SAMPLER_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			c.Sampler.Interval = d
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for the sqlite driver")
		}
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database port: %d", c.Database.Port)
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("max connections must be at least 1")
	}

	if c.Database.MinConnections < 0 {
		return fmt.Errorf("min connections cannot be negative")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("min connections cannot be greater than max connections")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}

	if c.Sampler.Interval <= 0 {
		return fmt.Errorf("sampler interval must be positive")
	}

	return nil
}

// GetDatabaseURL returns the PostgreSQL connection string
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Server: %s:%d, Database: %s, Logging: %s/%s, Sampler: %s}",
		c.Server.Host, c.Server.Port,
		c.Database.Driver,
		c.Logging.Level, c.Logging.Format,
		c.Sampler.Interval,
	)
}
