package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Store     StoreConfig     `yaml:"store"`
	Rates     RatesConfig     `yaml:"rates"`
	Billing   BillingConfig   `yaml:"billing"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// RedisConfig contains the equipment status cache settings
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// StoreConfig selects the backing stores: "postgres"/"memory" for moves,
// "redis"/"memory" for the equipment status cache
type StoreConfig struct {
	Moves     string `yaml:"moves"`
	Equipment string `yaml:"equipment"`
}

// RatesConfig points at the rate table file
type RatesConfig struct {
	File string `yaml:"file"`
}

// BillingConfig contains customer billing policy
type BillingConfig struct {
	MarkupBps int32 `yaml:"markup_bps"` // 2000 = 20%
}

// SchedulerConfig contains cron expressions (with seconds field)
type SchedulerConfig struct {
	AccrualSnapshot string `yaml:"accrual_snapshot"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Redis
	if val := os.Getenv("REDIS_HOST"); val != "" {
		c.Redis.Host = val
	}
	if val := os.Getenv("REDIS_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Redis.Port)
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Redis.Password = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Rates
	if val := os.Getenv("RATES_FILE"); val != "" {
		c.Rates.File = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Store defaults
	if c.Store.Moves == "" {
		c.Store.Moves = "postgres"
	}
	if c.Store.Equipment == "" {
		c.Store.Equipment = "redis"
	}
	if c.Store.Moves != "postgres" && c.Store.Moves != "memory" {
		return fmt.Errorf("unsupported move store type: %s", c.Store.Moves)
	}
	if c.Store.Equipment != "redis" && c.Store.Equipment != "memory" {
		return fmt.Errorf("unsupported equipment store type: %s", c.Store.Equipment)
	}

	// Database validation only matters when Postgres is in play
	if c.Store.Moves == "postgres" {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
	}

	if c.Store.Equipment == "redis" && c.Redis.Host == "" {
		return fmt.Errorf("redis host is required")
	}

	if c.Rates.File == "" {
		return fmt.Errorf("rates file is required")
	}

	// Billing defaults
	if c.Billing.MarkupBps == 0 {
		c.Billing.MarkupBps = 2000 // Default 20%
	}
	if c.Billing.MarkupBps < 0 {
		return fmt.Errorf("markup must not be negative: %d", c.Billing.MarkupBps)
	}

	// Scheduler defaults
	if c.Scheduler.AccrualSnapshot == "" {
		c.Scheduler.AccrualSnapshot = "0 0 2 * * *" // 2 AM UTC
	}

	return nil
}

// GetServerAddress returns the host:port the HTTP server listens on
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDatabaseConnectionString returns the PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Database, c.Database.SSLMode)
}
