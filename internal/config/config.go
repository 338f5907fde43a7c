// Package config provides configuration management for the Stats Sync service.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	History   HistoryConfig   `mapstructure:"history" validate:"required"`
	Providers ProvidersConfig `mapstructure:"providers" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Betting   BettingConfig   `mapstructure:"betting"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// DatabaseConfig represents database connection configuration, used when
// the history backend is postgres.
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// HistoryConfig selects where historical prop results are read from
type HistoryConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=csv postgres"`
	CSVPath string `mapstructure:"csv_path"`
}

// ProvidersConfig represents the odds provider configuration
type ProvidersConfig struct {
	SportsDataIO ProviderConfig   `mapstructure:"sportsdataio"`
	OddsJam      ProviderConfig   `mapstructure:"oddsjam"`
	TheOddsAPI   ProviderConfig   `mapstructure:"theoddsapi"`
	HTTP         HTTPClientConfig `mapstructure:"http"`
}

// ProviderConfig represents a single provider's credentials and endpoint
type ProviderConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

// HTTPClientConfig represents shared HTTP client behavior for providers.
// MaxRetries defaults to 0: a failed fetch degrades instead of retrying.
type HTTPClientConfig struct {
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"omitempty,gt=0"`
}

// Timeout returns the configured client timeout with a 30s default
func (c HTTPClientConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheConfig represents the parlay cache configuration
type CacheConfig struct {
	Backend    string      `mapstructure:"backend" validate:"required,oneof=memory redis"`
	TTLSeconds int         `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	Redis      RedisConfig `mapstructure:"redis"`
}

// TTL returns the cache entry lifetime
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// RedisConfig represents Redis connection configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// SchedulerConfig represents the background refresh configuration
type SchedulerConfig struct {
	Enabled                bool `mapstructure:"enabled"`
	RefreshIntervalMinutes int  `mapstructure:"refresh_interval_minutes" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics exposure configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// BettingConfig represents stake assumptions used for payout math
type BettingConfig struct {
	StakeAmount float64 `mapstructure:"stake_amount" validate:"omitempty,gt=0"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
