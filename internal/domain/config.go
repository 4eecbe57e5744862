package domain

import "time"

// Config is the main application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Explain  ExplainConfig  `mapstructure:"explain"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// AnalysisConfig bounds what the analyze endpoint accepts.
type AnalysisConfig struct {
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// StorageConfig selects the report persistence backend. Persistence is
// best-effort: "none" disables it entirely.
type StorageConfig struct {
	Backend        string `mapstructure:"backend"` // sqlite | postgres | none
	SQLitePath     string `mapstructure:"sqlite_path"`
	PostgresURL    string `mapstructure:"postgres_url"`
	MigrationsPath string `mapstructure:"migrations_path"`
	MaxOpenConns   int    `mapstructure:"max_open_conns"`
	MaxIdleConns   int    `mapstructure:"max_idle_conns"`
}

// ExplainConfig configures the explanation generator. Mode "template"
// renders deterministic text locally; "remote" calls an external
// text-generation service and falls back to the template on failure.
type ExplainConfig struct {
	Mode       string        `mapstructure:"mode"` // template | remote
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RateLimit  float64       `mapstructure:"rate_limit"`
	CacheSize  int           `mapstructure:"cache_size"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
	RedisURL   string        `mapstructure:"redis_url"` // optional second cache tier
	RetryCount int           `mapstructure:"retry_count"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
