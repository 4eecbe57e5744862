// Package config loads application configuration from a yaml file,
// environment variables and built-in defaults, in that order of
// precedence, using Viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
)

// Manager loads and validates the application configuration.
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

func (m *Manager) loadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/pgx-risk/")

	viper.SetEnvPrefix("PGX_RISK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	// Config file is optional; defaults and env vars suffice.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.rate_limit_rps", 10.0)
	viper.SetDefault("server.rate_limit_burst", 20)

	// Matches the upload cap the original service enforced.
	viper.SetDefault("analysis.max_upload_bytes", 5_000_000)

	viper.SetDefault("storage.backend", "sqlite")
	viper.SetDefault("storage.sqlite_path", "data/reports.db")
	viper.SetDefault("storage.postgres_url", "")
	viper.SetDefault("storage.migrations_path", "migrations")
	viper.SetDefault("storage.max_open_conns", 25)
	viper.SetDefault("storage.max_idle_conns", 5)

	viper.SetDefault("explain.mode", "template")
	viper.SetDefault("explain.base_url", "")
	viper.SetDefault("explain.timeout", "12s")
	viper.SetDefault("explain.rate_limit", 5.0)
	viper.SetDefault("explain.cache_size", 256)
	viper.SetDefault("explain.cache_ttl", "24h")
	viper.SetDefault("explain.redis_url", "")
	viper.SetDefault("explain.retry_count", 2)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// GetConfig returns the complete configuration.
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration.
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetStorageConfig returns storage configuration.
func (m *Manager) GetStorageConfig() *domain.StorageConfig {
	return &m.config.Storage
}

// GetExplainConfig returns explanation generator configuration.
func (m *Manager) GetExplainConfig() *domain.ExplainConfig {
	return &m.config.Explain
}

// Validate validates the configuration.
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Analysis.MaxUploadBytes <= 0 {
		return fmt.Errorf("analysis max_upload_bytes must be positive")
	}

	switch config.Storage.Backend {
	case "sqlite":
		if config.Storage.SQLitePath == "" {
			return fmt.Errorf("storage sqlite_path is required for the sqlite backend")
		}
	case "postgres":
		if config.Storage.PostgresURL == "" {
			return fmt.Errorf("storage postgres_url is required for the postgres backend")
		}
	case "none":
	default:
		return fmt.Errorf("invalid storage backend: %s", config.Storage.Backend)
	}

	switch config.Explain.Mode {
	case "template":
	case "remote":
		if config.Explain.BaseURL == "" {
			return fmt.Errorf("explain base_url is required for remote mode")
		}
	default:
		return fmt.Errorf("invalid explain mode: %s", config.Explain.Mode)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}
