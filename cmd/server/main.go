package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/api"
	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/config"
	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/database"
	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/engine"
	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/reference"
	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/reports"
	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/pkg/explain"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		logrus.Fatalf("Configuration validation failed: %v", err)
	}
	cfg := configManager.GetConfig()

	logger := newLogger(cfg.Logging)

	// Reference table validation is fail-fast: a server with broken
	// tables must not start.
	tables, err := reference.Load()
	if err != nil {
		logger.Fatalf("Failed to load reference tables: %v", err)
	}

	eng := engine.New(tables, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize report storage: %v", err)
	}
	if store != nil {
		defer store.Close()
	}

	explainer, err := newExplainer(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize explanation generator: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"host":    cfg.Server.Host,
		"port":    cfg.Server.Port,
		"storage": cfg.Storage.Backend,
		"explain": cfg.Explain.Mode,
	}).Info("Starting pharmacogenomic risk server")

	server := api.NewServer(cfg, tables, eng, store, explainer, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}
	logger.Info("Server stopped")
}

func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// newStore builds the configured report store, running migrations first
// for the postgres backend. Returns nil when persistence is disabled.
func newStore(ctx context.Context, cfg *domain.Config, logger *logrus.Logger) (domain.ReportStore, error) {
	switch cfg.Storage.Backend {
	case "none":
		return nil, nil
	case "sqlite":
		return reports.NewSQLiteStore(cfg.Storage.SQLitePath)
	case "postgres":
		runner, err := database.NewMigrationRunner(cfg.Storage.PostgresURL, cfg.Storage.MigrationsPath, logger)
		if err != nil {
			return nil, err
		}
		if err := runner.Up(); err != nil {
			runner.Close()
			return nil, err
		}
		runner.Close()

		db, err := database.NewConnection(ctx, database.Config{
			URL:          cfg.Storage.PostgresURL,
			MaxOpenConns: cfg.Storage.MaxOpenConns,
			MaxIdleConns: cfg.Storage.MaxIdleConns,
		}, logger)
		if err != nil {
			return nil, err
		}
		return reports.NewPostgresStore(db.SQL), nil
	default:
		return nil, nil
	}
}

// newExplainer assembles the explanation chain: template or remote
// generator, wrapped in the in-process cache, plus a Redis tier when
// configured.
func newExplainer(cfg *domain.Config, logger *logrus.Logger) (domain.Explainer, error) {
	var inner domain.Explainer
	switch cfg.Explain.Mode {
	case "remote":
		inner = explain.NewRemoteExplainer(explain.RemoteConfig{
			BaseURL:    cfg.Explain.BaseURL,
			APIKey:     cfg.Explain.APIKey,
			Timeout:    cfg.Explain.Timeout,
			RateLimit:  cfg.Explain.RateLimit,
			RetryCount: cfg.Explain.RetryCount,
		}, logger)
	default:
		inner = explain.NewTemplateExplainer()
	}

	var redisClient *redis.Client
	if cfg.Explain.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.Explain.RedisURL)
		if err != nil {
			return nil, err
		}
		redisClient = redis.NewClient(opts)
	}

	return explain.NewCachedExplainer(inner, cfg.Explain.CacheSize, cfg.Explain.CacheTTL, redisClient, logger)
}
