// Package database manages the PostgreSQL connection used for report
// persistence, plus its schema migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
)

// Config holds database connection settings.
type Config struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxConnLife  time.Duration
}

// DB wraps the sql.DB handle with logging.
type DB struct {
	SQL *sql.DB
	log *logrus.Logger
}

// NewConnection opens a connection pool via the pgx stdlib driver and
// verifies it with a ping.
func NewConnection(ctx context.Context, config Config, logger *logrus.Logger) (*DB, error) {
	db, err := sql.Open("pgx", config.URL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	if config.MaxConnLife > 0 {
		db.SetConnMaxLifetime(config.MaxConnLife)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"max_open_conns": config.MaxOpenConns,
		"max_idle_conns": config.MaxIdleConns,
	}).Info("Database connection pool established")

	return &DB{SQL: db, log: logger}, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	if db.SQL == nil {
		return nil
	}
	err := db.SQL.Close()
	db.log.Info("Database connection pool closed")
	return err
}

// Health checks the database connection health.
func (db *DB) Health(ctx context.Context) error {
	return db.SQL.PingContext(ctx)
}

// Stats returns connection pool statistics.
func (db *DB) Stats() sql.DBStats {
	return db.SQL.Stats()
}
