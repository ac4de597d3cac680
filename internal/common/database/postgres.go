// internal/common/database/postgres.go
package database

import (
	"context"
	"fmt"
	"time"

	"stylist-workers/internal/common/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQLClient wraps the profile database connection.
type SQLClient struct {
	DB     *sqlx.DB
	Driver string
}

// NewSQL opens the profile database selected by cfg.Driver.
func NewSQL(cfg config.DatabaseConfig) (*SQLClient, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLite(cfg.SQLite)
	default:
		return NewPostgres(cfg.Postgres)
	}
}

// NewPostgres creates a new PostgreSQL client
func NewPostgres(cfg config.PostgresConfig) (*SQLClient, error) {
	db, err := sqlx.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &SQLClient{DB: db, Driver: "postgres"}, nil
}

// NewSQLite opens an embedded database. SQLite serialises writers, so the pool holds one connection.
func NewSQLite(cfg config.SQLiteConfig) (*SQLClient, error) {
	db, err := sqlx.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return &SQLClient{DB: db, Driver: "sqlite"}, nil
}

// Ping tests the database connection
func (c *SQLClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Migrate applies the embedded profile schema migrations.
func (c *SQLClient) Migrate() error {
	return ApplyMigrations(c.DB.DB, c.Driver)
}

// Close closes the database connection
func (c *SQLClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
