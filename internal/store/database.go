package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
)

// Database wraps the PostgreSQL connection pool holding scraped portal data
type Database struct {
	conn   *sql.DB
	dsn    string
	logger *zap.Logger
}

// NewDatabase opens and pings a PostgreSQL connection pool
func NewDatabase(dsn string, logger *zap.Logger) (*Database, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{
		conn:   db,
		dsn:    dsn,
		logger: logger,
	}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// DB returns the underlying *sql.DB for queries
func (db *Database) DB() *sql.DB {
	return db.conn
}

// migrationFiles are applied in order; each runs at most once
var migrationFiles = []string{
	"001_create_teams.sql",
	"002_create_players.sql",
	"003_create_transactions.sql",
}

// RunMigrations executes all migration files in order
func (db *Database) RunMigrations(ctx context.Context) error {
	db.logger.Info("Running database migrations")

	if err := db.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, migration := range migrationFiles {
		if err := db.runMigration(ctx, migration); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", migration, err)
		}
	}

	db.logger.Info("All migrations completed", zap.Int("count", len(migrationFiles)))
	return nil
}

func (db *Database) createMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := db.conn.ExecContext(ctx, query)
	return err
}

// runMigration runs a single migration file if it hasn't been applied yet
func (db *Database) runMigration(ctx context.Context, filename string) error {
	var exists bool
	err := db.conn.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", filename).Scan(&exists)
	if err != nil {
		return err
	}

	if exists {
		db.logger.Debug("Skipping migration (already applied)", zap.String("file", filename))
		return nil
	}

	content, err := readMigration(filename)
	if err != nil {
		return err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", filename); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	db.logger.Info("Applied migration", zap.String("file", filename))
	return nil
}

// readMigration looks in ./migrations, then next to the executable for container layouts
func readMigration(filename string) ([]byte, error) {
	content, err := os.ReadFile(filepath.Join("migrations", filename))
	if err == nil {
		return content, nil
	}

	exe, exeErr := os.Executable()
	if exeErr == nil {
		content, err = os.ReadFile(filepath.Join(filepath.Dir(exe), "migrations", filename))
		if err == nil {
			return content, nil
		}
	}

	return nil, fmt.Errorf("failed to read migration file: %w", err)
}

// HealthCheck performs a health check on the database
func (db *Database) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return db.conn.PingContext(ctx)
}
