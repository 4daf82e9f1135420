package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edaraujo/secretaria/internal/pkg/logger"
)

// Migrator manages database migrations
type Migrator struct {
	db *pgxpool.Pool
}

// NewMigrator creates a new migrator
func NewMigrator(db *pgxpool.Pool) *Migrator {
	return &Migrator{db: db}
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := m.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1);`
	if err := m.db.QueryRow(ctx, query, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// recordMigration marks a migration as applied
func (m *Migrator) recordMigration(ctx context.Context, version string) error {
	_, err := m.db.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`,
		version, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return nil
}

// MigrateFromFile executes SQL statements from a file inside one transaction.
func (m *Migrator) MigrateFromFile(ctx context.Context, filePath string) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	// Version is the filename prefix, e.g. "001_init.sql" => "001".
	filename := filepath.Base(filePath)
	version := strings.Split(filename, "_")[0]

	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		logger.Debug().Str("migration", filename).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("migration %s failed: %w", filename, err)
	}

	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`,
		version, time.Now()); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}

	logger.Info().Str("migration", filename).Msg("Migration applied")
	return nil
}

// MigrateFromDir applies every .sql file in dir in lexical order.
func (m *Migrator) MigrateFromDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		if err := m.MigrateFromFile(ctx, filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}
