package database

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// migrationLockKey serializes schema changes when several instances start together
const migrationLockKey = 0x697a616b

const (
	createMigrationsTableSQL = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			migration_name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)`
	listMigrationsSQL  = `SELECT migration_name FROM schema_migrations`
	recordMigrationSQL = `INSERT INTO schema_migrations (migration_name) VALUES ($1)`
)

// RunMigrations applies every .sql file of fsys not yet recorded in schema_migrations,
// in file name order. Each file and its record commit in one transaction.
func (db *DB) RunMigrations(ctx context.Context, fsys fs.FS) error {
	files, err := migrationFiles(fsys)
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}

	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockKey); err != nil {
		return fmt.Errorf("failed to take migration lock: %w", err)
	}
	defer func() {
		if _, err := conn.Exec(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1)", migrationLockKey); err != nil {
			db.logger.Error("migration_unlock_failed", "Failed to release migration lock", "startup", err, nil)
		}
	}()

	if _, err := conn.Exec(ctx, createMigrationsTableSQL); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := appliedMigrations(ctx, conn)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	pending := 0
	for _, file := range files {
		if applied[file] {
			continue
		}
		if err := applyMigration(ctx, conn, fsys, file); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", file, err)
		}
		pending++
		db.logger.Info("migration_applied", fmt.Sprintf("Applied migration: %s", file), "startup", nil)
	}

	db.logger.Debug("migrations_checked", "Schema is up to date", "startup", map[string]interface{}{
		"files":   len(files),
		"applied": pending,
	})
	return nil
}

// migrationFiles returns the .sql files at the root of fsys, sorted by name
func migrationFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && path.Ext(e.Name()) == ".sql" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func appliedMigrations(ctx context.Context, conn *pgxpool.Conn) (map[string]bool, error) {
	rows, err := conn.Query(ctx, listMigrationsSQL)
	if err != nil {
		return nil, err
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}

	applied := make(map[string]bool, len(names))
	for _, name := range names {
		applied[name] = true
	}
	return applied, nil
}

func applyMigration(ctx context.Context, conn *pgxpool.Conn, fsys fs.FS, file string) error {
	body, err := fs.ReadFile(fsys, file)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	return pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(body)); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
		if _, err := tx.Exec(ctx, recordMigrationSQL, file); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}
		return nil
	})
}
