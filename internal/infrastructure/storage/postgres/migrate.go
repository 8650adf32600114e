package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"slices"

	"autoparts/pkg/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every embedded migration not yet recorded in
// schema_migrations. Each file runs in its own transaction, in name order.
func Migrate(ctx context.Context, txManager *TxManager) error {
	q := txManager.GetQuerier(ctx)
	if _, err := q.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    VARCHAR(100) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	slices.Sort(names)

	for _, name := range names {
		err := txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			q := txManager.GetQuerier(ctx)

			// Serialises concurrent starts of several instances.
			if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext('schema_migrations'))"); err != nil {
				return fmt.Errorf("lock migrations: %w", err)
			}

			var applied bool
			if err := q.QueryRow(ctx,
				"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", name,
			).Scan(&applied); err != nil {
				return fmt.Errorf("check migration: %w", err)
			}
			if applied {
				return nil
			}

			body, err := migrations.ReadFile(name)
			if err != nil {
				return fmt.Errorf("read migration: %w", err)
			}
			if _, err := q.Exec(ctx, string(body)); err != nil {
				return fmt.Errorf("apply %s: %w", name, err)
			}
			if _, err := q.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", name); err != nil {
				return fmt.Errorf("record migration: %w", err)
			}
			logger.Info(ctx, "migration applied", "version", name)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
