package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGINT PRIMARY KEY,
		username   TEXT,
		first_name TEXT,
		last_name  TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_seen  TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS user_presets (
		user_id    BIGINT PRIMARY KEY,
		payload    JSONB NOT NULL DEFAULT '[]'::jsonb,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates missing tables.
func (s *Store) Migrate(ctx context.Context) error {
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.RollbackUnlessCommitted()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}

	s.logger.Info("database schema is up to date", zap.Int("statements", len(schema)))
	return nil
}
