package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id             UUID PRIMARY KEY,
		telegram_id    BIGINT NOT NULL UNIQUE,
		username       TEXT NOT NULL DEFAULT '',
		first_name     TEXT NOT NULL DEFAULT '',
		last_name      TEXT NOT NULL DEFAULT '',
		welcome_sent   BOOLEAN NOT NULL DEFAULT FALSE,
		registered_at  TIMESTAMPTZ NOT NULL,
		last_active_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_users_telegram_id ON users (telegram_id);`,
	`CREATE TABLE IF NOT EXISTS welcome_message (
		id         SMALLINT PRIMARY KEY,
		text       TEXT NOT NULL,
		media_ref  TEXT NOT NULL DEFAULT '',
		media_kind TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
}

// EnsureSchema creates the tables on startup when they do not exist yet.
// Statements are idempotent so repeated boots are safe.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
