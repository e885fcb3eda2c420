package db

import (
	"context"
	"time"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(150) NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS notes (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS notes_owner_id_id_idx ON notes (owner_id, id)`,
}

// EnsureSchema creates the users and notes tables when they are missing.
// Existing tables are left untouched.
func EnsureSchema(ctx context.Context, db Querier) error {
	start := time.Now()
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return HandleExecError(err, "ensure schema", start)
		}
	}
	MeasureQueryDuration("ensure schema", start)
	return nil
}
