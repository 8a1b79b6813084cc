package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunSchema creates the tables if they don't exist.
func RunSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			color TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.PDFs + ` (
			id BIGSERIAL PRIMARY KEY,
			filename TEXT NOT NULL,
			stored_name TEXT NOT NULL UNIQUE,
			folder_id BIGINT REFERENCES ` + tables.Folders + `(id) ON DELETE SET NULL,
			tags TEXT[] NOT NULL DEFAULT '{}',
			size BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS ` + tables.PDFs + `_folder_id_idx
			ON ` + tables.PDFs + ` (folder_id)`,
		`CREATE INDEX IF NOT EXISTS ` + tables.PDFs + `_tags_idx
			ON ` + tables.PDFs + ` USING GIN (tags)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Tags + ` (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("run schema: %w", err)
		}
	}

	return nil
}

// DropTables removes all application tables. Destructive; the seed
// command refuses to call this in production.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, table := range []string{tables.PDFs, tables.Tags, tables.Folders} {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}
	return nil
}
