package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Connect opens a pgx backed *sql.DB and verifies it with a ping.
func Connect(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not ping database: %w", err)
	}
	return db, nil
}

// InitSchema creates the chat_messages, invoices and profiles tables if they are missing.
func InitSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS chat_messages (
			message_id TEXT PRIMARY KEY,
			user_id    UUID NOT NULL,
			role       TEXT NOT NULL,
			content    TEXT NOT NULL,
			file_name  TEXT,
			file_size  BIGINT,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_chat_messages_user ON chat_messages (user_id, created_at);

		CREATE TABLE IF NOT EXISTS invoices (
			id             UUID PRIMARY KEY,
			user_id        UUID NOT NULL,
			file_url       TEXT,
			file_name      TEXT NOT NULL,
			vendor         TEXT NOT NULL,
			date           TEXT NOT NULL,
			total          DOUBLE PRECISION NOT NULL DEFAULT 0,
			invoice_number TEXT NOT NULL,
			extracted_data JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_invoices_user ON invoices (user_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS profiles (
			id         UUID PRIMARY KEY,
			full_name  TEXT,
			avatar_url TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("could not create schema: %w", err)
	}
	return nil
}
