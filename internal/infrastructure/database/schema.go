package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is the bootstrap DDL, applied idempotently at startup. created_at
// and updated_at are owned here, not by the domain layer.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS authors (
		id UUID PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		date_of_birth DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id UUID PRIMARY KEY,
		title VARCHAR(400) NOT NULL,
		price BIGINT NOT NULL CHECK (price >= 0),
		publication_status VARCHAR(20) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS book_authors (
		book_id UUID NOT NULL REFERENCES books(id),
		author_id UUID NOT NULL REFERENCES authors(id),
		PRIMARY KEY (book_id, author_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_book_authors_author_id ON book_authors(author_id)`,
}

// EnsureSchema creates the tables when they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
