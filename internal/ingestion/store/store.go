// Package store persists crawled pages in PostgreSQL and streams them
// back out in insertion order for index builds.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AKNosov/InfSearch/internal/ingestion"
	"github.com/AKNosov/InfSearch/pkg/postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS pages (
    id         BIGSERIAL PRIMARY KEY,
    url        TEXT NOT NULL UNIQUE,
    source     TEXT NOT NULL DEFAULT '',
    title      TEXT NOT NULL DEFAULT '',
    text       TEXT NOT NULL,
    fetched_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS pages_source_fetched_idx ON pages (source, fetched_at DESC);
`

// Store reads and writes the pages table.
type Store struct {
	client *postgres.Client
	logger *slog.Logger
}

// New wraps a Postgres client.
func New(client *postgres.Client) *Store {
	return &Store{
		client: client,
		logger: slog.Default().With("component", "page-store"),
	}
}

// EnsureSchema creates the pages table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.client.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating pages schema: %w", err)
	}
	return nil
}

// Upsert inserts a page, replacing the text and fetch time when the url
// already exists (re-crawl of a known page).
func (s *Store) Upsert(ctx context.Context, p ingestion.Page) error {
	const q = `
INSERT INTO pages (url, source, title, text, fetched_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (url) DO UPDATE
SET source = EXCLUDED.source,
    title = EXCLUDED.title,
    text = EXCLUDED.text,
    fetched_at = EXCLUDED.fetched_at`
	fetched := p.FetchedAt
	if fetched.IsZero() {
		fetched = time.Now().UTC()
	}
	if _, err := s.client.DB.ExecContext(ctx, q, p.URL, p.Source, p.Title, p.Text, fetched); err != nil {
		return fmt.Errorf("upserting page %s: %w", p.URL, err)
	}
	return nil
}

// Count returns the number of stored pages.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.client.DB.QueryRowContext(ctx, `SELECT count(*) FROM pages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting pages: %w", err)
	}
	return n, nil
}

// ForEachPage streams pages with non-empty text in insertion order,
// handing fn dense document ids starting at 0. A limit of 0 streams
// everything.
func (s *Store) ForEachPage(ctx context.Context, limit int, fn func(id int, url, text string) error) (int, error) {
	q := `SELECT url, text FROM pages WHERE text <> '' ORDER BY id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.client.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	docID := 0
	for rows.Next() {
		var url, text string
		if err := rows.Scan(&url, &text); err != nil {
			return docID, fmt.Errorf("scanning page row: %w", err)
		}
		if err := fn(docID, url, text); err != nil {
			return docID, err
		}
		docID++
	}
	if err := rows.Err(); err != nil {
		return docID, fmt.Errorf("iterating pages: %w", err)
	}
	return docID, nil
}

// Ping probes the underlying database.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
