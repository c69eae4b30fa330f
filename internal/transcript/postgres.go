package transcript

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresArchive persists transcript entries in PostgreSQL.
type PostgresArchive struct {
	pool *pgxpool.Pool
}

func NewPostgresArchive(ctx context.Context, databaseURL string) (*PostgresArchive, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresArchive{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS transcript_entries (
		id TEXT PRIMARY KEY,
		turn_id TEXT NOT NULL,
		speaker TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`)
	if err != nil {
		return fmt.Errorf("init transcript schema: %w", err)
	}
	_, err = pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_transcript_entries_created
		ON transcript_entries (created_at);`)
	if err != nil {
		return fmt.Errorf("init transcript index: %w", err)
	}
	return nil
}

func (a *PostgresArchive) Record(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := a.pool.Exec(ctx,
		`INSERT INTO transcript_entries (id, turn_id, speaker, text, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.TurnID, entry.Speaker, entry.Text, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record transcript entry: %w", err)
	}
	return nil
}

func (a *PostgresArchive) Clear(ctx context.Context) error {
	if _, err := a.pool.Exec(ctx, `DELETE FROM transcript_entries`); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	return nil
}

func (a *PostgresArchive) Close() error {
	a.pool.Close()
	return nil
}
