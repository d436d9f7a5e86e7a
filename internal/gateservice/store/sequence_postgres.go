package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSequenceStore allocates queue sequence numbers from the
// daily_sequences table. The upsert increments atomically, so concurrent
// allocations for the same day are serialized by the database and never
// return the same value.
type PostgresSequenceStore struct {
	pool *pgxpool.Pool
}

func NewPostgresSequenceStore(pool *pgxpool.Pool) *PostgresSequenceStore {
	return &PostgresSequenceStore{pool: pool}
}

func (s *PostgresSequenceStore) Next(ctx context.Context, day time.Time) (int, error) {
	var seq int
	err := s.pool.QueryRow(ctx, `
        INSERT INTO daily_sequences (day, last_seq)
        VALUES ($1::date, 1)
        ON CONFLICT (day) DO UPDATE SET last_seq = daily_sequences.last_seq + 1
        RETURNING last_seq
    `, day.Format("2006-01-02")).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
