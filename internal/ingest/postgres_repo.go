package ingest

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) EnsureAuthor(ctx context.Context, firstName, lastName string) (int64, error) {
	const query = `
		WITH found AS (
			SELECT id FROM authors WHERE first_name = $1 AND last_name = $2 ORDER BY id LIMIT 1
		), created AS (
			INSERT INTO authors (first_name, last_name)
			SELECT $1, $2 WHERE NOT EXISTS (SELECT 1 FROM found)
			RETURNING id
		)
		SELECT id FROM found UNION ALL SELECT id FROM created`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var id int64
	err := r.db.QueryRow(timeoutCtx, query, firstName, lastName).Scan(&id)
	return id, err
}

// EnsureGenres returns ids in the order of names, matching existing genres
// case-insensitively.
func (r *PostgresRepo) EnsureGenres(ctx context.Context, names []string) ([]int64, error) {
	const upsert = `
		WITH created AS (
			INSERT INTO genres (name) VALUES ($1)
			ON CONFLICT ((LOWER(name))) DO NOTHING
			RETURNING id
		)
		SELECT id FROM created
		UNION ALL
		SELECT id FROM genres WHERE LOWER(name) = LOWER($1)
		LIMIT 1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	batch := &pgx.Batch{}
	for _, name := range names {
		batch.Queue(upsert, name)
	}
	results := r.db.SendBatch(timeoutCtx, batch)
	defer results.Close()

	ids := make([]int64, len(names))
	for i := range names {
		if err := results.QueryRow().Scan(&ids[i]); err != nil {
			return nil, err
		}
	}
	return ids, nil
}
