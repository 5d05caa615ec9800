package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of *pgxpool.Pool the Postgres repositories use.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// execBatch runs the queued statements in one transaction.
func execBatch(ctx context.Context, pool PgxPool, op string, batch *pgx.Batch) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return classifyPostgres(op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return classifyPostgres(op, err)
		}
	}
	if err := br.Close(); err != nil {
		return classifyPostgres(op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return classifyPostgres(op, err)
	}
	return nil
}
