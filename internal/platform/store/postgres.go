package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a Store backend persisting each collection as a JSONB row.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres prepares the collections table and returns the backend.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	const ddl = `
		CREATE TABLE IF NOT EXISTS collections (
			name       text PRIMARY KEY,
			doc        jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return nil, fmt.Errorf("%w: ensure schema: %v", ErrUnavailable, err)
	}
	return &Postgres{pool: pool}, nil
}

// Load implements Store.
func (p *Postgres) Load(ctx context.Context, collection string, dest any) (bool, error) {
	var raw []byte
	err := p.pool.QueryRow(ctx, `SELECT doc FROM collections WHERE name = $1`, collection).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, wrapPgError("load", collection, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("%w: decode %s: %v", ErrUnavailable, collection, err)
	}
	return true, nil
}

// Save implements Store.
func (p *Postgres) Save(ctx context.Context, collection string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrUnavailable, collection, err)
	}
	const upsert = `
		INSERT INTO collections (name, doc, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`
	if _, err := p.pool.Exec(ctx, upsert, collection, raw); err != nil {
		return wrapPgError("save", collection, err)
	}
	return nil
}

// Delete implements Store.
func (p *Postgres) Delete(ctx context.Context, collection string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM collections WHERE name = $1`, collection); err != nil {
		return wrapPgError("delete", collection, err)
	}
	return nil
}

// wrapPgError keeps the SQLSTATE visible in logs while presenting a uniform
// ErrUnavailable to callers.
func wrapPgError(op, collection string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%w: postgres %s %s: %s (%s)", ErrUnavailable, op, collection, pgErr.Message, pgErr.Code)
	}
	return fmt.Errorf("%w: postgres %s %s: %v", ErrUnavailable, op, collection, err)
}
