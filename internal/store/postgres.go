package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

// Postgres implements Gateway over a single JSONB records table. Paths map to
// primary keys; Merge uses the jsonb concatenation operator for shallow field
// merges; Update runs inside a transaction with a row lock, satisfying the
// Transactor capability.
type Postgres struct {
	pool *pgxpool.Pool
	feed *RedisFeed
}

// NewPostgres wraps a pgx pool. feed may be nil; when present, every mutation
// is published to it best-effort after the write commits.
func NewPostgres(pool *pgxpool.Pool, feed *RedisFeed) *Postgres {
	return &Postgres{pool: pool, feed: feed}
}

func (p *Postgres) Read(ctx context.Context, path string, out any) error {
	const query = `SELECT value FROM records WHERE path=$1`
	var raw []byte
	if err := p.pool.QueryRow(ctx, query, path).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return apperrors.NewPersistenceError(err)
	}
	return json.Unmarshal(raw, out)
}

func (p *Postgres) Write(ctx context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO records (path, value) VALUES ($1, $2)
        ON CONFLICT (path) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`
	if _, err := p.pool.Exec(ctx, query, path, raw); err != nil {
		return apperrors.NewPersistenceError(err)
	}
	p.publish(ctx, Change{Path: path, Op: OpWrite})
	return nil
}

func (p *Postgres) Merge(ctx context.Context, path string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO records (path, value) VALUES ($1, $2)
        ON CONFLICT (path) DO UPDATE SET value=records.value || EXCLUDED.value, updated_at=NOW()`
	if _, err := p.pool.Exec(ctx, query, path, raw); err != nil {
		return apperrors.NewPersistenceError(err)
	}
	p.publish(ctx, Change{Path: path, Op: OpMerge})
	return nil
}

func (p *Postgres) Append(ctx context.Context, path string, value any) (string, error) {
	key := newKey()
	if err := p.Write(ctx, path+"/"+key, value); err != nil {
		return "", err
	}
	return key, nil
}

func (p *Postgres) Delete(ctx context.Context, path string) error {
	const query = `DELETE FROM records WHERE path=$1 OR path LIKE $1 || '/%'`
	if _, err := p.pool.Exec(ctx, query, path); err != nil {
		return apperrors.NewPersistenceError(err)
	}
	p.publish(ctx, Change{Path: path, Op: OpDelete})
	return nil
}

func (p *Postgres) List(ctx context.Context, path string) (map[string]json.RawMessage, error) {
	const query = `
        SELECT path, value FROM records
        WHERE path LIKE $1 || '/%' AND path NOT LIKE $1 || '/%/%'
        ORDER BY path`
	rows, err := p.pool.Query(ctx, query, path)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	defer rows.Close()

	out := make(map[string]json.RawMessage)
	for rows.Next() {
		var childPath string
		var raw []byte
		if err := rows.Scan(&childPath, &raw); err != nil {
			return nil, apperrors.NewPersistenceError(err)
		}
		out[childPath[len(path)+1:]] = json.RawMessage(raw)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return out, nil
}

// Update runs fn against the current value under a row lock so concurrent
// check-then-act sequences at the same path serialize.
func (p *Postgres) Update(ctx context.Context, path string, fn func(current json.RawMessage) (any, error)) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewPersistenceError(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var raw []byte
	err = tx.QueryRow(ctx, `SELECT value FROM records WHERE path=$1 FOR UPDATE`, path).Scan(&raw)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewPersistenceError(err)
	}

	next, err := fn(json.RawMessage(raw))
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(next)
	if err != nil {
		return err
	}
	const upsert = `
        INSERT INTO records (path, value) VALUES ($1, $2)
        ON CONFLICT (path) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`
	if _, err := tx.Exec(ctx, upsert, path, encoded); err != nil {
		return apperrors.NewPersistenceError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewPersistenceError(err)
	}
	p.publish(ctx, Change{Path: path, Op: OpWrite})
	return nil
}

// Subscribe delegates to the redis feed when configured.
func (p *Postgres) Subscribe(ctx context.Context, path string, fn func(Change)) (func(), error) {
	if p.feed == nil {
		return nil, errors.New("store: no change feed configured")
	}
	return p.feed.Subscribe(ctx, path, fn)
}

func (p *Postgres) publish(ctx context.Context, change Change) {
	if p.feed == nil {
		return
	}
	// Best effort: the write path never depends on subscribers.
	p.feed.Publish(ctx, change)
}
