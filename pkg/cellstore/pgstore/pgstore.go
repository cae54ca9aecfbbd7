// Package pgstore is a PostgreSQL-backed cellstore.Store: every cell is a
// row in a single table, every graph transaction is a SERIALIZABLE Postgres
// transaction, and a serialization-failure SQLSTATE is translated to
// cellstore.ErrConflict so the facade's retry loop drives Postgres's own
// conflict detection instead of reimplementing it.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dd0wney/graphlayer/pkg/cellstore"
)

const serializationFailure = "40001"

// Store is a PostgreSQL-backed cellstore.Store.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to databaseURL, verifies connectivity, and ensures the cells
// table exists.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 25
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 5 * time.Minute
	cfg.MaxConnIdleTime = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS cells (
	id UUID PRIMARY KEY,
	schema_id INTEGER NOT NULL,
	version BIGINT NOT NULL,
	body JSONB NOT NULL
)`)
	return err
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) WriteCell(ctx context.Context, cell *cellstore.Cell) (cellstore.Header, error) {
	if cellstore.IsUnit(cell.ID) {
		cell.ID = cellstore.NewID()
	}
	body := encodeBody(cell.Body)
	row := s.pool.QueryRow(ctx,
		`INSERT INTO cells (id, schema_id, version, body) VALUES ($1, $2, 1, $3)
		 ON CONFLICT (id) DO UPDATE SET schema_id = EXCLUDED.schema_id, version = cells.version + 1, body = EXCLUDED.body
		 RETURNING version`,
		cell.ID, cell.SchemaID, body)
	var version uint64
	if err := row.Scan(&version); err != nil {
		return cellstore.Header{}, translateErr("WriteCell", cell.ID, err)
	}
	cell.Header = cellstore.Header{Version: version}
	return cell.Header, nil
}

func (s *Store) ReadCell(ctx context.Context, id cellstore.Id) (*cellstore.Cell, error) {
	row := s.pool.QueryRow(ctx, `SELECT schema_id, version, body FROM cells WHERE id = $1`, id)
	var schemaID cellstore.SchemaID
	var version uint64
	var rawBody []byte
	if err := row.Scan(&schemaID, &version, &rawBody); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cellstore.NewStoreError("ReadCell", id, cellstore.ErrCellDoesNotExist)
		}
		return nil, translateErr("ReadCell", id, err)
	}
	body, err := decodeBody(rawBody)
	if err != nil {
		return nil, translateErr("ReadCell", id, err)
	}
	return &cellstore.Cell{ID: id, SchemaID: schemaID, Header: cellstore.Header{Version: version}, Body: body}, nil
}

func (s *Store) RemoveCell(ctx context.Context, id cellstore.Id) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM cells WHERE id = $1`, id)
	if err != nil {
		return translateErr("RemoveCell", id, err)
	}
	return nil
}

func (s *Store) Transaction(ctx context.Context, fn func(cellstore.Txn) (any, error)) (any, error) {
	pgTx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cellstore.ErrRPC, err)
	}

	tx := &Txn{ctx: ctx, pgTx: pgTx}
	result, fnErr := fn(tx)
	if fnErr != nil {
		_ = pgTx.Rollback(ctx)
		return nil, fnErr
	}

	if err := pgTx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == serializationFailure {
			return nil, cellstore.ErrConflict
		}
		return nil, fmt.Errorf("%w: %v", cellstore.ErrRPC, err)
	}
	return result, nil
}

func translateErr(op string, id cellstore.Id, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == serializationFailure {
		return cellstore.ErrConflict
	}
	return cellstore.NewStoreError(op, id, err)
}
