package pgstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dd0wney/graphlayer/pkg/cellstore"
)

// Txn is a single SERIALIZABLE Postgres transaction. Conflict detection is
// delegated entirely to Postgres: a concurrent, overlapping writer surfaces
// as a 40001 error at commit time, translated by Store.Transaction.
type Txn struct {
	ctx  context.Context
	pgTx pgx.Tx
}

func (t *Txn) Write(cell *cellstore.Cell) (cellstore.Header, error) {
	if cellstore.IsUnit(cell.ID) {
		cell.ID = cellstore.NewID()
	}
	body := encodeBody(cell.Body)
	row := t.pgTx.QueryRow(t.ctx,
		`INSERT INTO cells (id, schema_id, version, body) VALUES ($1, $2, 1, $3)
		 ON CONFLICT (id) DO UPDATE SET schema_id = EXCLUDED.schema_id, version = cells.version + 1, body = EXCLUDED.body
		 RETURNING version`,
		cell.ID, cell.SchemaID, body)
	var version uint64
	if err := row.Scan(&version); err != nil {
		return cellstore.Header{}, cellstore.NewStoreError("Write", cell.ID, err)
	}
	cell.Header = cellstore.Header{Version: version}
	return cell.Header, nil
}

func (t *Txn) Read(id cellstore.Id) (*cellstore.Cell, error) {
	row := t.pgTx.QueryRow(t.ctx, `SELECT schema_id, version, body FROM cells WHERE id = $1 FOR UPDATE`, id)
	var schemaID cellstore.SchemaID
	var version uint64
	var rawBody []byte
	if err := row.Scan(&schemaID, &version, &rawBody); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cellstore.NewStoreError("Read", id, cellstore.ErrCellDoesNotExist)
		}
		return nil, cellstore.NewStoreError("Read", id, err)
	}
	body, err := decodeBody(rawBody)
	if err != nil {
		return nil, cellstore.NewStoreError("Read", id, err)
	}
	return &cellstore.Cell{ID: id, SchemaID: schemaID, Header: cellstore.Header{Version: version}, Body: body}, nil
}

func (t *Txn) Update(id cellstore.Id, mutate func(body map[cellstore.FieldID]cellstore.Value) error) error {
	cell, err := t.Read(id)
	if err != nil {
		return err
	}
	if err := mutate(cell.Body); err != nil {
		return err
	}
	_, err = t.Write(cell)
	return err
}

func (t *Txn) Remove(id cellstore.Id) error {
	if _, err := t.pgTx.Exec(t.ctx, `DELETE FROM cells WHERE id = $1`, id); err != nil {
		return cellstore.NewStoreError("Remove", id, err)
	}
	return nil
}
