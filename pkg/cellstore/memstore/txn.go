package memstore

import (
	"github.com/dd0wney/graphlayer/pkg/cellstore"
)

// Txn buffers one transaction's reads (for conflict detection) and writes
// (applied atomically at commit), mirroring the teacher's
// Transaction.createdNodes/updatedNodes/deletedNodes buffering.
type Txn struct {
	store        *Store
	readVersions map[cellstore.Id]uint64
	writes       map[cellstore.Id]*cellstore.Cell
	removes      map[cellstore.Id]bool
}

func (t *Txn) observe(id cellstore.Id, version uint64) {
	if _, ok := t.readVersions[id]; !ok {
		t.readVersions[id] = version
	}
}

// Write buffers a new cell write, read-your-writes visible to subsequent
// Read/Update/Remove calls in the same transaction.
func (t *Txn) Write(cell *cellstore.Cell) (cellstore.Header, error) {
	if cellstore.IsUnit(cell.ID) {
		cell.ID = cellstore.NewID()
	}
	t.observe(cell.ID, 0)
	t.writes[cell.ID] = cell.Clone()
	delete(t.removes, cell.ID)
	return cellstore.Header{Version: 1}, nil
}

// Read returns the current value of id as seen within this transaction:
// a buffered write/remove if present, otherwise the committed store value.
func (t *Txn) Read(id cellstore.Id) (*cellstore.Cell, error) {
	if t.removes[id] {
		return nil, cellstore.NewStoreError("Read", id, cellstore.ErrCellDoesNotExist)
	}
	if cell, ok := t.writes[id]; ok {
		return cell.Clone(), nil
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	cell, ok := t.store.cells[id]
	if !ok {
		t.observe(id, 0)
		return nil, cellstore.NewStoreError("Read", id, cellstore.ErrCellDoesNotExist)
	}
	t.observe(id, cell.Header.Version)
	return cell.Clone(), nil
}

// Update reads id, applies mutate to a copy of its body, and buffers the
// result as a write. Returns ErrCellDoesNotExist if id is absent.
func (t *Txn) Update(id cellstore.Id, mutate func(body map[cellstore.FieldID]cellstore.Value) error) error {
	cell, err := t.Read(id)
	if err != nil {
		return err
	}
	if err := mutate(cell.Body); err != nil {
		return err
	}
	t.writes[id] = cell
	return nil
}

// Remove buffers a deletion, visible to subsequent reads in this
// transaction.
func (t *Txn) Remove(id cellstore.Id) error {
	if _, ok := t.readVersions[id]; !ok {
		t.store.mu.Lock()
		if cell, ok := t.store.cells[id]; ok {
			t.observe(id, cell.Header.Version)
		} else {
			t.observe(id, 0)
		}
		t.store.mu.Unlock()
	}
	delete(t.writes, id)
	t.removes[id] = true
	return nil
}
