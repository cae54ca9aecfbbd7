package cellstore

import "context"

// Store is the external transactional cell service the graph layer is built
// on top of. A real Store is distributed and replicated; memstore and
// pgstore are reference implementations used by tests and the demo binary.
type Store interface {
	// WriteCell writes a new cell outside of any transaction, returning the
	// header the store assigned it. Used for one-shot writes where the
	// caller doesn't need to compose with other operations.
	WriteCell(ctx context.Context, cell *Cell) (Header, error)
	// ReadCell reads a cell by id outside of any transaction.
	ReadCell(ctx context.Context, id Id) (*Cell, error)
	// RemoveCell deletes a cell outside of any transaction.
	RemoveCell(ctx context.Context, id Id) error

	// Transaction runs fn inside a new store transaction. fn may be invoked
	// more than once if the store detects a commit-time conflict; its
	// captured state must therefore be side-effect free with respect to
	// anything outside the Txn it is given (§5, §9 design notes).
	Transaction(ctx context.Context, fn func(Txn) (any, error)) (any, error)
}

// Txn is the transaction-scoped subset of Store: reads/writes observe
// read-your-writes semantics within the transaction (§5).
type Txn interface {
	Write(cell *Cell) (Header, error)
	Read(id Id) (*Cell, error)
	Update(id Id, mutate func(body map[FieldID]Value) error) error
	Remove(id Id) error
}
