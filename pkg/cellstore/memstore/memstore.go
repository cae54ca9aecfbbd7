// Package memstore is an in-memory reference implementation of
// cellstore.Store, grounded on the teacher's GraphStorage: a sharded map
// guarded by a global lock, with transactions buffering their writes and
// applying them atomically at commit — except here a transaction also
// checks, at commit time, that every cell it read or wrote has not been
// concurrently modified since the transaction first observed it, so two overlapping
// writers genuinely race the way cellstore.ErrConflict promises they will.
package memstore

import (
	"context"
	"sync"

	"github.com/dd0wney/graphlayer/pkg/cellstore"
)

// Store is an in-memory, process-local Store. Safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	cells map[cellstore.Id]*cellstore.Cell
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{cells: make(map[cellstore.Id]*cellstore.Cell)}
}

func (s *Store) WriteCell(ctx context.Context, cell *cellstore.Cell) (cellstore.Header, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cellstore.IsUnit(cell.ID) {
		cell.ID = cellstore.NewID()
	}
	cell.Header = cellstore.Header{Version: 1}
	if existing, ok := s.cells[cell.ID]; ok {
		cell.Header.Version = existing.Header.Version + 1
	}
	s.cells[cell.ID] = cell.Clone()
	return cell.Header, nil
}

func (s *Store) ReadCell(ctx context.Context, id cellstore.Id) (*cellstore.Cell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cell, ok := s.cells[id]
	if !ok {
		return nil, cellstore.NewStoreError("ReadCell", id, cellstore.ErrCellDoesNotExist)
	}
	return cell.Clone(), nil
}

func (s *Store) RemoveCell(ctx context.Context, id cellstore.Id) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cells, id)
	return nil
}

// Transaction runs fn against a fresh *Txn and attempts to commit its
// buffered effects. On a detected conflict it retries fn, bounded to avoid
// spinning forever under pathological contention — the facade (pkg/graph)
// layers its own backoff on top for cross-process stores where a bare retry
// loop would hammer the network.
func (s *Store) Transaction(ctx context.Context, fn func(cellstore.Txn) (any, error)) (any, error) {
	const maxAttempts = 50
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		tx := s.begin()
		result, err := fn(tx)
		if err != nil {
			return nil, err
		}
		if commitErr := s.commit(tx); commitErr != nil {
			if cellstore.IsConflict(commitErr) {
				lastErr = commitErr
				continue
			}
			return nil, commitErr
		}
		return result, nil
	}
	return nil, lastErr
}

func (s *Store) begin() *Txn {
	s.mu.Lock()
	defer s.mu.Unlock()

	readVersions := make(map[cellstore.Id]uint64, 8)
	return &Txn{
		store:        s,
		readVersions: readVersions,
		writes:       make(map[cellstore.Id]*cellstore.Cell),
		removes:      make(map[cellstore.Id]bool),
	}
}

func (s *Store) commit(tx *Txn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Detect conflicts: any cell the transaction observed (read or wrote)
	// must still be at the version it was at when first observed.
	for id, seenVersion := range tx.readVersions {
		current, exists := s.cells[id]
		currentVersion := uint64(0)
		if exists {
			currentVersion = current.Header.Version
		}
		if currentVersion != seenVersion {
			return cellstore.ErrConflict
		}
	}

	for id, cell := range tx.writes {
		existing, existed := s.cells[id]
		version := uint64(1)
		if existed {
			version = existing.Header.Version + 1
		}
		cell.Header = cellstore.Header{Version: version}
		s.cells[id] = cell
	}
	for id := range tx.removes {
		delete(s.cells, id)
	}
	return nil
}
