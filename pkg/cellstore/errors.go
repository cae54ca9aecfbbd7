package cellstore

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Store/Txn implementations. Graph-layer code
// distinguishes these with errors.Is rather than matching on type, mirroring
// the teacher's IsNotFound/IsClosed helpers.
var (
	// ErrCellDoesNotExist is returned by ReadCell/Txn.Read for a missing id.
	ErrCellDoesNotExist = errors.New("cell does not exist")
	// ErrConflict is returned by Transaction when a commit loses an
	// optimistic-concurrency race; the facade retries on this error.
	ErrConflict = errors.New("transaction conflict")
	// ErrAborted denotes a rolled-back transaction. memstore and pgstore do
	// not return it: when a transaction closure fails they roll back and
	// return the closure's own error unchanged.
	ErrAborted = errors.New("transaction aborted")
	// ErrRPC is returned for transport-level failures talking to the store.
	ErrRPC = errors.New("store rpc error")
	// ErrSchemaNotFound denotes an unregistered schema. The Store
	// implementations do not return it; registry lookups report an
	// unregistered schema with registry.ErrSchemaNotFound instead.
	ErrSchemaNotFound = errors.New("schema not found")
)

// StoreError provides structured context for a failed store operation,
// following the teacher's StorageError/ErrorBuilder fluent-construction
// pattern so callers can both errors.Is a sentinel and errors.As for detail.
type StoreError struct {
	Op      string // operation that failed, e.g. "ReadCell", "WriteCell"
	CellID  Id
	Cause   error
	Context string
}

func (e *StoreError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s cell %s (%s): %v", e.Op, e.CellID, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s cell %s: %v", e.Op, e.CellID, e.Cause)
}

func (e *StoreError) Unwrap() error { return e.Cause }

func (e *StoreError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// NewStoreError builds a StoreError for op/id/cause.
func NewStoreError(op string, id Id, cause error) error {
	return &StoreError{Op: op, CellID: id, Cause: cause}
}

// IsConflict reports whether err (possibly wrapped) is a conflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsNotFound reports whether err (possibly wrapped) means "no such cell".
func IsNotFound(err error) bool { return errors.Is(err, ErrCellDoesNotExist) }
