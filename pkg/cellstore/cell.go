// Package cellstore defines the typed cell model and the Store/Txn contract
// the graph layer is built on top of. The store itself — a transactional,
// distributed, replicated key/value service — is an external collaborator;
// this package specifies only the surface the graph layer consumes, plus an
// in-memory (memstore) and a Postgres-backed (pgstore) reference
// implementation of that surface.
package cellstore

import (
	"github.com/google/uuid"
)

// Id is the 128-bit identifier of a cell.
type Id = uuid.UUID

// UnitID is the reserved sentinel denoting "no id" — an empty adjacency
// slot, or the end of an id-list.
var UnitID Id = uuid.Nil

// IsUnit reports whether id is the UnitID sentinel.
func IsUnit(id Id) bool {
	return id == UnitID
}

// NewID allocates a fresh random cell id. Called by Store implementations
// when writing a new cell; graph-layer code never mints ids itself except
// via EncodeKeyedID.
func NewID() Id {
	return uuid.New()
}

// FieldID identifies one field of a cell body. Reserved field ids are
// declared in this package (slots, endpoint fields); user-defined fields get
// an id derived from their name by the schema registry.
type FieldID uint64

// SchemaID identifies a registered schema. Immutable once registered.
type SchemaID uint32

// Reserved field ids shared by every vertex cell (vertex slot fields, V1)
// and by edge cells with a body (endpoint fields).
const (
	FieldInbound FieldID = iota + 1
	FieldOutbound
	FieldUndirected
	FieldVertexFrom
	FieldVertexTo
	FieldVertexA
	FieldVertexB
	FieldListNext
	FieldListValue
	FieldListType

	// firstUserFieldID is the first id handed out to user-defined schema
	// fields; keeping a gap avoids collisions with the reserved ids above.
	firstUserFieldID FieldID = 1000
)

// Header is written by the Store at cell-write time. Version increases on
// every committed write to the cell and is what a Store's conflict
// detection compares against at commit time.
type Header struct {
	Version uint64
}

// Cell is the opaque unit of storage. Body is the typed field map; codecs
// in pkg/vertex and pkg/edge are the only code that interprets it.
type Cell struct {
	ID       Id
	SchemaID SchemaID
	Header   Header
	Body     map[FieldID]Value
}

// Clone returns a deep copy of the cell, mirroring the teacher's
// defensive-copy convention for values crossing a store boundary.
func (c *Cell) Clone() *Cell {
	clone := &Cell{ID: c.ID, SchemaID: c.SchemaID, Header: c.Header, Body: make(map[FieldID]Value, len(c.Body))}
	for k, v := range c.Body {
		clone.Body[k] = v
	}
	return clone
}
