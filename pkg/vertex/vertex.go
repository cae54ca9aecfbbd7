// Package vertex implements the Vertex codec (SPEC_FULL.md §4.3): the
// translation between a registry.Schema-conformant property map and the
// cell a Vertex is stored as, with the three reserved adjacency-slot fields
// (invariant V1) injected on write. Grounded on the teacher's Node type
// (pkg/storage/node_operations.go, types.go) — Vertex keeps the same
// accessor shape (GetProperty/HasProperty) over a cell-backed body instead of
// an in-memory struct.
package vertex

import (
	"github.com/dd0wney/graphlayer/pkg/cellstore"
	"github.com/dd0wney/graphlayer/pkg/registry"
)

// Vertex is a graph vertex: its assigned cell id, its schema, and its body
// (user fields plus the three adjacency-slot fields).
type Vertex struct {
	ID       cellstore.Id
	SchemaID cellstore.SchemaID
	Body     map[cellstore.FieldID]cellstore.Value
}

// GetProperty returns the raw value stored under the named user field of
// schema, and whether that field is present in the vertex's body.
func (v *Vertex) GetProperty(schema *registry.Schema, name string) (cellstore.Value, bool) {
	fieldID, ok := schema.FieldID(name)
	if !ok {
		return cellstore.Value{}, false
	}
	val, ok := v.Body[fieldID]
	return val, ok
}

// HasProperty reports whether the named user field is present.
func (v *Vertex) HasProperty(schema *registry.Schema, name string) bool {
	_, ok := v.GetProperty(schema, name)
	return ok
}

// Clone returns a deep copy of v.
func (v *Vertex) Clone() *Vertex {
	body := make(map[cellstore.FieldID]cellstore.Value, len(v.Body))
	for k, val := range v.Body {
		body[k] = val
	}
	return &Vertex{ID: v.ID, SchemaID: v.SchemaID, Body: body}
}

// slotIn reads one of the three reserved adjacency-slot fields; vertex cells
// always carry all three (invariant V1).
func (v *Vertex) slotIn(field cellstore.FieldID) cellstore.Id {
	val, ok := v.Body[field]
	if !ok {
		return cellstore.UnitID
	}
	id, err := val.AsID()
	if err != nil {
		return cellstore.UnitID
	}
	return id
}

// Inbound returns the head id of the INBOUND adjacency slot.
func (v *Vertex) Inbound() cellstore.Id { return v.slotIn(cellstore.FieldInbound) }

// Outbound returns the head id of the OUTBOUND adjacency slot.
func (v *Vertex) Outbound() cellstore.Id { return v.slotIn(cellstore.FieldOutbound) }

// Undirected returns the head id of the UNDIRECTED adjacency slot.
func (v *Vertex) Undirected() cellstore.Id { return v.slotIn(cellstore.FieldUndirected) }
