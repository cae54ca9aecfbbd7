// Package edge implements the Edge codec (SPEC_FULL.md §4.4): the three
// edge variants (Directed, Undirected-with-body, Simple/bodyless) behind a
// common capability set, and reconstruction of an edge from an adjacency
// list entry. Grounded on the teacher's Edge type
// (pkg/storage/edge_operations.go) — CreateEdge's fromID/toID/Type/
// Properties shape maps onto Directed's endpoints/SchemaID/Body, adapted
// from a dedicated Edge struct with its own id space to a cell-backed (or,
// for Simple edges, cell-less) value addressed by the adjacency list itself.
package edge

import (
	"github.com/dd0wney/graphlayer/pkg/cellstore"
	"github.com/dd0wney/graphlayer/pkg/registry"
)

// Edge is the common capability set every edge variant implements.
type Edge interface {
	// Endpoints returns the edge's two endpoint ids, in no particular
	// order for Undirected/Simple edges and (from, to) order for Directed.
	Endpoints() (a, b cellstore.Id)

	// OppositeOf returns the endpoint opposite v, and whether v is in fact
	// one of the edge's endpoints.
	OppositeOf(v cellstore.Id) (cellstore.Id, bool)

	// Body returns the edge's user-field body. Simple edges always return
	// an empty, non-nil map (invariant E1: no cell, no fields).
	Body() map[cellstore.FieldID]cellstore.Value

	// SchemaID returns the edge's schema id.
	SchemaID() cellstore.SchemaID

	// Kind returns registry.Directed or registry.Undirected.
	Kind() registry.EdgeKind
}

// Directed is an edge reconstructed from a cell with _vertex_from/_vertex_to
// endpoint fields.
type Directed struct {
	ID       cellstore.Id
	Schema   cellstore.SchemaID
	From, To cellstore.Id
	Fields   map[cellstore.FieldID]cellstore.Value
}

func (e *Directed) Endpoints() (cellstore.Id, cellstore.Id) { return e.From, e.To }

func (e *Directed) OppositeOf(v cellstore.Id) (cellstore.Id, bool) {
	switch v {
	case e.From:
		return e.To, true
	case e.To:
		return e.From, true
	default:
		return cellstore.UnitID, false
	}
}

func (e *Directed) Body() map[cellstore.FieldID]cellstore.Value { return e.Fields }
func (e *Directed) SchemaID() cellstore.SchemaID                { return e.Schema }
func (e *Directed) Kind() registry.EdgeKind                     { return registry.Directed }

// Undirected is an edge reconstructed from a cell with _vertex_a/_vertex_b
// endpoint fields. A self-loop has A == B; OppositeOf(A) then returns A.
type Undirected struct {
	ID     cellstore.Id
	Schema cellstore.SchemaID
	A, B   cellstore.Id
	Fields map[cellstore.FieldID]cellstore.Value
}

func (e *Undirected) Endpoints() (cellstore.Id, cellstore.Id) { return e.A, e.B }

func (e *Undirected) OppositeOf(v cellstore.Id) (cellstore.Id, bool) {
	switch v {
	case e.A:
		return e.B, true
	case e.B:
		return e.A, true
	default:
		return cellstore.UnitID, false
	}
}

func (e *Undirected) Body() map[cellstore.FieldID]cellstore.Value { return e.Fields }
func (e *Undirected) SchemaID() cellstore.SchemaID                { return e.Schema }
func (e *Undirected) Kind() registry.EdgeKind                     { return registry.Undirected }

// Simple is a bodyless edge, synthesized during adjacency iteration from
// (owner, slot, schema, other) — it has no cell and no id of its own.
type Simple struct {
	Owner  cellstore.Id
	Slot   cellstore.FieldID
	Schema cellstore.SchemaID
	Other  cellstore.Id
	kind   registry.EdgeKind
}

func (e *Simple) Endpoints() (cellstore.Id, cellstore.Id) {
	if e.Slot == cellstore.FieldInbound {
		return e.Other, e.Owner
	}
	return e.Owner, e.Other
}

func (e *Simple) OppositeOf(v cellstore.Id) (cellstore.Id, bool) {
	switch v {
	case e.Owner:
		return e.Other, true
	case e.Other:
		return e.Owner, true
	default:
		return cellstore.UnitID, false
	}
}

func (e *Simple) Body() map[cellstore.FieldID]cellstore.Value {
	return map[cellstore.FieldID]cellstore.Value{}
}
func (e *Simple) SchemaID() cellstore.SchemaID { return e.Schema }
func (e *Simple) Kind() registry.EdgeKind      { return e.kind }
