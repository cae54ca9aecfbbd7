// Package graphtxn implements the atomic graph operations (SPEC_FULL.md
// §4.5) that run inside a single externally-provided cellstore.Txn:
// NewVertex, RemoveVertex, RemoveVertexEdgesOfSchema, Link, Edges,
// Neighbourhoods, Degree, and the key-addressed vertex lookups. Grounded on
// the teacher's Transaction type (pkg/storage/transaction_ops.go,
// transaction_commit.go): buffered-operation shape, adapted from an
// in-process node/edge id space to cell ids addressed through a Store.
package graphtxn

import (
	"errors"
	"fmt"

	"github.com/dd0wney/graphlayer/pkg/cellstore"
)

// Sentinel domain errors, mirroring spec.md §7's taxonomy. Each operation's
// error type embeds the sentinel that classifies the failure so callers can
// errors.Is against it, plus structured context reachable via errors.As.
var (
	ErrSchemaNotFound            = errors.New("graphtxn: schema not found")
	ErrSchemaNotVertex           = errors.New("graphtxn: schema is not a Vertex schema")
	ErrCannotGenerateCellByData  = errors.New("graphtxn: data does not conform to schema")
	ErrDataNotMap                = errors.New("graphtxn: vertex data must be a field map")
	ErrVertexNotFound            = errors.New("graphtxn: vertex not found")
	ErrEdgeSchemaNotFound        = errors.New("graphtxn: edge schema not found")
	ErrSchemaNotEdge             = errors.New("graphtxn: schema is not an Edge schema")
	ErrBodyRequired              = errors.New("graphtxn: edge schema requires a body")
	ErrBodyShouldNotExist        = errors.New("graphtxn: edge schema must not have a body")
	ErrCannotFindOppositeID      = errors.New("graphtxn: could not resolve the opposite endpoint of an edge")
	ErrFilterEval                = errors.New("graphtxn: filter expression evaluation failed")
)

// NewVertexError wraps a failure of NewVertex.
type NewVertexError struct {
	Schema cellstore.SchemaID
	Cause  error
}

func (e *NewVertexError) Error() string {
	return fmt.Sprintf("graphtxn: NewVertex(schema=%d): %v", e.Schema, e.Cause)
}
func (e *NewVertexError) Unwrap() error { return e.Cause }

// ReadVertexError wraps a failure reading a vertex by id or key.
type ReadVertexError struct {
	Vertex cellstore.Id
	Cause  error
}

func (e *ReadVertexError) Error() string {
	return fmt.Sprintf("graphtxn: read vertex %s: %v", e.Vertex, e.Cause)
}
func (e *ReadVertexError) Unwrap() error { return e.Cause }

// LinkVerticesError wraps a failure of Link.
type LinkVerticesError struct {
	From, To cellstore.Id
	Schema   cellstore.SchemaID
	Cause    error
}

func (e *LinkVerticesError) Error() string {
	return fmt.Sprintf("graphtxn: Link(%s, schema=%d, %s): %v", e.From, e.Schema, e.To, e.Cause)
}
func (e *LinkVerticesError) Unwrap() error { return e.Cause }

// EdgeError wraps a failure reconstructing or iterating an edge.
type EdgeError struct {
	Edge  cellstore.Id
	Cause error
}

func (e *EdgeError) Error() string {
	return fmt.Sprintf("graphtxn: edge %s: %v", e.Edge, e.Cause)
}
func (e *EdgeError) Unwrap() error { return e.Cause }

// NeighbourhoodError wraps a failure of Edges/Neighbourhoods/Degree.
type NeighbourhoodError struct {
	Vertex cellstore.Id
	Schema cellstore.SchemaID
	Cause  error
}

func (e *NeighbourhoodError) Error() string {
	return fmt.Sprintf("graphtxn: neighbourhood(%s, schema=%d): %v", e.Vertex, e.Schema, e.Cause)
}
func (e *NeighbourhoodError) Unwrap() error { return e.Cause }

// SchemaError wraps a schema-registration-time failure.
type SchemaError struct {
	Schema cellstore.SchemaID
	Cause  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("graphtxn: schema %d: %v", e.Schema, e.Cause)
}
func (e *SchemaError) Unwrap() error { return e.Cause }
