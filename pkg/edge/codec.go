package edge

import (
	"github.com/dd0wney/graphlayer/pkg/cellstore"
	"github.com/dd0wney/graphlayer/pkg/registry"
)

// FromID reconstructs the edge recorded in owner's adjacency slot list
// entry id. For with-body schemas id is the edge's own cell id, read to
// recover its endpoint fields and body; for bodyless (Simple) schemas id is
// directly the id of the vertex at the other end of the edge, since no cell
// exists for it (invariant E1).
func FromID(owner cellstore.Id, slot cellstore.FieldID, schemaID cellstore.SchemaID, reg registry.Registry, tx cellstore.Txn, id cellstore.Id) (Edge, error) {
	schemaType, err := reg.SchemaType(schemaID)
	if err != nil {
		return nil, ErrCannotFindSchema
	}
	if !schemaType.IsEdge() {
		return nil, ErrWrongSchema
	}

	if !schemaType.Edge.HasBody {
		return &Simple{Owner: owner, Slot: slot, Schema: schemaID, Other: id, kind: schemaType.Edge.EdgeType}, nil
	}

	cell, err := tx.Read(id)
	if err != nil {
		return nil, err
	}
	if cell.SchemaID != schemaID {
		return nil, ErrWrongSchema
	}

	schema, err := reg.Get(schemaID)
	if err != nil {
		return nil, err
	}

	switch schemaType.Edge.EdgeType {
	case registry.Directed:
		return directedFromCell(cell, schema)
	case registry.Undirected:
		return undirectedFromCell(cell, schema)
	default:
		return nil, ErrWrongSchema
	}
}

func directedFromCell(cell *cellstore.Cell, schema *registry.Schema) (*Directed, error) {
	from, err := endpointValue(cell, cellstore.FieldVertexFrom)
	if err != nil {
		return nil, err
	}
	to, err := endpointValue(cell, cellstore.FieldVertexTo)
	if err != nil {
		return nil, err
	}
	return &Directed{ID: cell.ID, Schema: cell.SchemaID, From: from, To: to, Fields: userFields(cell, schema)}, nil
}

func undirectedFromCell(cell *cellstore.Cell, schema *registry.Schema) (*Undirected, error) {
	a, err := endpointValue(cell, cellstore.FieldVertexA)
	if err != nil {
		return nil, err
	}
	b, err := endpointValue(cell, cellstore.FieldVertexB)
	if err != nil {
		return nil, err
	}
	return &Undirected{ID: cell.ID, Schema: cell.SchemaID, A: a, B: b, Fields: userFields(cell, schema)}, nil
}

func endpointValue(cell *cellstore.Cell, field cellstore.FieldID) (cellstore.Id, error) {
	val, ok := cell.Body[field]
	if !ok {
		return cellstore.UnitID, ErrWrongSchema
	}
	return val.AsID()
}

// userFields extracts the schema's user-defined fields from cell.Body,
// excluding the reserved endpoint fields.
func userFields(cell *cellstore.Cell, schema *registry.Schema) map[cellstore.FieldID]cellstore.Value {
	fields := make(map[cellstore.FieldID]cellstore.Value)
	for _, f := range schema.Fields {
		fieldID, ok := schema.FieldID(f.Name)
		if !ok {
			continue
		}
		if val, ok := cell.Body[fieldID]; ok {
			fields[fieldID] = val
		}
	}
	return fields
}

// ToCell builds the Store cell for a with-body edge (Directed or
// Undirected) given its schema, endpoints, and user-field body. Simple
// edges have no cell and are never passed to ToCell.
func ToCell(schemaID cellstore.SchemaID, kind registry.EdgeKind, from, to cellstore.Id, body map[cellstore.FieldID]cellstore.Value) *cellstore.Cell {
	cellBody := make(map[cellstore.FieldID]cellstore.Value, len(body)+2)
	for k, v := range body {
		cellBody[k] = v
	}
	switch kind {
	case registry.Directed:
		cellBody[cellstore.FieldVertexFrom] = cellstore.IDValue(from)
		cellBody[cellstore.FieldVertexTo] = cellstore.IDValue(to)
	case registry.Undirected:
		cellBody[cellstore.FieldVertexA] = cellstore.IDValue(from)
		cellBody[cellstore.FieldVertexB] = cellstore.IDValue(to)
	}
	return &cellstore.Cell{SchemaID: schemaID, Body: cellBody}
}
