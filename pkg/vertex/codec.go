package vertex

import (
	"github.com/dd0wney/graphlayer/pkg/cellstore"
	"github.com/dd0wney/graphlayer/pkg/registry"
)

// VertexToCell resolves schemaID, rejects it with ErrSchemaNotVertex if not
// a Vertex schema, rejects data with ErrDataNotMap if nil, injects the three
// adjacency slot fields (all UnitID), and constructs a Store cell — or fails
// with ErrCannotGenerateCellByData if data names a field the schema doesn't
// declare.
func VertexToCell(reg registry.Registry, schemaID cellstore.SchemaID, data map[string]cellstore.Value) (*cellstore.Cell, error) {
	schemaType, err := reg.SchemaType(schemaID)
	if err != nil {
		return nil, err
	}
	if !schemaType.IsVertex() {
		return nil, ErrSchemaNotVertex
	}
	if data == nil {
		return nil, ErrDataNotMap
	}

	schema, err := reg.Get(schemaID)
	if err != nil {
		return nil, err
	}

	body := map[cellstore.FieldID]cellstore.Value{
		cellstore.FieldInbound:    cellstore.IDValue(cellstore.UnitID),
		cellstore.FieldOutbound:   cellstore.IDValue(cellstore.UnitID),
		cellstore.FieldUndirected: cellstore.IDValue(cellstore.UnitID),
	}
	for name, value := range data {
		fieldID, ok := schema.FieldID(name)
		if !ok {
			return nil, ErrCannotGenerateCellByData
		}
		body[fieldID] = value
	}

	return &cellstore.Cell{SchemaID: schemaID, Body: body}, nil
}

// CellToVertex is the inverse of VertexToCell; it never fails on a cell
// whose schema was registered as Vertex.
func CellToVertex(cell *cellstore.Cell) *Vertex {
	body := make(map[cellstore.FieldID]cellstore.Value, len(cell.Body))
	for k, v := range cell.Body {
		body[k] = v
	}
	return &Vertex{ID: cell.ID, SchemaID: cell.SchemaID, Body: body}
}
