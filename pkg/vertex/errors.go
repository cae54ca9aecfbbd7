package vertex

import "errors"

var (
	// ErrSchemaNotVertex is returned by VertexToCell when the supplied
	// schema id does not classify as a Vertex schema.
	ErrSchemaNotVertex = errors.New("vertex: schema is not a Vertex schema")

	// ErrDataNotMap is returned by VertexToCell when the supplied data is a
	// nil map, whatever fields the schema declares.
	ErrDataNotMap = errors.New("vertex: vertex data must be a field map")

	// ErrCannotGenerateCellByData is returned when data does not satisfy
	// the schema's field set (an unknown field name with no FieldID).
	ErrCannotGenerateCellByData = errors.New("vertex: data does not conform to schema")
)
