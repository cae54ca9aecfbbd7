package registry

import "errors"

var (
	// ErrSimpleEdgeHasFields is returned by NewSchema when an Edge schema
	// with HasBody == false declares user fields (invariant E1).
	ErrSimpleEdgeHasFields = errors.New("registry: simple (bodyless) edge schema must not declare user fields")

	// ErrSchemaTypeUnspecified is returned when a schema operation requires
	// a concrete Kind (Vertex or Edge) but Unspecified was supplied.
	ErrSchemaTypeUnspecified = errors.New("registry: schema type must be Vertex or Edge, not Unspecified")

	// ErrSchemaNotFound is returned by Get/SchemaType for an unregistered id.
	ErrSchemaNotFound = errors.New("registry: schema not found")

	// ErrSchemaAlreadyExists is returned by NewSchemaWithID for an id already
	// bound.
	ErrSchemaAlreadyExists = errors.New("registry: schema already registered")

	// ErrUnknownListNodeField is returned when a ListNode schema declares a
	// field name other than "next", "value", or "type".
	ErrUnknownListNodeField = errors.New("registry: list node schema may only declare next/value/type fields")
)
