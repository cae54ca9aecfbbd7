package graphtxn

import "github.com/dd0wney/graphlayer/pkg/cellstore"

// SchemaRef is anything convertible to a schema id: a bare id or a handle
// obtained from the registry. GetVertex/GetVertexByKey take a SchemaRef
// rather than a bare schema id (SPEC_FULL.md §3, rejecting the latent
// bare-uint32 inconsistency noted in original_source).
type SchemaRef interface {
	SchemaID() cellstore.SchemaID
}

// RawSchemaID wraps a bare schema id as a SchemaRef.
type RawSchemaID cellstore.SchemaID

func (r RawSchemaID) SchemaID() cellstore.SchemaID { return cellstore.SchemaID(r) }
