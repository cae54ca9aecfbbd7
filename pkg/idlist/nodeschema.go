package idlist

import (
	"errors"

	"github.com/dd0wney/graphlayer/pkg/cellstore"
	"github.com/dd0wney/graphlayer/pkg/registry"
)

// Built-in schema ids for the two list-node schemas (SPEC_FULL.md §3),
// registered at fixed ids by Bootstrap so every store sees the same id
// regardless of registration order, mirroring original_source's
// GraphInner::check_base_schema fixed-id bootstrap.
const (
	PlainNodeSchemaID cellstore.SchemaID = 1
	TypedNodeSchemaID cellstore.SchemaID = 2
)

// Bootstrap registers the plain ({next, value}) and typed ({next, value,
// type}) list-node schemas if absent. Idempotent: already-registered ids are
// left untouched, so calling Bootstrap on every facade construction is safe.
func Bootstrap(reg registry.Registry) error {
	if err := ensureSchema(reg, PlainNodeSchemaID, plainNodeSchema()); err != nil {
		return err
	}
	if err := ensureSchema(reg, TypedNodeSchemaID, typedNodeSchema()); err != nil {
		return err
	}
	return nil
}

func ensureSchema(reg registry.Registry, id cellstore.SchemaID, schema registry.Schema) error {
	if _, err := reg.Get(id); err == nil {
		return nil
	} else if !errors.Is(err, registry.ErrSchemaNotFound) {
		return err
	}
	err := reg.NewSchemaWithID(id, schema)
	if err != nil && errors.Is(err, registry.ErrSchemaAlreadyExists) {
		return nil
	}
	return err
}

// plainNodeSchema describes a singly-linked-list node holding {next, value}.
func plainNodeSchema() registry.Schema {
	return registry.NewListNodeSchema([]registry.FieldDef{
		{Name: "next", Type: cellstore.TypeID},
		{Name: "value", Type: cellstore.TypeID},
	})
}

// typedNodeSchema additionally carries a {type: u32} discriminant, used by
// id-lists whose entries need their edge schema recorded alongside them
// (spec.md §3's "typed linked-list node").
func typedNodeSchema() registry.Schema {
	return registry.NewListNodeSchema([]registry.FieldDef{
		{Name: "next", Type: cellstore.TypeID},
		{Name: "value", Type: cellstore.TypeID},
		{Name: "type", Type: cellstore.TypeInt},
	})
}
