package registry

import (
	"errors"
	"testing"

	"github.com/dd0wney/graphlayer/pkg/cellstore"
)

func TestInMemoryRegistry_NewVertexSchema_InjectsSlots(t *testing.T) {
	r := NewInMemoryRegistry()

	id, err := r.NewSchema(NewVertexSchema([]FieldDef{{Name: "name", Type: cellstore.TypeString}}))
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}

	schema, err := r.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !schema.Type.IsVertex() {
		t.Fatalf("expected Vertex schema, got %v", schema.Type)
	}
	for _, slot := range []string{"_inbound", "_outbound", "_undirected"} {
		if _, ok := schema.FieldID(slot); !ok {
			t.Errorf("expected slot field %q to be injected", slot)
		}
	}
	if _, ok := schema.FieldID("name"); !ok {
		t.Error("expected user field \"name\" to survive registration")
	}
}

func TestInMemoryRegistry_SimpleEdgeRejectsFields(t *testing.T) {
	r := NewInMemoryRegistry()

	_, err := r.NewSchema(NewEdgeSchema(
		EdgeAttributes{EdgeType: Undirected, HasBody: false},
		[]FieldDef{{Name: "weight", Type: cellstore.TypeInt}},
	))
	if !errors.Is(err, ErrSimpleEdgeHasFields) {
		t.Fatalf("expected ErrSimpleEdgeHasFields, got %v", err)
	}
}

func TestInMemoryRegistry_DirectedEdgeInjectsEndpoints(t *testing.T) {
	r := NewInMemoryRegistry()

	id, err := r.NewSchema(NewEdgeSchema(
		EdgeAttributes{EdgeType: Directed, HasBody: true},
		[]FieldDef{{Name: "since", Type: cellstore.TypeInt}},
	))
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}

	schema, err := r.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, ok := schema.FieldID("_vertex_from"); !ok {
		t.Error("expected _vertex_from to be injected")
	}
	if _, ok := schema.FieldID("_vertex_to"); !ok {
		t.Error("expected _vertex_to to be injected")
	}
	if _, ok := schema.FieldID("since"); !ok {
		t.Error("expected user field \"since\" to survive registration")
	}
}

func TestInMemoryRegistry_GetUnregistered(t *testing.T) {
	r := NewInMemoryRegistry()
	if _, err := r.Get(999); !errors.Is(err, ErrSchemaNotFound) {
		t.Fatalf("expected ErrSchemaNotFound, got %v", err)
	}
	if _, err := r.SchemaType(999); !errors.Is(err, ErrSchemaNotFound) {
		t.Fatalf("expected ErrSchemaNotFound, got %v", err)
	}
}

func TestInMemoryRegistry_UnspecifiedRejected(t *testing.T) {
	r := NewInMemoryRegistry()
	_, err := r.NewSchema(Schema{})
	if !errors.Is(err, ErrSchemaTypeUnspecified) {
		t.Fatalf("expected ErrSchemaTypeUnspecified, got %v", err)
	}
}

func TestInMemoryRegistry_Callbacks(t *testing.T) {
	r := NewInMemoryRegistry()

	var insertedID cellstore.SchemaID
	var removedID cellstore.SchemaID
	r.OnInserted(func(id cellstore.SchemaID, _ SchemaType) { insertedID = id })
	r.OnRemoved(func(id cellstore.SchemaID) { removedID = id })

	id, err := r.NewSchema(NewVertexSchema(nil))
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	if insertedID != id {
		t.Errorf("expected OnInserted callback fired with id %d, got %d", id, insertedID)
	}

	if err := r.Remove(id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removedID != id {
		t.Errorf("expected OnRemoved callback fired with id %d, got %d", id, removedID)
	}
}

func TestInMemoryRegistry_Entries(t *testing.T) {
	r := NewInMemoryRegistry()
	id1, _ := r.NewSchema(NewVertexSchema(nil))
	id2, _ := r.NewSchema(NewEdgeSchema(EdgeAttributes{EdgeType: Directed, HasBody: true}, nil))

	entries := r.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	seen := map[cellstore.SchemaID]Kind{}
	for _, e := range entries {
		seen[e.ID] = e.Type.Kind
	}
	if seen[id1] != Vertex {
		t.Errorf("expected schema %d to be Vertex", id1)
	}
	if seen[id2] != Edge {
		t.Errorf("expected schema %d to be Edge", id2)
	}
}
