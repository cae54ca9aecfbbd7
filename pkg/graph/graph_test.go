package graph

import (
	"context"
	"testing"
	"time"

	"github.com/dd0wney/graphlayer/pkg/cellstore"
	"github.com/dd0wney/graphlayer/pkg/cellstore/memstore"
	"github.com/dd0wney/graphlayer/pkg/graphtxn"
	"github.com/dd0wney/graphlayer/pkg/registry"
	"github.com/dd0wney/graphlayer/pkg/vertex"
)

func newTestGraph(t *testing.T) (*Graph, cellstore.SchemaID, cellstore.SchemaID) {
	t.Helper()
	store := memstore.New()
	reg := registry.NewInMemoryRegistry()
	g, err := New(store, reg, WithRetryPolicy(RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	person, err := g.NewVertexGroup([]registry.FieldDef{{Name: "name", Type: cellstore.TypeString}})
	if err != nil {
		t.Fatalf("NewVertexGroup: %v", err)
	}
	knows, err := g.NewEdgeGroup(registry.EdgeAttributes{EdgeType: registry.Directed, HasBody: false}, nil)
	if err != nil {
		t.Fatalf("NewEdgeGroup: %v", err)
	}
	return g, person, knows
}

func TestGraph_NewVertexAndVertexBy(t *testing.T) {
	g, person, _ := newTestGraph(t)
	ctx := context.Background()

	v, err := g.NewVertex(ctx, person, map[string]cellstore.Value{"name": cellstore.StringValue("alice")})
	if err != nil {
		t.Fatalf("NewVertex: %v", err)
	}

	got, err := g.VertexBy(ctx, v.ID, graphtxn.RawSchemaID(person))
	if err != nil {
		t.Fatalf("VertexBy: %v", err)
	}
	if got.ID != v.ID {
		t.Errorf("expected id %s, got %s", v.ID, got.ID)
	}
}

func TestGraph_LinkDegreeEdges(t *testing.T) {
	g, person, knows := newTestGraph(t)
	ctx := context.Background()

	a, err := g.NewVertex(ctx, person, map[string]cellstore.Value{"name": cellstore.StringValue("a")})
	if err != nil {
		t.Fatalf("NewVertex: %v", err)
	}
	b, err := g.NewVertex(ctx, person, map[string]cellstore.Value{"name": cellstore.StringValue("b")})
	if err != nil {
		t.Fatalf("NewVertex: %v", err)
	}
	if _, err := g.Link(ctx, a.ID, knows, b.ID, nil); err != nil {
		t.Fatalf("Link: %v", err)
	}

	deg, err := g.Degree(ctx, a.ID, knows, graphtxn.Outbound)
	if err != nil {
		t.Fatalf("Degree: %v", err)
	}
	if deg != 1 {
		t.Errorf("expected degree 1, got %d", deg)
	}

	edges, err := g.Edges(ctx, a.ID, knows, graphtxn.Outbound, nil)
	if err != nil {
		t.Fatalf("Edges: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
}

func TestGraph_Neighbourhoods(t *testing.T) {
	g, person, knows := newTestGraph(t)
	ctx := context.Background()

	a, err := g.NewVertex(ctx, person, map[string]cellstore.Value{"name": cellstore.StringValue("a")})
	if err != nil {
		t.Fatalf("NewVertex: %v", err)
	}
	b, err := g.NewVertex(ctx, person, map[string]cellstore.Value{"name": cellstore.StringValue("b")})
	if err != nil {
		t.Fatalf("NewVertex: %v", err)
	}
	if _, err := g.Link(ctx, a.ID, knows, b.ID, nil); err != nil {
		t.Fatalf("Link: %v", err)
	}

	pairs, err := g.Neighbourhoods(ctx, a.ID, knows, graphtxn.Outbound, nil)
	if err != nil {
		t.Fatalf("Neighbourhoods: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 neighbourhood, got %d", len(pairs))
	}
	if pairs[0].Vertex.ID != b.ID {
		t.Errorf("expected neighbour vertex %s, got %s", b.ID, pairs[0].Vertex.ID)
	}
	schema, err := g.reg.Get(person)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	nameField, _ := schema.FieldID("name")
	name, _ := pairs[0].Vertex.Body[nameField].AsString()
	if name != "b" {
		t.Errorf("expected neighbour name 'b', got %q", name)
	}
}

func TestGraph_RemoveVertex(t *testing.T) {
	g, person, _ := newTestGraph(t)
	ctx := context.Background()

	v, err := g.NewVertex(ctx, person, map[string]cellstore.Value{"name": cellstore.StringValue("x")})
	if err != nil {
		t.Fatalf("NewVertex: %v", err)
	}
	if err := g.RemoveVertex(ctx, v.ID); err != nil {
		t.Fatalf("RemoveVertex: %v", err)
	}
	if _, err := g.VertexBy(ctx, v.ID, graphtxn.RawSchemaID(person)); err == nil {
		t.Error("expected vertex to be gone after RemoveVertex")
	}
}

func TestGraph_SetVertexBodyOnMissingKeyedVertexFails(t *testing.T) {
	g, person, _ := newTestGraph(t)
	ctx := context.Background()

	key := cellstore.StringValue("keyed-vertex")
	id := cellstore.EncodeKeyedID(person, key)

	if _, err := g.Transaction(ctx, func(gt *graphtxn.GraphTransaction) (any, error) {
		return nil, gt.SetVertexBody(id, nil)
	}); err == nil {
		t.Fatal("expected SetVertexBody on a nonexistent vertex to fail")
	}
}

func TestGraph_UpdateVertex(t *testing.T) {
	g, person, _ := newTestGraph(t)
	ctx := context.Background()

	v, err := g.NewVertex(ctx, person, map[string]cellstore.Value{"name": cellstore.StringValue("a")})
	if err != nil {
		t.Fatalf("NewVertex: %v", err)
	}

	schema, err := g.reg.Get(person)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	nameField, _ := schema.FieldID("name")

	err = g.UpdateVertex(ctx, v.ID, graphtxn.RawSchemaID(person), func(vtx *vertex.Vertex) error {
		vtx.Body[nameField] = cellstore.StringValue("renamed")
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateVertex: %v", err)
	}

	got, err := g.VertexBy(ctx, v.ID, graphtxn.RawSchemaID(person))
	if err != nil {
		t.Fatalf("VertexBy: %v", err)
	}
	name, _ := got.Body[nameField].AsString()
	if name != "renamed" {
		t.Errorf("expected name 'renamed', got %q", name)
	}
}
