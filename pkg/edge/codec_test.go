package edge

import (
	"context"
	"testing"

	"github.com/dd0wney/graphlayer/pkg/cellstore"
	"github.com/dd0wney/graphlayer/pkg/cellstore/memstore"
	"github.com/dd0wney/graphlayer/pkg/registry"
)

func TestFromID_Directed(t *testing.T) {
	reg := registry.NewInMemoryRegistry()
	schemaID, err := reg.NewSchema(registry.NewEdgeSchema(
		registry.EdgeAttributes{EdgeType: registry.Directed, HasBody: true},
		[]registry.FieldDef{{Name: "since", Type: cellstore.TypeInt}},
	))
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	schema, err := reg.Get(schemaID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	sinceField, _ := schema.FieldID("since")

	from, to := cellstore.NewID(), cellstore.NewID()
	cell := ToCell(schemaID, registry.Directed, from, to, map[cellstore.FieldID]cellstore.Value{
		sinceField: cellstore.IntValue(2020),
	})

	store := memstore.New()
	var edgeID cellstore.Id
	_, err = store.Transaction(context.Background(), func(tx cellstore.Txn) (any, error) {
		if _, err := tx.Write(cell); err != nil {
			return nil, err
		}
		edgeID = cell.ID

		e, err := FromID(from, cellstore.FieldOutbound, schemaID, reg, tx, edgeID)
		if err != nil {
			return nil, err
		}
		a, b := e.Endpoints()
		if a != from || b != to {
			t.Errorf("expected endpoints (%v, %v), got (%v, %v)", from, to, a, b)
		}
		opp, ok := e.OppositeOf(from)
		if !ok || opp != to {
			t.Errorf("expected OppositeOf(from) == to, got %v (ok=%v)", opp, ok)
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
}

func TestFromID_SimpleHasNoCell(t *testing.T) {
	reg := registry.NewInMemoryRegistry()
	schemaID, err := reg.NewSchema(registry.NewEdgeSchema(
		registry.EdgeAttributes{EdgeType: registry.Undirected, HasBody: false}, nil,
	))
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}

	a, b := cellstore.NewID(), cellstore.NewID()
	store := memstore.New()
	_, err = store.Transaction(context.Background(), func(tx cellstore.Txn) (any, error) {
		e, err := FromID(a, cellstore.FieldUndirected, schemaID, reg, tx, b)
		if err != nil {
			return nil, err
		}
		if len(e.Body()) != 0 {
			t.Error("expected a Simple edge to have an empty body")
		}
		opp, ok := e.OppositeOf(a)
		if !ok || opp != b {
			t.Errorf("expected OppositeOf(a) == b, got %v (ok=%v)", opp, ok)
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
}

func TestFromID_UndirectedSelfLoop(t *testing.T) {
	reg := registry.NewInMemoryRegistry()
	schemaID, err := reg.NewSchema(registry.NewEdgeSchema(
		registry.EdgeAttributes{EdgeType: registry.Undirected, HasBody: true},
		[]registry.FieldDef{{Name: "w", Type: cellstore.TypeInt}},
	))
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}

	a := cellstore.NewID()
	cell := ToCell(schemaID, registry.Undirected, a, a, nil)

	store := memstore.New()
	_, err = store.Transaction(context.Background(), func(tx cellstore.Txn) (any, error) {
		if _, err := tx.Write(cell); err != nil {
			return nil, err
		}
		e, err := FromID(a, cellstore.FieldUndirected, schemaID, reg, tx, cell.ID)
		if err != nil {
			return nil, err
		}
		opp, ok := e.OppositeOf(a)
		if !ok || opp != a {
			t.Errorf("expected a self-loop's OppositeOf(a) == a, got %v (ok=%v)", opp, ok)
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
}
