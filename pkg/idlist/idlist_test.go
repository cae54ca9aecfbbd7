package idlist

import (
	"context"
	"testing"

	"github.com/dd0wney/graphlayer/pkg/cellstore"
	"github.com/dd0wney/graphlayer/pkg/cellstore/memstore"
	"github.com/dd0wney/graphlayer/pkg/registry"
)

func newTestStore(t *testing.T) (*memstore.Store, registry.Registry, cellstore.Id) {
	t.Helper()
	store := memstore.New()
	reg := registry.NewInMemoryRegistry()
	if err := Bootstrap(reg); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	vertexSchemaID, err := reg.NewSchema(registry.NewVertexSchema(nil))
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}

	var ownerID cellstore.Id
	_, err = store.Transaction(context.Background(), func(tx cellstore.Txn) (any, error) {
		cell := &cellstore.Cell{
			SchemaID: vertexSchemaID,
			Body: map[cellstore.FieldID]cellstore.Value{
				cellstore.FieldInbound:    cellstore.IDValue(cellstore.UnitID),
				cellstore.FieldOutbound:   cellstore.IDValue(cellstore.UnitID),
				cellstore.FieldUndirected: cellstore.IDValue(cellstore.UnitID),
			},
		}
		if _, err := tx.Write(cell); err != nil {
			return nil, err
		}
		ownerID = cell.ID
		return nil, nil
	})
	if err != nil {
		t.Fatalf("create owner vertex: %v", err)
	}
	return store, reg, ownerID
}

func TestList_AppendIterCount(t *testing.T) {
	store, _, owner := newTestStore(t)

	values := []cellstore.Id{cellstore.NewID(), cellstore.NewID(), cellstore.NewID()}
	_, err := store.Transaction(context.Background(), func(tx cellstore.Txn) (any, error) {
		list := New(owner, cellstore.FieldOutbound, 42, PlainNodeSchemaID)
		for _, v := range values {
			if err := list.Append(tx, v); err != nil {
				return nil, err
			}
		}
		count, err := list.Count(tx)
		if err != nil {
			return nil, err
		}
		if count != len(values) {
			t.Errorf("expected count %d, got %d", len(values), count)
		}
		got, err := list.Iter(tx)
		if err != nil {
			return nil, err
		}
		if len(got) != len(values) {
			t.Errorf("expected %d values from Iter, got %d", len(values), len(got))
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
}

func TestList_RemoveMiddle(t *testing.T) {
	store, _, owner := newTestStore(t)

	a, b, c := cellstore.NewID(), cellstore.NewID(), cellstore.NewID()
	_, err := store.Transaction(context.Background(), func(tx cellstore.Txn) (any, error) {
		list := New(owner, cellstore.FieldOutbound, 42, PlainNodeSchemaID)
		for _, v := range []cellstore.Id{a, b, c} {
			if err := list.Append(tx, v); err != nil {
				return nil, err
			}
		}
		if err := list.Remove(tx, b); err != nil {
			return nil, err
		}
		got, err := list.Iter(tx)
		if err != nil {
			return nil, err
		}
		for _, v := range got {
			if v == b {
				t.Error("expected b to be removed from the list")
			}
		}
		if len(got) != 2 {
			t.Errorf("expected 2 entries after removal, got %d", len(got))
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
}

func TestList_RemoveAbsentIsNoop(t *testing.T) {
	store, _, owner := newTestStore(t)

	_, err := store.Transaction(context.Background(), func(tx cellstore.Txn) (any, error) {
		list := New(owner, cellstore.FieldOutbound, 42, PlainNodeSchemaID)
		if err := list.Append(tx, cellstore.NewID()); err != nil {
			return nil, err
		}
		if err := list.Remove(tx, cellstore.NewID()); err != nil {
			t.Errorf("expected no error removing an absent id, got %v", err)
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
}

func TestList_EmptyByDefault(t *testing.T) {
	store, _, owner := newTestStore(t)

	_, err := store.Transaction(context.Background(), func(tx cellstore.Txn) (any, error) {
		list := New(owner, cellstore.FieldOutbound, 42, PlainNodeSchemaID)
		empty, err := list.IsEmpty(tx)
		if err != nil {
			return nil, err
		}
		if !empty {
			t.Error("expected a freshly-created vertex's list to be empty")
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
}
