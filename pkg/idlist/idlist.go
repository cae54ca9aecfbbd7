// Package idlist implements the on-store singly-linked id-list
// (SPEC_FULL.md §4.1): the per-(owner, slot, container-schema) adjacency
// list whose head lives in the owning vertex cell and whose nodes are cells
// of one of the two built-in list-node schemas. Grounded on the teacher's
// node_adjacency.go cascade-delete helpers, adapted from slice-based
// adjacency (gs.outgoingEdges[nodeID] = removeEdgeFromList(...)) to a
// linked list addressed entirely through cellstore.Txn.
//
// A vertex cell carries exactly three adjacency-slot fields (invariant V1),
// so a slot's physical list is shared by every edge schema that uses it;
// List's (owner, slot, containerSchema) address is a logical view over that
// physical chain, filtered by the typed node's "type" field. A List built
// with PlainNodeSchemaID skips filtering entirely — its chain holds entries
// of one schema only, the shape used when a vertex slot is known in advance
// to serve a single edge schema (e.g. in a test fixture).
package idlist

import (
	"github.com/dd0wney/graphlayer/pkg/cellstore"
)

// List addresses one logical id-list by the triple (owner, slot,
// containerSchema). The head of its underlying physical chain is read from
// and written to owner's body[slot] field.
type List struct {
	Owner           cellstore.Id
	Slot            cellstore.FieldID
	ContainerSchema cellstore.SchemaID
	NodeSchema      cellstore.SchemaID
}

// New addresses the id-list rooted at owner.slot for edges of schema
// containerSchema, using nodeSchema (PlainNodeSchemaID or
// TypedNodeSchemaID) for its linked-list nodes. Use TypedNodeSchemaID
// whenever other edge schemas may share the same slot.
func New(owner cellstore.Id, slot cellstore.FieldID, containerSchema, nodeSchema cellstore.SchemaID) *List {
	return &List{Owner: owner, Slot: slot, ContainerSchema: containerSchema, NodeSchema: nodeSchema}
}

func (l *List) typed() bool { return l.NodeSchema == TypedNodeSchemaID }

func (l *List) head(tx cellstore.Txn) (cellstore.Id, error) {
	owner, err := tx.Read(l.Owner)
	if err != nil {
		if cellstore.IsNotFound(err) {
			return cellstore.UnitID, newError("head", l.Owner.String(), ErrOwnerDeleted)
		}
		return cellstore.UnitID, err
	}
	val, ok := owner.Body[l.Slot]
	if !ok {
		// A freshly-injected slot always exists (invariant V1); its absence
		// here means the cell predates schema injection or is corrupt.
		return cellstore.UnitID, newError("head", l.Owner.String(), ErrMalformedNode)
	}
	id, err := val.AsID()
	if err != nil {
		return cellstore.UnitID, newError("head", l.Owner.String(), ErrMalformedNode)
	}
	return id, nil
}

func (l *List) setHead(tx cellstore.Txn, head cellstore.Id) error {
	return tx.Update(l.Owner, func(body map[cellstore.FieldID]cellstore.Value) error {
		body[l.Slot] = cellstore.IDValue(head)
		return nil
	})
}

// node is one physical chain entry: its next pointer, carried value, the
// schema it was recorded for (if typed), and whether it belongs to this
// List's logical view (l.ContainerSchema, or unconditionally for a plain
// untyped chain).
type node struct {
	next    cellstore.Id
	value   cellstore.Id
	schema  cellstore.SchemaID
	matches bool
}

func (l *List) readNode(tx cellstore.Txn, id cellstore.Id) (node, error) {
	cell, err := tx.Read(id)
	if err != nil {
		return node{}, newError("readNode", id.String(), err)
	}
	if cell.SchemaID != l.NodeSchema {
		return node{}, newError("readNode", id.String(), ErrMalformedNode)
	}
	nextVal, ok := cell.Body[cellstore.FieldListNext]
	if !ok {
		return node{}, newError("readNode", id.String(), ErrMalformedNode)
	}
	valueVal, ok := cell.Body[cellstore.FieldListValue]
	if !ok {
		return node{}, newError("readNode", id.String(), ErrMalformedNode)
	}
	next, err := nextVal.AsID()
	if err != nil {
		return node{}, newError("readNode", id.String(), ErrMalformedNode)
	}
	value, err := valueVal.AsID()
	if err != nil {
		return node{}, newError("readNode", id.String(), ErrMalformedNode)
	}

	n := node{next: next, value: value, matches: true}
	if l.typed() {
		typeVal, ok := cell.Body[cellstore.FieldListType]
		if !ok {
			return node{}, newError("readNode", id.String(), ErrMalformedNode)
		}
		schemaNum, err := typeVal.AsInt()
		if err != nil {
			return node{}, newError("readNode", id.String(), ErrMalformedNode)
		}
		n.schema = cellstore.SchemaID(schemaNum)
		n.matches = n.schema == l.ContainerSchema
	}
	return n, nil
}

// Append adds value to the list. Order relative to other entries is
// unspecified but stable for a given committed state (spec.md §4.1): the new
// node is prepended onto the physical chain, becoming its new head.
func (l *List) Append(tx cellstore.Txn, value cellstore.Id) error {
	head, err := l.head(tx)
	if err != nil {
		return err
	}
	body := map[cellstore.FieldID]cellstore.Value{
		cellstore.FieldListNext:  cellstore.IDValue(head),
		cellstore.FieldListValue: cellstore.IDValue(value),
	}
	if l.typed() {
		body[cellstore.FieldListType] = cellstore.IntValue(int64(l.ContainerSchema))
	}
	node := &cellstore.Cell{SchemaID: l.NodeSchema, Body: body}
	if _, err := tx.Write(node); err != nil {
		return err
	}
	return l.setHead(tx, node.ID)
}

// Remove removes the first occurrence of value belonging to this List's
// schema, unlinking its node and reclaiming it. Succeeds silently if value
// is not present. Entries of other schemas sharing the physical chain are
// left untouched.
func (l *List) Remove(tx cellstore.Txn, value cellstore.Id) error {
	head, err := l.head(tx)
	if err != nil {
		return err
	}

	var prev cellstore.Id = cellstore.UnitID
	cur := head
	for !cellstore.IsUnit(cur) {
		n, err := l.readNode(tx, cur)
		if err != nil {
			return err
		}
		if n.matches && n.value == value {
			if cellstore.IsUnit(prev) {
				if err := l.setHead(tx, n.next); err != nil {
					return err
				}
			} else {
				if err := l.relink(tx, prev, n.next); err != nil {
					return err
				}
			}
			return tx.Remove(cur)
		}
		prev = cur
		cur = n.next
	}
	return nil
}

func (l *List) relink(tx cellstore.Txn, nodeID, next cellstore.Id) error {
	return tx.Update(nodeID, func(body map[cellstore.FieldID]cellstore.Value) error {
		body[cellstore.FieldListNext] = cellstore.IDValue(next)
		return nil
	})
}

// Iter returns the list's values most recently appended first (Append
// prepends at the head), as a materialized
// slice (spec.md's "lazy sequence" is represented as a slice here since the
// list only ever lives inside a single bounded Store transaction).
func (l *List) Iter(tx cellstore.Txn) ([]cellstore.Id, error) {
	head, err := l.head(tx)
	if err != nil {
		return nil, err
	}
	var values []cellstore.Id
	cur := head
	for !cellstore.IsUnit(cur) {
		n, err := l.readNode(tx, cur)
		if err != nil {
			return nil, err
		}
		if n.matches {
			values = append(values, n.value)
		}
		cur = n.next
	}
	return values, nil
}

// Count returns the number of entries without materializing their values.
func (l *List) Count(tx cellstore.Txn) (int, error) {
	head, err := l.head(tx)
	if err != nil {
		return 0, err
	}
	count := 0
	cur := head
	for !cellstore.IsUnit(cur) {
		n, err := l.readNode(tx, cur)
		if err != nil {
			return 0, err
		}
		if n.matches {
			count++
		}
		cur = n.next
	}
	return count, nil
}

// IsEmpty reports whether this List's logical view has no entries.
func (l *List) IsEmpty(tx cellstore.Txn) (bool, error) {
	count, err := l.Count(tx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// SchemasPresent walks the physical chain rooted at owner.slot and returns
// the distinct schema ids recorded on it — used by RemoveVertex to discover
// which edge schemas must be cascaded over without the caller naming them
// up front (SPEC_FULL.md §4.5's resolved full-cascade policy). Only
// meaningful for a typed chain; a plain chain has no type field to read, so
// a non-empty plain chain yields the single schema id 0.
func SchemasPresent(tx cellstore.Txn, owner cellstore.Id, slot cellstore.FieldID, nodeSchema cellstore.SchemaID) ([]cellstore.SchemaID, error) {
	probe := &List{Owner: owner, Slot: slot, NodeSchema: nodeSchema}
	head, err := probe.head(tx)
	if err != nil {
		return nil, err
	}

	seen := make(map[cellstore.SchemaID]bool)
	var schemas []cellstore.SchemaID
	cur := head
	for !cellstore.IsUnit(cur) {
		cell, err := tx.Read(cur)
		if err != nil {
			return nil, newError("SchemasPresent", cur.String(), err)
		}
		if cell.SchemaID != nodeSchema {
			return nil, newError("SchemasPresent", cur.String(), ErrMalformedNode)
		}
		var schemaID cellstore.SchemaID
		if nodeSchema == TypedNodeSchemaID {
			typeVal, ok := cell.Body[cellstore.FieldListType]
			if !ok {
				return nil, newError("SchemasPresent", cur.String(), ErrMalformedNode)
			}
			n, err := typeVal.AsInt()
			if err != nil {
				return nil, newError("SchemasPresent", cur.String(), ErrMalformedNode)
			}
			schemaID = cellstore.SchemaID(n)
		}
		if !seen[schemaID] {
			seen[schemaID] = true
			schemas = append(schemas, schemaID)
		}
		nextVal, ok := cell.Body[cellstore.FieldListNext]
		if !ok {
			return nil, newError("SchemasPresent", cur.String(), ErrMalformedNode)
		}
		next, err := nextVal.AsID()
		if err != nil {
			return nil, newError("SchemasPresent", cur.String(), ErrMalformedNode)
		}
		cur = next
	}
	return schemas, nil
}
