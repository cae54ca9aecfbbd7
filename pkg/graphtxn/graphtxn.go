package graphtxn

import (
	"fmt"

	"github.com/dd0wney/graphlayer/pkg/cellstore"
	"github.com/dd0wney/graphlayer/pkg/edge"
	"github.com/dd0wney/graphlayer/pkg/filterexpr"
	"github.com/dd0wney/graphlayer/pkg/idlist"
	"github.com/dd0wney/graphlayer/pkg/registry"
	"github.com/dd0wney/graphlayer/pkg/vertex"
)

// GraphTransaction wraps a single externally-provided cellstore.Txn with the
// graph-level operations of SPEC_FULL.md §4.5. It never opens a nested
// transaction; every method either fully applies its effect against tx or
// returns an error, leaving the outer commit/abort decision to the caller
// (pkg/graph's facade, for non-transactional callers).
type GraphTransaction struct {
	reg registry.Registry
	tx  cellstore.Txn
}

// New wraps tx with the graph operations backed by reg.
func New(reg registry.Registry, tx cellstore.Txn) *GraphTransaction {
	return &GraphTransaction{reg: reg, tx: tx}
}

// NewVertex writes one new vertex cell of schema with its three adjacency
// slots set to UnitID (V1), and returns the constructed vertex including its
// store-assigned id.
func (g *GraphTransaction) NewVertex(schema cellstore.SchemaID, data map[string]cellstore.Value) (*vertex.Vertex, error) {
	cell, err := vertex.VertexToCell(g.reg, schema, data)
	if err != nil {
		return nil, &NewVertexError{Schema: schema, Cause: classifyVertexErr(err)}
	}
	if _, err := g.tx.Write(cell); err != nil {
		return nil, &NewVertexError{Schema: schema, Cause: err}
	}
	return vertex.CellToVertex(cell), nil
}

func classifyVertexErr(err error) error {
	switch err {
	case vertex.ErrSchemaNotVertex:
		return ErrSchemaNotVertex
	case vertex.ErrDataNotMap:
		return ErrDataNotMap
	case vertex.ErrCannotGenerateCellByData:
		return ErrCannotGenerateCellByData
	default:
		return err
	}
}

// GetVertex reads the vertex cell at id. If schema is supplied (non-nil) the
// cell's recorded schema id must match it, or ErrSchemaNotVertex-flavoured
// WrongSchema-style mismatch is surfaced via ReadVertexError.
func (g *GraphTransaction) GetVertex(id cellstore.Id, schema SchemaRef) (*vertex.Vertex, error) {
	cell, err := g.tx.Read(id)
	if err != nil {
		if cellstore.IsNotFound(err) {
			return nil, &ReadVertexError{Vertex: id, Cause: ErrVertexNotFound}
		}
		return nil, &ReadVertexError{Vertex: id, Cause: err}
	}
	if schema != nil && cell.SchemaID != schema.SchemaID() {
		return nil, &ReadVertexError{Vertex: id, Cause: ErrSchemaNotVertex}
	}
	return vertex.CellToVertex(cell), nil
}

// GetVertexByKey resolves the deterministic id for (schema, key) via
// cellstore.EncodeKeyedID and reads it, supplementing spec.md §6's exposed
// facade surface per SPEC_FULL.md §3's key-addressed lookup addition.
func (g *GraphTransaction) GetVertexByKey(schema cellstore.SchemaID, key cellstore.Value) (*vertex.Vertex, error) {
	id := cellstore.EncodeKeyedID(schema, key)
	return g.GetVertex(id, RawSchemaID(schema))
}

// SetVertexBody merges body into the stored fields of vertex id, leaving
// its adjacency slots and any field not named in body untouched. Used by
// pkg/graph's UpdateVertex/UpdateVertexByKey to write back a caller's
// in-place edit of a vertex read via GetVertex.
func (g *GraphTransaction) SetVertexBody(id cellstore.Id, body map[cellstore.FieldID]cellstore.Value) error {
	err := g.tx.Update(id, func(current map[cellstore.FieldID]cellstore.Value) error {
		for field, value := range body {
			current[field] = value
		}
		return nil
	})
	if err != nil {
		if cellstore.IsNotFound(err) {
			return &ReadVertexError{Vertex: id, Cause: ErrVertexNotFound}
		}
		return &ReadVertexError{Vertex: id, Cause: err}
	}
	return nil
}

// RemoveVertex drains every adjacency list recorded against v across every
// edge schema present in any of its three slots (the resolved full-cascade
// policy, SPEC_FULL.md §9), restoring referential symmetry (A1-A3) before
// deleting v's own cell.
func (g *GraphTransaction) RemoveVertex(v cellstore.Id) error {
	if _, err := g.tx.Read(v); err != nil {
		if cellstore.IsNotFound(err) {
			return &ReadVertexError{Vertex: v, Cause: ErrVertexNotFound}
		}
		return &ReadVertexError{Vertex: v, Cause: err}
	}

	for _, slot := range []cellstore.FieldID{cellstore.FieldOutbound, cellstore.FieldInbound, cellstore.FieldUndirected} {
		schemas, err := idlist.SchemasPresent(g.tx, v, slot, idlist.TypedNodeSchemaID)
		if err != nil {
			return &NeighbourhoodError{Vertex: v, Cause: err}
		}
		for _, schema := range schemas {
			dir := directionOf(slot)
			if err := g.removeVertexEdgesOfSchemaInDirection(v, schema, dir); err != nil {
				return err
			}
		}
	}

	return g.tx.Remove(v)
}

func directionOf(slot cellstore.FieldID) Direction {
	switch slot {
	case cellstore.FieldOutbound:
		return Outbound
	case cellstore.FieldInbound:
		return Inbound
	default:
		return UndirectedDir
	}
}

// RemoveVertexEdgesOfSchema drains v's adjacency under schema across all
// three directions it could appear in, restoring symmetry at each opposite
// endpoint. Exposed standalone alongside the full-cascade RemoveVertex
// (SPEC_FULL.md §9).
func (g *GraphTransaction) RemoveVertexEdgesOfSchema(v cellstore.Id, schema cellstore.SchemaID) error {
	for _, dir := range []Direction{Outbound, Inbound, UndirectedDir} {
		if err := g.removeVertexEdgesOfSchemaInDirection(v, schema, dir); err != nil {
			return err
		}
	}
	return nil
}

func (g *GraphTransaction) removeVertexEdgesOfSchemaInDirection(v cellstore.Id, schema cellstore.SchemaID, dir Direction) error {
	list := idlist.New(v, dir.slot(), schema, idlist.TypedNodeSchemaID)
	entries, err := list.Iter(g.tx)
	if err != nil {
		return &NeighbourhoodError{Vertex: v, Schema: schema, Cause: err}
	}

	schemaType, err := g.reg.SchemaType(schema)
	if err != nil {
		return &SchemaError{Schema: schema, Cause: err}
	}

	for _, entryID := range entries {
		if err := g.unlinkEntry(v, dir, schema, schemaType, entryID); err != nil {
			return err
		}
	}
	return nil
}

// unlinkEntry removes one adjacency entry owned by v in direction dir under
// schema, restoring symmetry at the opposite endpoint and (for edges with a
// body) deleting the edge cell.
func (g *GraphTransaction) unlinkEntry(v cellstore.Id, dir Direction, schema cellstore.SchemaID, schemaType registry.SchemaType, entryID cellstore.Id) error {
	e, err := edge.FromID(v, dir.slot(), schema, g.reg, g.tx, entryID)
	if err != nil {
		return &EdgeError{Edge: entryID, Cause: err}
	}
	opposite, ok := e.OppositeOf(v)
	if !ok {
		return &NeighbourhoodError{Vertex: v, Schema: schema, Cause: ErrCannotFindOppositeID}
	}

	// Remove v's own entry first.
	selfList := idlist.New(v, dir.slot(), schema, idlist.TypedNodeSchemaID)
	if err := selfList.Remove(g.tx, entryID); err != nil {
		return &EdgeError{Edge: entryID, Cause: err}
	}

	if opposite != v || !selfLoopCountsOnce(dir) {
		oppList := idlist.New(opposite, dir.opposite().slot(), schema, idlist.TypedNodeSchemaID)
		oppositeEntryID := entryID
		if !schemaType.Edge.HasBody {
			oppositeEntryID = v
		}
		if err := oppList.Remove(g.tx, oppositeEntryID); err != nil {
			return &EdgeError{Edge: entryID, Cause: err}
		}
	}

	if schemaType.Edge.HasBody {
		if err := g.tx.Remove(entryID); err != nil {
			return &EdgeError{Edge: entryID, Cause: err}
		}
	}
	return nil
}

// selfLoopCountsOnce reports whether a self-loop in this direction records
// only one adjacency entry (the resolved count-once policy for Undirected
// self-loops, SPEC_FULL.md §9) — so unlinking it must not attempt a second,
// nonexistent removal at the "opposite" (identical) endpoint.
func selfLoopCountsOnce(dir Direction) bool {
	return dir == UndirectedDir
}

// Link creates an edge of schema from `from` to `to` with the given body
// (nil for a bodyless/Simple schema), recording adjacency at both endpoints.
func (g *GraphTransaction) Link(from cellstore.Id, schema cellstore.SchemaID, to cellstore.Id, body map[string]cellstore.Value) (edge.Edge, error) {
	schemaType, err := g.reg.SchemaType(schema)
	if err != nil {
		return nil, &LinkVerticesError{From: from, To: to, Schema: schema, Cause: ErrEdgeSchemaNotFound}
	}
	if !schemaType.IsEdge() {
		return nil, &LinkVerticesError{From: from, To: to, Schema: schema, Cause: ErrSchemaNotEdge}
	}
	if schemaType.Edge.HasBody && body == nil {
		return nil, &LinkVerticesError{From: from, To: to, Schema: schema, Cause: ErrBodyRequired}
	}
	if !schemaType.Edge.HasBody && body != nil {
		return nil, &LinkVerticesError{From: from, To: to, Schema: schema, Cause: ErrBodyShouldNotExist}
	}

	var fieldBody map[cellstore.FieldID]cellstore.Value
	if schemaType.Edge.HasBody {
		schemaDef, err := g.reg.Get(schema)
		if err != nil {
			return nil, &LinkVerticesError{From: from, To: to, Schema: schema, Cause: err}
		}
		fieldBody = make(map[cellstore.FieldID]cellstore.Value, len(body))
		for name, val := range body {
			fieldID, ok := schemaDef.FieldID(name)
			if !ok {
				return nil, &LinkVerticesError{From: from, To: to, Schema: schema, Cause: ErrCannotGenerateCellByData}
			}
			fieldBody[fieldID] = val
		}
	}

	var entryAtFrom, entryAtTo cellstore.Id
	if schemaType.Edge.HasBody {
		cell := edge.ToCell(schema, schemaType.Edge.EdgeType, from, to, fieldBody)
		if _, err := g.tx.Write(cell); err != nil {
			return nil, &LinkVerticesError{From: from, To: to, Schema: schema, Cause: err}
		}
		entryAtFrom, entryAtTo = cell.ID, cell.ID
	} else {
		entryAtFrom, entryAtTo = to, from
	}

	outDir, inDir := directionsFor(schemaType.Edge.EdgeType)
	fromList := idlist.New(from, outDir.slot(), schema, idlist.TypedNodeSchemaID)
	if err := fromList.Append(g.tx, entryAtFrom); err != nil {
		return nil, &LinkVerticesError{From: from, To: to, Schema: schema, Cause: err}
	}

	if from != to || outDir != UndirectedDir {
		toList := idlist.New(to, inDir.slot(), schema, idlist.TypedNodeSchemaID)
		if err := toList.Append(g.tx, entryAtTo); err != nil {
			return nil, &LinkVerticesError{From: from, To: to, Schema: schema, Cause: err}
		}
	}

	entryID := entryAtFrom
	if schemaType.Edge.HasBody {
		return edge.FromID(from, outDir.slot(), schema, g.reg, g.tx, entryID)
	}
	return edge.FromID(from, outDir.slot(), schema, g.reg, g.tx, to)
}

// directionsFor returns the (outgoing-side, incoming-side) directions an
// edge of the given kind is filed under at its two endpoints: Outbound/
// Inbound for Directed, Undirected/Undirected for Undirected.
func directionsFor(kind registry.EdgeKind) (out, in Direction) {
	if kind == registry.Undirected {
		return UndirectedDir, UndirectedDir
	}
	return Outbound, Inbound
}

// Degree returns the number of edges of schema incident to v in direction
// dir — equal by construction to len(Edges(v, schema, dir, nil)).
func (g *GraphTransaction) Degree(v cellstore.Id, schema cellstore.SchemaID, dir Direction) (int, error) {
	list := idlist.New(v, dir.slot(), schema, idlist.TypedNodeSchemaID)
	count, err := list.Count(g.tx)
	if err != nil {
		return 0, &NeighbourhoodError{Vertex: v, Schema: schema, Cause: err}
	}
	return count, nil
}

// Edges returns every edge of schema incident to v in direction dir
// matching filter (nil accepts all — filter neutrality, property 6).
func (g *GraphTransaction) Edges(v cellstore.Id, schema cellstore.SchemaID, dir Direction, filter filterexpr.Tester) ([]edge.Edge, error) {
	list := idlist.New(v, dir.slot(), schema, idlist.TypedNodeSchemaID)
	entries, err := list.Iter(g.tx)
	if err != nil {
		return nil, &NeighbourhoodError{Vertex: v, Schema: schema, Cause: err}
	}

	var schemaDef *registry.Schema
	if filter != nil {
		schemaDef, err = g.reg.Get(schema)
		if err != nil {
			return nil, &SchemaError{Schema: schema, Cause: err}
		}
	}

	edges := make([]edge.Edge, 0, len(entries))
	for _, entryID := range entries {
		e, err := edge.FromID(v, dir.slot(), schema, g.reg, g.tx, entryID)
		if err != nil {
			return nil, &EdgeError{Edge: entryID, Cause: err}
		}
		if filter != nil {
			ok, err := filter.EvalEdge(fieldsFromBody(schemaDef, e.Body()))
			if err != nil {
				return nil, &NeighbourhoodError{Vertex: v, Schema: schema, Cause: fmt.Errorf("%w: %v", ErrFilterEval, err)}
			}
			if !ok {
				continue
			}
		}
		edges = append(edges, e)
	}
	return edges, nil
}

// Neighbourhood pairs a neighbouring vertex with the edge connecting it.
type Neighbourhood struct {
	Vertex *vertex.Vertex
	Edge   edge.Edge
}

// Neighbourhoods returns the (vertex, edge) pairs at the opposite end of
// every edge of schema incident to v in direction dir matching filter. Per
// spec.md §4.5.5, for each edge the opposite vertex cell is read
// unconditionally (not only when filter is set), and an absent opposite
// vertex cell is ErrVertexNotFound rather than silently skipped.
func (g *GraphTransaction) Neighbourhoods(v cellstore.Id, schema cellstore.SchemaID, dir Direction, filter filterexpr.Tester) ([]Neighbourhood, error) {
	list := idlist.New(v, dir.slot(), schema, idlist.TypedNodeSchemaID)
	entries, err := list.Iter(g.tx)
	if err != nil {
		return nil, &NeighbourhoodError{Vertex: v, Schema: schema, Cause: err}
	}

	edgeSchemaDef, err := g.reg.Get(schema)
	if err != nil {
		return nil, &SchemaError{Schema: schema, Cause: err}
	}

	out := make([]Neighbourhood, 0, len(entries))
	for _, entryID := range entries {
		e, err := edge.FromID(v, dir.slot(), schema, g.reg, g.tx, entryID)
		if err != nil {
			return nil, &EdgeError{Edge: entryID, Cause: err}
		}
		opposite, ok := e.OppositeOf(v)
		if !ok {
			return nil, &NeighbourhoodError{Vertex: v, Schema: schema, Cause: ErrCannotFindOppositeID}
		}

		oppCell, err := g.tx.Read(opposite)
		if err != nil {
			if cellstore.IsNotFound(err) {
				return nil, &NeighbourhoodError{Vertex: opposite, Schema: schema, Cause: ErrVertexNotFound}
			}
			return nil, &NeighbourhoodError{Vertex: opposite, Schema: schema, Cause: err}
		}
		oppVertex := vertex.CellToVertex(oppCell)

		if filter != nil {
			oppSchemaDef, err := g.reg.Get(oppCell.SchemaID)
			if err != nil {
				return nil, &SchemaError{Schema: oppCell.SchemaID, Cause: err}
			}
			matched, err := filter.EvalVertexEdge(fieldsFromBody(oppSchemaDef, oppCell.Body), fieldsFromBody(edgeSchemaDef, e.Body()))
			if err != nil {
				return nil, &NeighbourhoodError{Vertex: v, Schema: schema, Cause: fmt.Errorf("%w: %v", ErrFilterEval, err)}
			}
			if !matched {
				continue
			}
		}
		out = append(out, Neighbourhood{Vertex: oppVertex, Edge: e})
	}
	return out, nil
}

// fieldsFromBody resolves a cell body's FieldID keys back to the schema's
// user-defined field names, producing the flat name -> native-value map
// filterexpr evaluates expressions against.
func fieldsFromBody(schema *registry.Schema, body map[cellstore.FieldID]cellstore.Value) filterexpr.Fields {
	fields := make(filterexpr.Fields, len(schema.Fields))
	for _, f := range schema.Fields {
		fieldID, ok := schema.FieldID(f.Name)
		if !ok {
			continue
		}
		if val, ok := body[fieldID]; ok {
			fields[f.Name] = val.Native()
		}
	}
	return fields
}
