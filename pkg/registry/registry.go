// Package registry is the graph layer's contract with the schema registry —
// a service, external to this module, that holds the replicated
// schema-id -> SchemaType state machine (SPEC_FULL.md §4.2). Registry is the
// consumed surface; InMemoryRegistry is a reference implementation used by
// tests and the demo binary, grounded on the teacher's cluster membership
// tracker: a mutex-guarded map kept in sync by insert/remove callbacks
// standing in for replicated state-machine updates.
package registry

import "github.com/dd0wney/graphlayer/pkg/cellstore"

// InsertCallback is invoked after a schema is inserted into the registry,
// mirroring the propagation hook a real replicated registry would call once
// a schema-creation command has been applied to the state machine.
type InsertCallback func(id cellstore.SchemaID, t SchemaType)

// RemoveCallback is invoked after a schema is removed from the registry.
type RemoveCallback func(id cellstore.SchemaID)

// Entry pairs a registered schema id with its type, as returned by Entries.
type Entry struct {
	ID   cellstore.SchemaID
	Type SchemaType
}

// Registry is the graph layer's view of the schema registry. Get and
// SchemaType are consumed on every graph operation that touches a schema id;
// NewSchema is consumed once per distinct schema in an application's
// lifetime. Insert/Remove/Entries/OnInserted/OnRemoved model the
// replication-facing surface a real registry implementation exposes to keep
// its local warm cache in sync with the external state machine.
type Registry interface {
	// Get returns the full field layout of schema id, or ErrSchemaNotFound.
	Get(id cellstore.SchemaID) (*Schema, error)

	// SchemaType is a local, non-blocking lookup of a schema's
	// classification — the warm-cache read path every graph operation uses.
	SchemaType(id cellstore.SchemaID) (SchemaType, error)

	// NewSchema registers schema, injecting reserved fields (adjacency
	// slots for Vertex, endpoint fields for Edge) and validating invariant
	// E1 for bodyless edges, and returns the assigned schema id.
	NewSchema(schema Schema) (cellstore.SchemaID, error)

	// NewSchemaWithID registers schema under a caller-chosen id, used by
	// bootstrap to install the built-in id-list node schemas at fixed ids.
	NewSchemaWithID(id cellstore.SchemaID, schema Schema) error

	// Insert records a schema-id -> SchemaType mapping as propagated from
	// the replicated state machine, without going through NewSchema's field
	// injection (the schema is assumed already fully formed).
	Insert(id cellstore.SchemaID, schema Schema) error

	// Remove evicts a schema-id -> SchemaType mapping.
	Remove(id cellstore.SchemaID) error

	// Entries lists every currently-registered (id, type) pair.
	Entries() []Entry

	// OnInserted registers cb to be called whenever a schema is inserted.
	OnInserted(cb InsertCallback)

	// OnRemoved registers cb to be called whenever a schema is removed.
	OnRemoved(cb RemoveCallback)
}

// injectVertexFields assigns reserved field ids to the three adjacency
// slots of a Vertex schema and fills schema.fieldIDs with them plus the
// caller's user-defined fields, each allocated a fresh id starting at the
// reserved/user-field boundary.
func injectVertexFields(schema *Schema) {
	schema.fieldIDs = map[string]cellstore.FieldID{
		"_inbound":    cellstore.FieldInbound,
		"_outbound":   cellstore.FieldOutbound,
		"_undirected": cellstore.FieldUndirected,
	}
	assignUserFieldIDs(schema)
}

// injectEdgeFields assigns reserved endpoint field ids according to the
// edge's EdgeType: directed edges get _vertex_from/_vertex_to, undirected
// edges (with a body) get _vertex_a/_vertex_b. Simple (bodyless) edges carry
// neither a cell nor endpoint fields — their endpoints live only in
// adjacency, never in a cell body.
func injectEdgeFields(schema *Schema) {
	schema.fieldIDs = make(map[string]cellstore.FieldID, 2+len(schema.Fields))
	if !schema.Type.Edge.HasBody {
		return
	}
	switch schema.Type.Edge.EdgeType {
	case Directed:
		schema.fieldIDs["_vertex_from"] = cellstore.FieldVertexFrom
		schema.fieldIDs["_vertex_to"] = cellstore.FieldVertexTo
	case Undirected:
		schema.fieldIDs["_vertex_a"] = cellstore.FieldVertexA
		schema.fieldIDs["_vertex_b"] = cellstore.FieldVertexB
	}
	assignUserFieldIDs(schema)
}

// reservedListNodeFields maps the fixed field names a ListNode schema may
// use to their reserved FieldIDs (cellstore.FieldListNext and friends),
// rather than allocating fresh user-field ids the way Vertex/Edge schemas
// do — list nodes are internal plumbing cells, not user-schema entities.
var reservedListNodeFields = map[string]cellstore.FieldID{
	"next":  cellstore.FieldListNext,
	"value": cellstore.FieldListValue,
	"type":  cellstore.FieldListType,
}

func injectListNodeFields(schema *Schema) error {
	schema.fieldIDs = make(map[string]cellstore.FieldID, len(schema.Fields))
	for _, f := range schema.Fields {
		id, ok := reservedListNodeFields[f.Name]
		if !ok {
			return ErrUnknownListNodeField
		}
		schema.fieldIDs[f.Name] = id
	}
	return nil
}

func assignUserFieldIDs(schema *Schema) {
	used := make(map[cellstore.FieldID]bool, len(schema.fieldIDs))
	for _, id := range schema.fieldIDs {
		used[id] = true
	}
	next := cellstore.FieldID(1000)
	for _, f := range schema.Fields {
		for used[next] {
			next++
		}
		schema.fieldIDs[f.Name] = next
		used[next] = true
		next++
	}
}
