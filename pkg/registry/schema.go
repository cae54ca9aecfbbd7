package registry

import "github.com/dd0wney/graphlayer/pkg/cellstore"

// EdgeKind distinguishes directed from undirected edge schemas.
type EdgeKind int

const (
	Directed EdgeKind = iota
	Undirected
)

func (k EdgeKind) String() string {
	if k == Undirected {
		return "undirected"
	}
	return "directed"
}

// EdgeAttributes describes an Edge schema's shape.
type EdgeAttributes struct {
	EdgeType EdgeKind
	HasBody  bool
}

// Kind tags what a SchemaType represents. A SchemaType is Vertex, Edge (with
// EdgeAttributes), or Unspecified — unregistered or not-yet-propagated.
type Kind int

const (
	Unspecified Kind = iota
	Vertex
	Edge
	// ListNode is the internal plumbing schema kind used by pkg/idlist's
	// two built-in linked-list node schemas. It is never exposed as a
	// facade-visible vertex or edge type and carries none of the
	// adjacency-slot/endpoint field injection those kinds get.
	ListNode
)

// SchemaType is the minimal classification the graph layer needs about a
// schema id: whether it is a vertex schema, an edge schema (and if so its
// EdgeAttributes), or not yet known.
type SchemaType struct {
	Kind Kind
	Edge EdgeAttributes
}

// IsVertex reports whether t classifies its schema as a Vertex schema.
func (t SchemaType) IsVertex() bool { return t.Kind == Vertex }

// IsEdge reports whether t classifies its schema as an Edge schema.
func (t SchemaType) IsEdge() bool { return t.Kind == Edge }

// IsListNode reports whether t classifies its schema as a ListNode schema.
func (t SchemaType) IsListNode() bool { return t.Kind == ListNode }

// FieldDef describes one user-defined field of a schema.
type FieldDef struct {
	Name string
	Type cellstore.ValueType
}

// Schema is the full field layout of a registered schema, as returned by
// Registry.Get. Fields holds only user-defined fields; the reserved
// adjacency-slot / endpoint fields are injected by NewSchema and are not
// repeated here.
type Schema struct {
	ID     cellstore.SchemaID
	Type   SchemaType
	Fields []FieldDef

	// fieldIDs maps a field name (user-defined or an injected reserved name
	// such as "_inbound") to the FieldID it was assigned at
	// registration time, so codecs can resolve {name -> FieldID} without
	// re-deriving the allocation.
	fieldIDs map[string]cellstore.FieldID
}

// FieldID returns the FieldID assigned to the named field, user-defined or
// injected reserved, and whether that name is part of the schema.
func (s *Schema) FieldID(name string) (cellstore.FieldID, bool) {
	id, ok := s.fieldIDs[name]
	return id, ok
}

// SchemaID satisfies graphtxn.SchemaRef, letting a *Schema handle obtained
// from Get be passed anywhere a bare schema id is accepted.
func (s *Schema) SchemaID() cellstore.SchemaID { return s.ID }

// NewVertexSchema builds an unregistered Vertex schema from a field list.
// The three reserved adjacency-slot fields are implicit in every Vertex
// schema and are not part of Fields (pkg/vertex injects them at codec time).
func NewVertexSchema(fields []FieldDef) Schema {
	return Schema{Type: SchemaType{Kind: Vertex}, Fields: fields}
}

// NewEdgeSchema builds an unregistered Edge schema. Per invariant E1, a
// bodyless (Simple) schema must carry no user fields — NewSchema enforces
// this at registration time and rejects the schema otherwise.
func NewEdgeSchema(attrs EdgeAttributes, fields []FieldDef) Schema {
	return Schema{Type: SchemaType{Kind: Edge, Edge: attrs}, Fields: fields}
}

// NewListNodeSchema builds an unregistered ListNode schema. fields must use
// only the reserved names "next", "value", and (for the typed node) "type" —
// NewSchema maps these to the reserved FieldListNext/FieldListValue/
// FieldListType ids rather than allocating fresh user-field ids.
func NewListNodeSchema(fields []FieldDef) Schema {
	return Schema{Type: SchemaType{Kind: ListNode}, Fields: fields}
}
