package registry

import (
	"sync"

	"github.com/dd0wney/graphlayer/pkg/cellstore"
)

// InMemoryRegistry is a process-local Registry, grounded on the teacher's
// ClusterMembership: a sync.RWMutex-guarded map, with insert/remove
// propagated to registered callbacks the way membership changes propagate
// to the teacher's cluster observers. Safe for concurrent use.
type InMemoryRegistry struct {
	mu      sync.RWMutex
	schemas map[cellstore.SchemaID]*Schema
	nextID  cellstore.SchemaID

	onInserted []InsertCallback
	onRemoved  []RemoveCallback
}

// NewInMemoryRegistry creates an empty registry. Schema ids are assigned
// starting at 1; id 0 is never issued so it can be used as a "no schema"
// sentinel by callers that need one.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		schemas: make(map[cellstore.SchemaID]*Schema),
		nextID:  1,
	}
}

func (r *InMemoryRegistry) Get(id cellstore.SchemaID) (*Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.schemas[id]
	if !ok {
		return nil, ErrSchemaNotFound
	}
	clone := *schema
	return &clone, nil
}

func (r *InMemoryRegistry) SchemaType(id cellstore.SchemaID) (SchemaType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.schemas[id]
	if !ok {
		return SchemaType{}, ErrSchemaNotFound
	}
	return schema.Type, nil
}

func (r *InMemoryRegistry) NewSchema(schema Schema) (cellstore.SchemaID, error) {
	if err := validateAndInject(&schema); err != nil {
		return 0, err
	}

	r.mu.Lock()
	id := r.nextID
	r.nextID++
	schema.ID = id
	r.schemas[id] = &schema
	r.mu.Unlock()

	r.notifyInserted(id, schema.Type)
	return id, nil
}

func (r *InMemoryRegistry) NewSchemaWithID(id cellstore.SchemaID, schema Schema) error {
	if err := validateAndInject(&schema); err != nil {
		return err
	}
	schema.ID = id

	r.mu.Lock()
	if _, exists := r.schemas[id]; exists {
		r.mu.Unlock()
		return ErrSchemaAlreadyExists
	}
	r.schemas[id] = &schema
	if id >= r.nextID {
		r.nextID = id + 1
	}
	r.mu.Unlock()

	r.notifyInserted(id, schema.Type)
	return nil
}

// Insert records a schema already carrying injected fields — the path
// used to apply a schema-creation command propagated from the (external,
// out of scope) replicated state machine, as opposed to NewSchema's
// local-authoring path.
func (r *InMemoryRegistry) Insert(id cellstore.SchemaID, schema Schema) error {
	schema.ID = id

	r.mu.Lock()
	r.schemas[id] = &schema
	if id >= r.nextID {
		r.nextID = id + 1
	}
	r.mu.Unlock()

	r.notifyInserted(id, schema.Type)
	return nil
}

func (r *InMemoryRegistry) Remove(id cellstore.SchemaID) error {
	r.mu.Lock()
	_, ok := r.schemas[id]
	delete(r.schemas, id)
	r.mu.Unlock()

	if !ok {
		return ErrSchemaNotFound
	}
	r.notifyRemoved(id)
	return nil
}

func (r *InMemoryRegistry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.schemas))
	for id, schema := range r.schemas {
		entries = append(entries, Entry{ID: id, Type: schema.Type})
	}
	return entries
}

func (r *InMemoryRegistry) OnInserted(cb InsertCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onInserted = append(r.onInserted, cb)
}

func (r *InMemoryRegistry) OnRemoved(cb RemoveCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRemoved = append(r.onRemoved, cb)
}

func (r *InMemoryRegistry) notifyInserted(id cellstore.SchemaID, t SchemaType) {
	r.mu.RLock()
	callbacks := append([]InsertCallback(nil), r.onInserted...)
	r.mu.RUnlock()
	for _, cb := range callbacks {
		cb(id, t)
	}
}

func (r *InMemoryRegistry) notifyRemoved(id cellstore.SchemaID) {
	r.mu.RLock()
	callbacks := append([]RemoveCallback(nil), r.onRemoved...)
	r.mu.RUnlock()
	for _, cb := range callbacks {
		cb(id)
	}
}

// validateAndInject enforces invariant E1 (a bodyless edge schema rejects
// user fields) and Unspecified-kind rejection, then injects reserved fields
// for the schema's kind.
func validateAndInject(schema *Schema) error {
	switch schema.Type.Kind {
	case Vertex:
		injectVertexFields(schema)
	case Edge:
		if !schema.Type.Edge.HasBody && len(schema.Fields) > 0 {
			return ErrSimpleEdgeHasFields
		}
		injectEdgeFields(schema)
	case ListNode:
		return injectListNodeFields(schema)
	default:
		return ErrSchemaTypeUnspecified
	}
	return nil
}

var _ Registry = (*InMemoryRegistry)(nil)
