// Package graph is the non-transactional facade over pkg/graphtxn
// (SPEC_FULL.md §4.6): every method opens a store.Transaction, runs one
// graphtxn.GraphTransaction operation inside it, and retries the whole
// closure with jittered exponential backoff when the store reports
// cellstore.ErrConflict. Grounded on the teacher's retry-on-conflict Store
// contract and pkg/cluster/election.go's jittered-sleep texture
// (time.Duration(rand.Int63n(...))), adapted from election-timeout jitter
// to conflict-retry backoff.
package graph

import (
	"context"
	"math/rand"
	"time"

	"github.com/dd0wney/graphlayer/pkg/cellstore"
	"github.com/dd0wney/graphlayer/pkg/edge"
	"github.com/dd0wney/graphlayer/pkg/filterexpr"
	"github.com/dd0wney/graphlayer/pkg/graphtxn"
	"github.com/dd0wney/graphlayer/pkg/idlist"
	"github.com/dd0wney/graphlayer/pkg/metrics"
	"github.com/dd0wney/graphlayer/pkg/registry"
	"github.com/dd0wney/graphlayer/pkg/vertex"
)

// RetryPolicy bounds how many times, and for how long, Graph retries an
// operation that keeps losing to concurrent writers.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy matches the teacher's election timeout order of
// magnitude, scaled down for single-operation retries rather than
// leader-election rounds.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 10,
	BaseDelay:   2 * time.Millisecond,
	MaxDelay:    200 * time.Millisecond,
}

// Graph wraps a Store and Registry with the retrying convenience API.
// New installs the two built-in id-list node schemas in the registry before
// returning, so no separate bootstrap step is needed.
type Graph struct {
	store   cellstore.Store
	reg     registry.Registry
	retry   RetryPolicy
	metrics *metrics.Registry
}

// Option configures a Graph at construction time.
type Option func(*Graph)

// WithRetryPolicy overrides DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(g *Graph) { g.retry = p }
}

// WithMetrics attaches a metrics.Registry that every operation records
// counts and durations against. Without this option metrics are a no-op.
func WithMetrics(m *metrics.Registry) Option {
	return func(g *Graph) { g.metrics = m }
}

// New builds a Graph over store and reg, bootstrapping the built-in
// id-list node schemas if they are not already registered.
func New(store cellstore.Store, reg registry.Registry, opts ...Option) (*Graph, error) {
	if err := idlist.Bootstrap(reg); err != nil {
		return nil, err
	}
	g := &Graph{store: store, reg: reg, retry: DefaultRetryPolicy}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Registry returns the backing schema registry, for callers that need to
// resolve field names to ids outside of a graph operation (e.g. an HTTP
// handler rendering a vertex's body back to JSON).
func (g *Graph) Registry() registry.Registry {
	return g.reg
}

// NewVertexGroup registers a new Vertex schema with the backing registry.
func (g *Graph) NewVertexGroup(fields []registry.FieldDef) (cellstore.SchemaID, error) {
	return g.reg.NewSchema(registry.NewVertexSchema(fields))
}

// NewEdgeGroup registers a new Edge schema with the backing registry.
func (g *Graph) NewEdgeGroup(attrs registry.EdgeAttributes, fields []registry.FieldDef) (cellstore.SchemaID, error) {
	return g.reg.NewSchema(registry.NewEdgeSchema(attrs, fields))
}

// run retries fn, which must call exactly one graphtxn operation, with
// jittered backoff whenever the store reports a write-write conflict.
func (g *Graph) run(ctx context.Context, op string, fn func(*graphtxn.GraphTransaction) (any, error)) (any, error) {
	timer := g.metrics.StartTimer(op)
	defer timer.ObserveDuration()

	var lastErr error
	for attempt := 0; attempt < g.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			g.metrics.RecordConflictRetry(op)
			if err := sleepWithJitter(ctx, g.retry, attempt); err != nil {
				return nil, err
			}
		}

		result, err := g.store.Transaction(ctx, func(tx cellstore.Txn) (any, error) {
			return fn(graphtxn.New(g.reg, tx))
		})
		if err == nil {
			g.metrics.RecordSuccess(op)
			return result, nil
		}
		if !cellstore.IsConflict(err) {
			g.metrics.RecordFailure(op)
			return nil, err
		}
		lastErr = err
	}
	g.metrics.RecordFailure(op)
	return nil, lastErr
}

// sleepWithJitter waits an exponentially-growing, jittered delay before
// retry attempt n, bounded by MaxDelay, or returns ctx.Err() if ctx is
// cancelled first.
func sleepWithJitter(ctx context.Context, policy RetryPolicy, attempt int) error {
	delay := policy.BaseDelay << uint(attempt-1)
	if delay > policy.MaxDelay || delay <= 0 {
		delay = policy.MaxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay) + 1))

	timer := time.NewTimer(jitter)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NewVertex creates one new vertex of schema with the given field data.
func (g *Graph) NewVertex(ctx context.Context, schema cellstore.SchemaID, data map[string]cellstore.Value) (*vertex.Vertex, error) {
	result, err := g.run(ctx, "NewVertex", func(gt *graphtxn.GraphTransaction) (any, error) {
		return gt.NewVertex(schema, data)
	})
	if err != nil {
		return nil, err
	}
	return result.(*vertex.Vertex), nil
}

// VertexBy reads the vertex at id, optionally checked against schema.
func (g *Graph) VertexBy(ctx context.Context, id cellstore.Id, schema graphtxn.SchemaRef) (*vertex.Vertex, error) {
	result, err := g.run(ctx, "GetVertex", func(gt *graphtxn.GraphTransaction) (any, error) {
		return gt.GetVertex(id, schema)
	})
	if err != nil {
		return nil, err
	}
	return result.(*vertex.Vertex), nil
}

// VertexByKey resolves and reads the vertex deterministically addressed by
// (schema, key).
func (g *Graph) VertexByKey(ctx context.Context, schema cellstore.SchemaID, key cellstore.Value) (*vertex.Vertex, error) {
	result, err := g.run(ctx, "GetVertexByKey", func(gt *graphtxn.GraphTransaction) (any, error) {
		return gt.GetVertexByKey(schema, key)
	})
	if err != nil {
		return nil, err
	}
	return result.(*vertex.Vertex), nil
}

// UpdateVertex reads the vertex at id, applies mutate to its user-field
// body, and writes it back inside the same retried transaction.
func (g *Graph) UpdateVertex(ctx context.Context, id cellstore.Id, schema graphtxn.SchemaRef, mutate func(*vertex.Vertex) error) error {
	_, err := g.run(ctx, "UpdateVertex", func(gt *graphtxn.GraphTransaction) (any, error) {
		v, err := gt.GetVertex(id, schema)
		if err != nil {
			return nil, err
		}
		if err := mutate(v); err != nil {
			return nil, err
		}
		return nil, gt.SetVertexBody(id, v.Body)
	})
	return err
}

// UpdateVertexByKey is UpdateVertex addressed by (schema, key).
func (g *Graph) UpdateVertexByKey(ctx context.Context, schema cellstore.SchemaID, key cellstore.Value, mutate func(*vertex.Vertex) error) error {
	id := cellstore.EncodeKeyedID(schema, key)
	return g.UpdateVertex(ctx, id, graphtxn.RawSchemaID(schema), mutate)
}

// RemoveVertex deletes the vertex at id, cascading over every edge schema
// present in its adjacency slots.
func (g *Graph) RemoveVertex(ctx context.Context, id cellstore.Id) error {
	_, err := g.run(ctx, "RemoveVertex", func(gt *graphtxn.GraphTransaction) (any, error) {
		return nil, gt.RemoveVertex(id)
	})
	return err
}

// RemoveVertexByKey is RemoveVertex addressed by (schema, key).
func (g *Graph) RemoveVertexByKey(ctx context.Context, schema cellstore.SchemaID, key cellstore.Value) error {
	id := cellstore.EncodeKeyedID(schema, key)
	return g.RemoveVertex(ctx, id)
}

// Link creates an edge of schema from `from` to `to` with the given body.
func (g *Graph) Link(ctx context.Context, from cellstore.Id, schema cellstore.SchemaID, to cellstore.Id, body map[string]cellstore.Value) (edge.Edge, error) {
	result, err := g.run(ctx, "Link", func(gt *graphtxn.GraphTransaction) (any, error) {
		return gt.Link(from, schema, to, body)
	})
	if err != nil {
		return nil, err
	}
	return result.(edge.Edge), nil
}

// Degree returns the number of edges of schema incident to v in direction
// dir.
func (g *Graph) Degree(ctx context.Context, v cellstore.Id, schema cellstore.SchemaID, dir graphtxn.Direction) (int, error) {
	result, err := g.run(ctx, "Degree", func(gt *graphtxn.GraphTransaction) (any, error) {
		return gt.Degree(v, schema, dir)
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

// Edges returns every edge of schema incident to v in direction dir
// matching filter (nil for no filter).
func (g *Graph) Edges(ctx context.Context, v cellstore.Id, schema cellstore.SchemaID, dir graphtxn.Direction, filter filterexpr.Tester) ([]edge.Edge, error) {
	result, err := g.run(ctx, "Edges", func(gt *graphtxn.GraphTransaction) (any, error) {
		return gt.Edges(v, schema, dir, filter)
	})
	if err != nil {
		return nil, err
	}
	return result.([]edge.Edge), nil
}

// Neighbourhoods returns the (vertex, edge) pairs at the opposite end of
// every edge of schema incident to v in direction dir matching filter.
func (g *Graph) Neighbourhoods(ctx context.Context, v cellstore.Id, schema cellstore.SchemaID, dir graphtxn.Direction, filter filterexpr.Tester) ([]graphtxn.Neighbourhood, error) {
	result, err := g.run(ctx, "Neighbourhoods", func(gt *graphtxn.GraphTransaction) (any, error) {
		return gt.Neighbourhoods(v, schema, dir, filter)
	})
	if err != nil {
		return nil, err
	}
	return result.([]graphtxn.Neighbourhood), nil
}

// Transaction exposes the transactional API directly for callers that need
// to compose several graph operations atomically, with the same conflict
// retry as every other Graph method.
func (g *Graph) Transaction(ctx context.Context, fn func(*graphtxn.GraphTransaction) (any, error)) (any, error) {
	return g.run(ctx, "Transaction", fn)
}
