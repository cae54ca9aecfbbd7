package graphtxn

import (
	"testing"

	"github.com/dd0wney/graphlayer/pkg/cellstore"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestGraphInvariants pins, as properties rather than fixed examples, the
// invariants RemoveVertex and Link must hold for arbitrary inputs.
func TestGraphInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	properties.Property("create then remove vertex leaves no trace", prop.ForAll(
		func(name string) bool {
			f := newFixture(t)
			var id cellstore.Id
			f.run(t, func(g *GraphTransaction) error {
				v, err := g.NewVertex(f.person, map[string]cellstore.Value{"name": cellstore.StringValue(name)})
				if err != nil {
					return err
				}
				id = v.ID
				return nil
			})

			f.run(t, func(g *GraphTransaction) error {
				return g.RemoveVertex(id)
			})

			still := true
			f.run(t, func(g *GraphTransaction) error {
				_, err := g.GetVertex(id, RawSchemaID(f.person))
				still = err == nil
				return nil
			})
			return !still
		},
		gen.AlphaString(),
	))

	properties.Property("degree equals len(edges) for a random fan-out", prop.ForAll(
		func(fanOut uint8) bool {
			n := int(fanOut%20) + 1
			f := newFixture(t)
			var v0 cellstore.Id
			f.run(t, func(g *GraphTransaction) error {
				v, err := g.NewVertex(f.person, map[string]cellstore.Value{})
				if err != nil {
					return err
				}
				v0 = v.ID
				for i := 0; i < n; i++ {
					o, err := g.NewVertex(f.person, map[string]cellstore.Value{})
					if err != nil {
						return err
					}
					if _, err := g.Link(v0, f.knows, o.ID, nil); err != nil {
						return err
					}
				}
				return nil
			})

			ok := false
			f.run(t, func(g *GraphTransaction) error {
				deg, err := g.Degree(v0, f.knows, Outbound)
				if err != nil {
					return err
				}
				edges, err := g.Edges(v0, f.knows, Outbound, nil)
				if err != nil {
					return err
				}
				ok = deg == len(edges) && deg == n
				return nil
			})
			return ok
		},
		gen.UInt8(),
	))

	properties.Property("neighbourhoods matches fan-out and resolves real vertices", prop.ForAll(
		func(fanOut uint8) bool {
			n := int(fanOut%20) + 1
			f := newFixture(t)
			var v0 cellstore.Id
			fanOutIDs := make(map[cellstore.Id]bool, n)
			f.run(t, func(g *GraphTransaction) error {
				v, err := g.NewVertex(f.person, map[string]cellstore.Value{})
				if err != nil {
					return err
				}
				v0 = v.ID
				for i := 0; i < n; i++ {
					o, err := g.NewVertex(f.person, map[string]cellstore.Value{})
					if err != nil {
						return err
					}
					fanOutIDs[o.ID] = true
					if _, err := g.Link(v0, f.knows, o.ID, nil); err != nil {
						return err
					}
				}
				return nil
			})

			ok := false
			f.run(t, func(g *GraphTransaction) error {
				pairs, err := g.Neighbourhoods(v0, f.knows, Outbound, nil)
				if err != nil {
					return err
				}
				if len(pairs) != n {
					return nil
				}
				for _, p := range pairs {
					if p.Vertex == nil || !fanOutIDs[p.Vertex.ID] {
						return nil
					}
				}
				ok = true
				return nil
			})
			return ok
		},
		gen.UInt8(),
	))

	properties.TestingRun(t)
}
