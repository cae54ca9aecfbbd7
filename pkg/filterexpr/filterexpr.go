// Package filterexpr is the graph layer's contract with the filter
// expression parser/evaluator (SPEC_FULL.md §4.7): given an optional user
// filter string, parse it into a sequence of symbolic expressions and
// evaluate that sequence against an edge, or against a (vertex, edge) pair,
// producing true, false, or a FilterEvalError. The graph layer only calls
// through this contract; it never inspects an Expr's internal shape.
//
// CELTester is the default evaluator, grounded on the corpus's direct
// dependency on github.com/google/cel-go (AKJUS-bsc-erigon's go.mod) for
// exactly this kind of boolean predicate evaluation over typed fields.
package filterexpr

// Fields is the evaluation context passed to a Tester: a flat map from a
// schema's user-defined field names to their native Go values (see
// cellstore.Value.Native). Reserved adjacency/endpoint fields are never
// included — filters only see user-defined properties.
type Fields map[string]any

// Expr is one parsed, ready-to-evaluate filter clause. Its only use is to be
// handed back to a Tester; callers never inspect it directly.
type Expr interface {
	// Source returns the original expression text the clause was parsed
	// from, for logging and error messages.
	Source() string
}

// Tester evaluates a sequence of Exprs against edge or (vertex, edge) data.
// A nil or empty Expr slice must make every Eval* call return (true, nil) —
// filter neutrality (spec property 6): no filter is equivalent to a filter
// that always matches.
type Tester interface {
	// EvalEdge reports whether edge satisfies every expr in the sequence
	// the Tester was built from.
	EvalEdge(edge Fields) (bool, error)

	// EvalVertexEdge reports whether the (vertex, edge) pair satisfies
	// every expr in the sequence, with both vertex and edge fields in
	// scope under the "vertex."/"edge." namespaces.
	EvalVertexEdge(vertex, edge Fields) (bool, error)
}
