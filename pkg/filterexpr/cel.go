package filterexpr

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types/ref"
)

// env is shared by every compiled expression: two map-typed variables, edge
// and vertex, so a clause can reference an edge's fields as edge.since and,
// when evaluated with EvalVertexEdge, the opposite vertex's as vertex.name.
// Field names are resolved dynamically out of the map at evaluation time, so
// the same compiled program works unchanged across every schema's field set.
var env = must(cel.NewEnv(
	cel.Variable("edge", cel.MapType(cel.StringType, cel.DynType)),
	cel.Variable("vertex", cel.MapType(cel.StringType, cel.DynType)),
))

func must(e *cel.Env, err error) *cel.Env {
	if err != nil {
		panic(fmt.Sprintf("filterexpr: building CEL environment: %v", err))
	}
	return e
}

// celExpr wraps one compiled CEL program alongside the source it was parsed
// from.
type celExpr struct {
	source  string
	program cel.Program
}

func (e *celExpr) Source() string { return e.source }

// Parse compiles src into a sequence of CEL expressions, one per
// newline-separated clause. An empty or all-whitespace src parses to an
// empty sequence (filter neutrality, spec property 6).
func Parse(src string) ([]Expr, error) {
	clauses := splitClauses(src)
	if len(clauses) == 0 {
		return nil, nil
	}

	exprs := make([]Expr, 0, len(clauses))
	for _, clause := range clauses {
		ast, issues := env.Compile(clause)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("filterexpr: parsing %q: %w", clause, issues.Err())
		}
		program, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("filterexpr: building program for %q: %w", clause, err)
		}
		exprs = append(exprs, &celExpr{source: clause, program: program})
	}
	return exprs, nil
}

// CELTester evaluates a sequence of compiled CEL expressions, ANDing their
// results: every clause must evaluate to true for EvalEdge/EvalVertexEdge
// to report true. An empty sequence (no filter) always reports true.
type CELTester struct {
	exprs []Expr
}

// NewCELTester builds a Tester from exprs as returned by Parse.
func NewCELTester(exprs []Expr) *CELTester {
	return &CELTester{exprs: exprs}
}

var _ Tester = (*CELTester)(nil)

func (t *CELTester) EvalEdge(edge Fields) (bool, error) {
	return t.eval(map[string]any{"edge": mapify(edge), "vertex": map[string]any{}})
}

func (t *CELTester) EvalVertexEdge(vertex, edge Fields) (bool, error) {
	return t.eval(map[string]any{"edge": mapify(edge), "vertex": mapify(vertex)})
}

func (t *CELTester) eval(vars map[string]any) (bool, error) {
	for _, expr := range t.exprs {
		ce, ok := expr.(*celExpr)
		if !ok {
			return false, fmt.Errorf("filterexpr: expr %q was not built by Parse", expr.Source())
		}
		out, _, err := ce.program.Eval(vars)
		if err != nil {
			return false, fmt.Errorf("filterexpr: evaluating %q: %w", ce.source, err)
		}
		matched, err := asBool(out)
		if err != nil {
			return false, fmt.Errorf("filterexpr: evaluating %q: %w", ce.source, err)
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}

func mapify(fields Fields) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func asBool(val ref.Val) (bool, error) {
	b, ok := val.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression did not evaluate to a bool, got %v", val.Type())
	}
	return b, nil
}

func splitClauses(src string) []string {
	var clauses []string
	for _, line := range strings.Split(src, "\n") {
		if clause := strings.TrimSpace(line); clause != "" {
			clauses = append(clauses, clause)
		}
	}
	return clauses
}
