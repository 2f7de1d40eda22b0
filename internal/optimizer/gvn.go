package optimizer

import "github.com/sunholo/pycc/internal/ast"

// GVN is analysis-only (spec section 4.2.4): it classifies every pure
// top-level ExprStmt expression in the module by structural hash and
// reports how many distinct value classes exist, for observability. It
// makes no rewrites; SSAGVN is the pass that actually reuses values.
type GVN struct{}

// Result is GVN's report.
type Result struct {
	Expressions int
	Classes     int
}

// Analyze scans m and returns the expression/class counts.
func (GVN) Analyze(m *ast.Module) Result {
	classes := make(map[string]int)
	exprs := 0
	for _, fn := range m.Funcs {
		for _, st := range fn.Body {
			es, ok := st.(*ast.ExprStmt)
			if !ok || !IsPureExpr(es.Value) {
				continue
			}
			key := hashExpr(es.Value)
			if key != "" {
				classes[key]++
				exprs++
			}
		}
	}
	return Result{Expressions: exprs, Classes: len(classes)}
}

// Run satisfies the Pass interface as a zero-change analysis pass.
func (g GVN) Run(m *ast.Module) int {
	g.Analyze(m)
	return 0
}
