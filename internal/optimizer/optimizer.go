package optimizer

import "github.com/sunholo/pycc/internal/ast"

// Pass is one optimization pass: it rewrites m in place and reports how
// many changes it made. Every pass here is idempotent — running it again
// on its own output makes zero further changes (spec section 4.2.4).
type Pass interface {
	Run(m *ast.Module) int
}

type namedPass struct {
	name string
	pass Pass
}

// Report is one pass's contribution to an Optimizer.RunAll call.
type Report struct {
	Pass    string
	Changes int
}

// Optimizer runs a fixed sequence of passes over a module for
// observability (spec section 4.2.4): each pass's change count is kept
// separate so a caller (the `opt-stats` CLI command) can show where time
// was spent.
type Optimizer struct {
	passes []namedPass
}

// New returns an Optimizer configured with the full default pass
// pipeline: CFG/scope simplification first (fewer statements for
// everything downstream), then local propagation, then the
// value-numbering family (CSE, GVN, SSAGVN), then loop transforms, then
// RangeAnalysis last.
func New() *Optimizer {
	return &Optimizer{passes: []namedPass{
		{"SimplifyCFG", SimplifyCFG{}},
		{"SimplifyScopes", SimplifyScopes{}},
		{"LocalProp", LocalProp{}},
		{"CSE", CSE{}},
		{"GVN", GVN{}},
		{"SSAGVN", SSAGVN{}},
		{"LICM", LICM{}},
		{"LoopUnroll", LoopUnroll{}},
		{"RangeAnalysis", RangeAnalysis{}},
	}}
}

// RunAll runs every configured pass once, in order, and returns a report
// per pass.
func (o *Optimizer) RunAll(m *ast.Module) []Report {
	reports := make([]Report, 0, len(o.passes))
	for _, np := range o.passes {
		reports = append(reports, Report{Pass: np.name, Changes: np.pass.Run(m)})
	}
	return reports
}

// RunToFixpoint repeats the full pass sequence until a round makes no
// changes at all, or maxRounds is reached (a defensive bound: every pass
// is individually idempotent, but interleaved passes can still feed each
// other new opportunities for a few rounds).
func (o *Optimizer) RunToFixpoint(m *ast.Module, maxRounds int) [][]Report {
	var rounds [][]Report
	for i := 0; i < maxRounds; i++ {
		reports := o.RunAll(m)
		rounds = append(rounds, reports)
		total := 0
		for _, r := range reports {
			total += r.Changes
		}
		if total == 0 {
			break
		}
	}
	return rounds
}

// Stats mirrors the teacher's node/statement/expression counter, used by
// the `opt-stats` CLI command to report module size independent of any
// rewrite.
type Stats struct {
	NodesVisited int
	StmtsVisited int
	ExprsVisited int
}

// Analyze walks m and returns aggregate node/statement/expression counts.
func Analyze(m *ast.Module) Stats {
	var s Stats
	s.NodesVisited++ // the module itself
	for _, fn := range m.Funcs {
		s.NodesVisited++
		countStmts(fn.Body, &s)
	}
	return s
}

func countStmts(stmts []ast.Stmt, s *Stats) {
	for _, stmt := range stmts {
		s.NodesVisited++
		s.StmtsVisited++
		switch st := stmt.(type) {
		case *ast.Return:
			if st.Value != nil {
				countExpr(st.Value, s)
			}
		case *ast.Assign:
			countExpr(st.Value, s)
		case *ast.AugAssign:
			countExpr(st.Value, s)
		case *ast.ExprStmt:
			countExpr(st.Value, s)
		case *ast.If:
			countExpr(st.Cond, s)
			countStmts(st.Then, s)
			countStmts(st.Else, s)
		case *ast.While:
			countExpr(st.Cond, s)
			countStmts(st.Body, s)
			countStmts(st.Else, s)
		case *ast.For:
			countExpr(st.Iter, s)
			countStmts(st.Body, s)
			countStmts(st.Else, s)
		case *ast.Try:
			countStmts(st.Body, s)
			for _, h := range st.Handlers {
				countStmts(h.Body, s)
			}
			countStmts(st.Else, s)
			countStmts(st.Finally, s)
		case *ast.With:
			countStmts(st.Body, s)
		case *ast.Match:
			countExpr(st.Subject, s)
			for _, c := range st.Cases {
				countStmts(c.Body, s)
			}
		}
	}
}

func countExpr(e ast.Expr, s *Stats) {
	if e == nil {
		return
	}
	s.NodesVisited++
	s.ExprsVisited++
	switch n := e.(type) {
	case *ast.Call:
		countExpr(n.Func, s)
		for _, a := range n.Args {
			countExpr(a, s)
		}
		for _, kw := range n.Kwargs {
			countExpr(kw.Value, s)
		}
	case *ast.BinaryOp:
		countExpr(n.Left, s)
		countExpr(n.Right, s)
	case *ast.UnaryOp:
		countExpr(n.Operand, s)
	case *ast.TupleLit:
		for _, el := range n.Elements {
			countExpr(el, s)
		}
	case *ast.ListLit:
		for _, el := range n.Elements {
			countExpr(el, s)
		}
	case *ast.SetLit:
		for _, el := range n.Elements {
			countExpr(el, s)
		}
	case *ast.DictLit:
		for _, entry := range n.Entries {
			if entry.Key != nil {
				countExpr(entry.Key, s)
			}
			countExpr(entry.Value, s)
		}
	case *ast.ObjectLit:
		for _, f := range n.Fields {
			countExpr(f, s)
		}
	case *ast.Attribute:
		countExpr(n.Base, s)
	case *ast.Subscript:
		countExpr(n.Base, s)
		countExpr(n.Index, s)
	case *ast.CompareChain:
		countExpr(n.Left, s)
		for _, c := range n.Comparators {
			countExpr(c, s)
		}
	}
}
