package optimizer

import "github.com/sunholo/pycc/internal/ast"

// RangeAnalysis is analysis-only (spec section 4.2.4): for every
// top-level `name = IntLiteral` assignment across the module it tracks a
// running [min, max] interval per name. It makes no rewrites; codegen and
// future passes can consult the result to narrow integer representations.
type RangeAnalysis struct{}

// Interval is an inclusive [Min, Max] bound.
type Interval struct {
	Min, Max int64
}

// Analyze scans m and returns the per-name interval map.
func (RangeAnalysis) Analyze(m *ast.Module) map[string]Interval {
	out := make(map[string]Interval)
	for _, fn := range m.Funcs {
		for _, st := range fn.Body {
			a, ok := st.(*ast.Assign)
			if !ok {
				continue
			}
			name, ok := simpleAssignName(a)
			if !ok {
				continue
			}
			lit, ok := a.Value.(*ast.IntLit)
			if !ok {
				continue
			}
			if cur, seen := out[name]; seen {
				if lit.Value < cur.Min {
					cur.Min = lit.Value
				}
				if lit.Value > cur.Max {
					cur.Max = lit.Value
				}
				out[name] = cur
			} else {
				out[name] = Interval{Min: lit.Value, Max: lit.Value}
			}
		}
	}
	return out
}

// Run satisfies the Pass interface as a zero-change analysis pass.
func (r RangeAnalysis) Run(m *ast.Module) int {
	r.Analyze(m)
	return 0
}
