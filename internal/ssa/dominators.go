package ssa

// DomTree is the dominator tree of a Function's CFG (spec section 4.2.3).
type DomTree struct {
	// Idom[i] is the immediate dominator block id of block i, or -1 for
	// the entry block and any unreachable block.
	Idom []int
	// Children is the dominator tree's adjacency list: Children[i] are
	// the blocks immediately dominated by i.
	Children [][]int
}

// ComputeDominators runs the standard iterative data-flow fixpoint: each
// block's dominator set starts at "everything" (except the entry, which
// only dominates itself) and is refined to {n} union the intersection of
// its predecessors' dominator sets until no set changes (spec section
// 4.2.3).
func ComputeDominators(f *Function) DomTree {
	n := len(f.Blocks)
	dt := DomTree{Idom: make([]int, n), Children: make([][]int, n)}
	for i := range dt.Idom {
		dt.Idom[i] = -1
	}
	if n == 0 {
		return dt
	}

	all := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		all[i] = true
	}

	dom := make([]map[int]bool, n)
	dom[0] = map[int]bool{0: true}
	for i := 1; i < n; i++ {
		dom[i] = cloneSet(all)
	}

	changed := true
	for changed {
		changed = false
		for i := 1; i < n; i++ {
			var newDom map[int]bool
			if len(f.Blocks[i].Pred) == 0 {
				newDom = map[int]bool{}
			} else {
				first := true
				for _, p := range f.Blocks[i].Pred {
					if first {
						newDom = cloneSet(dom[p])
						first = false
					} else {
						newDom = intersectSet(newDom, dom[p])
					}
				}
			}
			newDom[i] = true
			if !setsEqual(newDom, dom[i]) {
				dom[i] = newDom
				changed = true
			}
		}
	}

	for i := 1; i < n; i++ {
		var candidates []int
		for d := range dom[i] {
			if d != i {
				candidates = append(candidates, d)
			}
		}
		best := -1
		for _, d := range candidates {
			dominatedByAllOthers := true
			for _, e := range candidates {
				if e == d {
					continue
				}
				if !dom[d][e] {
					dominatedByAllOthers = false
					break
				}
			}
			if dominatedByAllOthers {
				best = d
				break
			}
		}
		dt.Idom[i] = best
	}
	for i := 1; i < n; i++ {
		if id := dt.Idom[i]; id >= 0 {
			dt.Children[id] = append(dt.Children[id], i)
		}
	}
	return dt
}

func cloneSet(s map[int]bool) map[int]bool {
	out := make(map[int]bool, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func intersectSet(a, b map[int]bool) map[int]bool {
	out := make(map[int]bool)
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	for k := range small {
		if large[k] {
			out[k] = true
		}
	}
	return out
}

func setsEqual(a, b map[int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
