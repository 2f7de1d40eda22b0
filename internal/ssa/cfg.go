// Package ssa builds the control-flow scaffold the optimizer's SSAGVN
// pass consumes: basic blocks, a dominator tree, and phi placeholders at join
// points (spec section 4.2.1-4.2.3). It does not mutate the AST and does
// not renumber names into true SSA form — that union-of-definitions view
// is what spec section 3.4 calls a scaffold rather than a full SSA IR.
package ssa

import (
	"os"

	"github.com/sunholo/pycc/internal/ast"
)

// Phi is a placeholder for a variable defined along more than one
// incoming edge to a join block. It only marks a name as join-defined;
// codegen does not read it.
type Phi struct {
	Var       string
	Incomings []int
}

// Block is one basic block: a run of statements that either all execute
// or none do.
type Block struct {
	ID    int
	Stmts []ast.Stmt
	Succ  []int
	Pred  []int
	Defs  map[string]bool
	Phis  []Phi
}

// Function is the CFG for a single function body.
type Function struct {
	Blocks  []*Block
	BlockOf map[ast.Stmt]int
}

// Builder constructs a Function's CFG from its statement list.
type Builder struct {
	debug bool
}

// NewBuilder returns a Builder. PYCC_SSA_GVN_DEBUG set to any non-empty
// value enables the CFG dump the teacher's builder printed to stderr for
// the same env var.
func NewBuilder() *Builder {
	return &Builder{debug: os.Getenv("PYCC_SSA_GVN_DEBUG") != ""}
}

// Build constructs the CFG for body (spec section 4.2.1).
func (b *Builder) Build(body []ast.Stmt) *Function {
	f := &Function{BlockOf: make(map[ast.Stmt]int)}

	newBlock := func() int {
		blk := &Block{ID: len(f.Blocks), Defs: make(map[string]bool)}
		f.Blocks = append(f.Blocks, blk)
		return blk.ID
	}
	hasEdge := func(from, to int) bool {
		for _, s := range f.Blocks[from].Succ {
			if s == to {
				return true
			}
		}
		return false
	}
	connect := func(from, to int) {
		if from < 0 || to < 0 {
			return
		}
		if hasEdge(from, to) {
			return
		}
		f.Blocks[from].Succ = append(f.Blocks[from].Succ, to)
		f.Blocks[to].Pred = append(f.Blocks[to].Pred, from)
	}
	placeStmtInNewBlock := func(s ast.Stmt, preds []int) int {
		id := newBlock()
		f.Blocks[id].Stmts = append(f.Blocks[id].Stmts, s)
		f.BlockOf[s] = id
		for _, p := range preds {
			connect(p, id)
		}
		return id
	}

	var buildList func(stmts []ast.Stmt, ins []int) []int
	var buildStmt func(s ast.Stmt, ins []int) []int

	buildStmt = func(s ast.Stmt, ins []int) []int {
		switch st := s.(type) {
		case *ast.If:
			condB := placeStmtInNewBlock(s, ins)
			thenOuts := buildList(st.Then, []int{condB})
			if len(thenOuts) == 0 {
				thenOuts = []int{condB}
			}
			elseOuts := buildList(st.Else, []int{condB})
			if len(elseOuts) == 0 {
				elseOuts = []int{condB}
			}
			joinB := newBlock()
			for _, t := range thenOuts {
				connect(t, joinB)
			}
			for _, e := range elseOuts {
				connect(e, joinB)
			}
			return []int{joinB}

		case *ast.While:
			head := placeStmtInNewBlock(s, ins)
			bodyOuts := buildList(st.Body, []int{head})
			if len(bodyOuts) == 0 {
				bodyOuts = []int{head}
			}
			for _, out := range bodyOuts {
				connect(out, head)
			}
			follow := newBlock()
			connect(head, follow)
			if len(st.Else) > 0 {
				elseOuts := buildList(st.Else, []int{follow})
				if len(elseOuts) == 0 {
					return []int{follow}
				}
				joinB := newBlock()
				for _, e := range elseOuts {
					connect(e, joinB)
				}
				return []int{joinB}
			}
			return []int{follow}

		case *ast.For:
			head := placeStmtInNewBlock(s, ins)
			bodyOuts := buildList(st.Body, []int{head})
			if len(bodyOuts) == 0 {
				bodyOuts = []int{head}
			}
			for _, out := range bodyOuts {
				connect(out, head)
			}
			follow := newBlock()
			connect(head, follow)
			if len(st.Else) > 0 {
				elseOuts := buildList(st.Else, []int{follow})
				if len(elseOuts) == 0 {
					return []int{follow}
				}
				joinB := newBlock()
				for _, e := range elseOuts {
					connect(e, joinB)
				}
				return []int{joinB}
			}
			return []int{follow}

		case *ast.Try:
			// Exception edges are modeled during codegen's landing-pad
			// emission, not in this scaffold (spec section 4.2.1 Try).
			id := placeStmtInNewBlock(s, ins)
			return []int{id}

		case *ast.Return, *ast.Raise:
			placeStmtInNewBlock(s, ins)
			return nil

		default:
			id := placeStmtInNewBlock(s, ins)
			return []int{id}
		}
	}

	buildList = func(stmts []ast.Stmt, ins []int) []int {
		curIns := ins
		for _, s := range stmts {
			if len(curIns) == 0 {
				break
			}
			curIns = buildStmt(s, curIns)
		}
		return curIns
	}

	entry := newBlock()
	outs := buildList(body, []int{entry})
	if len(outs) == 0 {
		sink := newBlock()
		connect(entry, sink)
	} else if len(outs) > 1 {
		joinB := newBlock()
		for _, o := range outs {
			connect(o, joinB)
		}
	}

	if b.debug {
		dumpCFG(f)
	}

	populateDefs(f)
	placePhis(f)

	return f
}

// populateDefs records, per block, every simple name assigned by an
// Assign statement in that block (spec section 4.2.2: "each block's defs
// is the set of simple names assigned by its statements").
func populateDefs(f *Function) {
	for _, blk := range f.Blocks {
		for _, s := range blk.Stmts {
			assign, ok := s.(*ast.Assign)
			if !ok {
				continue
			}
			for _, t := range assign.Targets {
				if name, ok := t.(*ast.Name); ok {
					blk.Defs[name.Ident] = true
				}
			}
		}
	}
}

// placePhis adds a Phi placeholder at every block with >=2 predecessors
// for every variable defined by >=2 of those predecessors (spec section
// 4.2.2).
func placePhis(f *Function) {
	for _, blk := range f.Blocks {
		if len(blk.Pred) < 2 {
			continue
		}
		count := make(map[string]int)
		for _, p := range blk.Pred {
			for v := range f.Blocks[p].Defs {
				count[v]++
			}
		}
		for v, n := range count {
			if n >= 2 {
				blk.Phis = append(blk.Phis, Phi{Var: v, Incomings: append([]int{}, blk.Pred...)})
			}
		}
	}
}
