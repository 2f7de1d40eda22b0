package ssa

import (
	"fmt"
	"os"
)

// dumpCFG prints a one-line-per-block summary to stderr, the same shape
// the teacher's builder emitted under its debug env var.
func dumpCFG(f *Function) {
	fmt.Fprintf(os.Stderr, "[ssa.Builder] CFG blocks: %d\n", len(f.Blocks))
	for _, blk := range f.Blocks {
		fmt.Fprintf(os.Stderr, "  B%d: pred=%v succ=%v stmts=%d\n", blk.ID, blk.Pred, blk.Succ, len(blk.Stmts))
	}
}
