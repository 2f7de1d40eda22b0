package codegen

import (
	"fmt"

	"github.com/sunholo/pycc/internal/ast"
)

// emitStmt dispatches one statement to its lowering. It is the Go
// counterpart of the original's per-NodeKind statement visitor (spec
// section 4.3.2, 4.3.3).
func (fe *funcEmitter) emitStmt(st ast.Stmt) error {
	switch n := st.(type) {
	case *ast.ExprStmt:
		_, err := fe.eval(n.Value)
		return err
	case *ast.Assign:
		return fe.emitAssign(n)
	case *ast.AugAssign:
		return fe.emitAugAssign(n)
	case *ast.Return:
		return fe.emitReturn(n)
	case *ast.If:
		return fe.emitIf(n)
	case *ast.While:
		return fe.emitWhile(n)
	case *ast.For:
		return fe.emitFor(n)
	case *ast.Break:
		return fe.emitBreak(n)
	case *ast.Continue:
		return fe.emitContinue(n)
	case *ast.Pass:
		return nil
	case *ast.Raise:
		return fe.emitRaise(n)
	case *ast.Try:
		return fe.emitTry(n)
	case *ast.Assert:
		return fe.emitAssert(n)
	case *ast.Global, *ast.Nonlocal:
		return nil // scope declarations carry no codegen; sema already resolved bindings
	default:
		file, line, col := fe.pos(st.Position())
		return fe.g.unhandled(file, line, col, st.Kind())
	}
}

func (fe *funcEmitter) dbg(p ast.Pos) string {
	_, line, col := fe.pos(p)
	return fe.g.dbg.dbgSuffix(line, col)
}

// emitAssign lowers `targets = value`, creating each target's alloca slot
// on first definition (registering it as a GC root when pointer-kinded)
// and otherwise storing into the existing slot. A Subscript target
// (list/dict element store) is handled directly rather than through the
// slot table (spec section 4.3.2).
func (fe *funcEmitter) emitAssign(n *ast.Assign) error {
	if len(n.Targets) == 1 {
		if sub, ok := n.Targets[0].(*ast.Subscript); ok {
			return fe.emitSubscriptStore(sub, n.Value)
		}
	}
	val, err := fe.eval(n.Value)
	if err != nil {
		return err
	}
	for _, tgt := range n.Targets {
		name, ok := tgt.(*ast.Name)
		if !ok {
			file, line, col := fe.pos(tgt.Position())
			return fe.g.codErr(file, line, col, "assignment target must be a name or subscript")
		}
		if err := fe.storeName(n, name.Ident, val); err != nil {
			return err
		}
	}
	return nil
}

func (fe *funcEmitter) storeName(n *ast.Assign, ident string, val Value) error {
	s, ok := fe.slots[ident]
	if !ok {
		addr := "%" + ident + ".addr"
		fe.ir.WriteString(fmt.Sprintf("  %s = alloca %s\n", addr, val.Kind.llvm()))
		if val.Kind == KindPtr {
			fe.ir.WriteString(fmt.Sprintf("  call void @gc_register_root(ptr %s)\n", addr))
		}
		s = &slot{ptr: addr, knd: val.Kind}
		fe.slots[ident] = s
	}
	if s.knd != val.Kind {
		file, line, col := fe.pos(n.Position())
		return fe.g.codErr(file, line, col, "assignment to %q changed its value kind", ident)
	}
	fe.ir.WriteString(fmt.Sprintf("  store %s %s, ptr %s%s\n", val.Kind.llvm(), val.Name, s.ptr, fe.dbg(n.Position())))
	if val.Kind == KindPtr {
		fe.ir.WriteString(fmt.Sprintf("  call void @gc_write_barrier(ptr %s, ptr %s)\n", s.ptr, val.Name))
		s.tag = val.Tag
	}
	return nil
}

func (fe *funcEmitter) emitSubscriptStore(sub *ast.Subscript, value ast.Expr) error {
	base, err := fe.eval(sub.Base)
	if err != nil {
		return err
	}
	tag := fe.nameTag(sub.Base)
	val, err := fe.eval(value)
	if err != nil {
		return err
	}
	boxed := fe.box(val)
	switch tag {
	case TagList:
		idx, err := fe.eval(sub.Index)
		if err != nil {
			return err
		}
		idx64 := fe.toI64(idx)
		fe.ir.WriteString(fmt.Sprintf("  call void @list_set(ptr %s, i64 %s, ptr %s)\n", base.Name, idx64, boxed))
	case TagDict:
		key, err := fe.eval(sub.Index)
		if err != nil {
			return err
		}
		kboxed := fe.box(key)
		fe.ir.WriteString(fmt.Sprintf("  call void @dict_set(ptr %s, ptr %s, ptr %s)\n", base.Name, kboxed, boxed))
	default:
		file, line, col := fe.pos(sub.Position())
		return fe.g.missingTag(file, line, col, "subscript assignment target")
	}
	return nil
}

// emitAugAssign lowers `target op= value` by desugaring to a plain
// binary expression and re-assigning; pycc has no in-place mutation
// opcode distinct from a fresh compute-and-store.
func (fe *funcEmitter) emitAugAssign(n *ast.AugAssign) error {
	name, ok := n.Target.(*ast.Name)
	if !ok {
		file, line, col := fe.pos(n.Position())
		return fe.g.codErr(file, line, col, "augmented assignment target must be a name")
	}
	bin := &ast.BinaryOp{Op: n.Op, Left: name, Right: n.Value}
	val, err := fe.eval(bin)
	if err != nil {
		return err
	}
	return fe.storeName(&ast.Assign{Targets: []ast.AssignTarget{name}}, name.Ident, val)
}

func (fe *funcEmitter) emitReturn(n *ast.Return) error {
	want := fe.returnKind()
	if n.Value == nil {
		fe.emitDefaultReturn(want)
		fe.returned = true
		return nil
	}
	val, err := fe.eval(n.Value)
	if err != nil {
		return err
	}
	if val.Kind != want {
		file, line, col := fe.pos(n.Position())
		return fe.g.codErr(file, line, col, "return value kind does not match the declared return type")
	}
	fe.ir.WriteString(fmt.Sprintf("  ret %s %s%s\n", want.llvm(), val.Name, fe.dbg(n.Position())))
	fe.returned = true
	return nil
}

func (fe *funcEmitter) emitIf(n *ast.If) error {
	cond, err := fe.eval(n.Cond)
	if err != nil {
		return err
	}
	cond, err = fe.toBool(cond)
	if err != nil {
		return err
	}
	id := fe.ifCounter
	fe.ifCounter++
	thenLbl := fmt.Sprintf("if.then%d", id)
	elseLbl := fmt.Sprintf("if.else%d", id)
	endLbl := fmt.Sprintf("if.end%d", id)
	fe.ir.WriteString(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s%s\n", cond.Name, thenLbl, elseLbl, fe.dbg(n.Position())))

	fe.ir.WriteString(thenLbl + ":\n")
	fe.returned = false
	if err := fe.emitStmtList(n.Then); err != nil {
		return err
	}
	thenReturned := fe.returned
	if !thenReturned {
		fe.ir.WriteString(fmt.Sprintf("  br label %%%s\n", endLbl))
	}

	fe.ir.WriteString(elseLbl + ":\n")
	fe.returned = false
	if err := fe.emitStmtList(n.Else); err != nil {
		return err
	}
	elseReturned := fe.returned
	if !elseReturned {
		fe.ir.WriteString(fmt.Sprintf("  br label %%%s\n", endLbl))
	}

	fe.ir.WriteString(endLbl + ":\n")
	fe.returned = thenReturned && elseReturned
	return nil
}

func (fe *funcEmitter) emitWhile(n *ast.While) error {
	id := fe.loopCounter
	fe.loopCounter++
	condLbl := fmt.Sprintf("while.cond%d", id)
	bodyLbl := fmt.Sprintf("while.body%d", id)
	endLbl := fmt.Sprintf("while.end%d", id)
	exitLbl := fmt.Sprintf("while.exit%d", id)

	fe.ir.WriteString(fmt.Sprintf("  br label %%%s%s\n", condLbl, fe.dbg(n.Position())))
	fe.ir.WriteString(condLbl + ":\n")
	cond, err := fe.eval(n.Cond)
	if err != nil {
		return err
	}
	cond, err = fe.toBool(cond)
	if err != nil {
		return err
	}
	fe.ir.WriteString(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s\n", cond.Name, bodyLbl, endLbl))

	fe.ir.WriteString(bodyLbl + ":\n")
	fe.loopBreakLbl = append(fe.loopBreakLbl, exitLbl)
	fe.loopContLbl = append(fe.loopContLbl, condLbl)
	fe.returned = false
	if err := fe.emitStmtList(n.Body); err != nil {
		return err
	}
	fe.loopBreakLbl = fe.loopBreakLbl[:len(fe.loopBreakLbl)-1]
	fe.loopContLbl = fe.loopContLbl[:len(fe.loopContLbl)-1]
	if !fe.returned {
		fe.ir.WriteString(fmt.Sprintf("  br label %%%s\n", condLbl))
	}
	fe.ir.WriteString(endLbl + ":\n")
	fe.returned = false
	if err := fe.emitStmtList(n.Else); err != nil {
		return err
	}
	if !fe.returned {
		fe.ir.WriteString(fmt.Sprintf("  br label %%%s\n", exitLbl))
	}
	fe.ir.WriteString(exitLbl + ":\n")
	fe.returned = false
	return nil
}

// emitFor implements the "limited lowering" the original documents:
// iterate a list/tuple literal's elements or a dict literal's keys. Any
// other iterable kind (a Name bound to an unknown tag, a range() call
// left un-unrolled by the optimizer, a generator) is reported as COD002
// rather than guessed at, matching the original's own scope boundary.
func (fe *funcEmitter) emitFor(n *ast.For) error {
	target, ok := n.Target.(*ast.Name)
	if !ok {
		file, line, col := fe.pos(n.Position())
		return fe.g.codErr(file, line, col, "for-loop target must be a plain name")
	}

	var elems []ast.Expr
	switch it := n.Iter.(type) {
	case *ast.ListLit:
		elems = it.Elements
	case *ast.TupleLit:
		elems = it.Elements
	case *ast.DictLit:
		for _, e := range it.Entries {
			if e.Key != nil {
				elems = append(elems, e.Key)
			}
		}
	default:
		file, line, col := fe.pos(n.Position())
		return fe.g.unhandled(file, line, col, n.Iter.Kind())
	}

	for _, el := range elems {
		v, err := fe.eval(el)
		if err != nil {
			return err
		}
		if err := fe.storeName(&ast.Assign{Targets: []ast.AssignTarget{target}}, target.Ident, v); err != nil {
			return err
		}
		if err := fe.emitStmtList(n.Body); err != nil {
			return err
		}
		if fe.returned {
			return nil
		}
	}
	return fe.emitStmtList(n.Else)
}

func (fe *funcEmitter) emitBreak(n *ast.Break) error {
	if len(fe.loopBreakLbl) == 0 {
		file, line, col := fe.pos(n.Position())
		return fe.g.codErr(file, line, col, "break outside loop")
	}
	fe.ir.WriteString(fmt.Sprintf("  br label %%%s\n", fe.loopBreakLbl[len(fe.loopBreakLbl)-1]))
	fe.returned = true
	return nil
}

func (fe *funcEmitter) emitContinue(n *ast.Continue) error {
	if len(fe.loopContLbl) == 0 {
		file, line, col := fe.pos(n.Position())
		return fe.g.codErr(file, line, col, "continue outside loop")
	}
	fe.ir.WriteString(fmt.Sprintf("  br label %%%s\n", fe.loopContLbl[len(fe.loopContLbl)-1]))
	fe.returned = true
	return nil
}

// emitRaise lowers `raise exc [from cause]` to an rt_raise call followed
// by an unreachable terminator: codegen does not thread an unwinding
// invoke/landingpad through every call here (spec section 4.3.3 covers the
// Try side of that contract; a bare raise with no enclosing handler in
// this function always propagates).
func (fe *funcEmitter) emitRaise(n *ast.Raise) error {
	if n.Exc == nil {
		fe.ir.WriteString("  call void @rt_raise(ptr null, ptr null)\n")
		fe.ir.WriteString("  unreachable\n")
		fe.returned = true
		return nil
	}
	exc, err := fe.eval(n.Exc)
	if err != nil {
		return err
	}
	msgArg := "null"
	if n.Cause != nil {
		cause, err := fe.eval(n.Cause)
		if err != nil {
			return err
		}
		msgArg = fe.box(cause)
	}
	fe.ir.WriteString(fmt.Sprintf("  call void @rt_raise(ptr %s, ptr %s)\n", fe.box(exc), msgArg))
	fe.ir.WriteString("  unreachable\n")
	fe.returned = true
	return nil
}

// emitTry lowers a try/except/else/finally by running the body, checking
// rt_has_exception afterward, and branching into the first matching
// handler (spec section 4.3.3). Handler type matching is by exact class
// name only; a bare `except:` (nil Type), or a Type that is not a plain
// Name, always matches. An exception no handler matches stays pending.
func (fe *funcEmitter) emitTry(n *ast.Try) error {
	id := fe.loopCounter
	fe.loopCounter++
	checkLbl := fmt.Sprintf("try.check%d", id)
	elseLbl := fmt.Sprintf("try.else%d", id)
	endLbl := fmt.Sprintf("try.end%d", id)

	fe.returned = false
	if err := fe.emitStmtList(n.Body); err != nil {
		return err
	}
	if !fe.returned {
		fe.ir.WriteString(fmt.Sprintf("  br label %%%s\n", checkLbl))
	}
	fe.ir.WriteString(checkLbl + ":\n")
	hasExc := fe.newTemp()
	fe.ir.WriteString(fmt.Sprintf("  %s = call i1 @rt_has_exception()\n", hasExc))

	nextLbl := endLbl
	if len(n.Handlers) > 0 {
		nextLbl = fmt.Sprintf("try.handler%d.0", id)
	}
	fe.ir.WriteString(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s\n", hasExc, nextLbl, elseLbl))

	for i, h := range n.Handlers {
		fe.ir.WriteString(nextLbl + ":\n")
		if tn, ok := h.Type.(*ast.Name); ok {
			miss := endLbl
			if i+1 < len(n.Handlers) {
				miss = fmt.Sprintf("try.handler%d.%d", id, i+1)
			}
			exc, ty, want, eq := fe.newTemp(), fe.newTemp(), fe.newTemp(), fe.newTemp()
			fe.ir.WriteString(fmt.Sprintf("  %s = call ptr @rt_current_exception()\n", exc))
			fe.ir.WriteString(fmt.Sprintf("  %s = call ptr @rt_exception_type(ptr %s)\n", ty, exc))
			fe.ir.WriteString(fmt.Sprintf("  %s = call ptr @string_from_cstr(ptr %s)\n", want, fe.g.strs.intern(tn.Ident)))
			fe.ir.WriteString(fmt.Sprintf("  %s = call i1 @string_eq(ptr %s, ptr %s)\n", eq, ty, want))
			fe.ir.WriteString(fmt.Sprintf("  br i1 %s, label %%try.handler%d.%d.body, label %%%s\n", eq, id, i, miss))
			fe.ir.WriteString(fmt.Sprintf("try.handler%d.%d.body:\n", id, i))
		}
		fe.ir.WriteString("  call void @rt_clear_exception()\n")
		fe.returned = false
		if err := fe.emitStmtList(h.Body); err != nil {
			return err
		}
		if !fe.returned {
			fe.ir.WriteString(fmt.Sprintf("  br label %%%s\n", endLbl))
		}
		if i+1 < len(n.Handlers) {
			nextLbl = fmt.Sprintf("try.handler%d.%d", id, i+1)
		}
	}

	fe.ir.WriteString(elseLbl + ":\n")
	fe.returned = false
	if err := fe.emitStmtList(n.Else); err != nil {
		return err
	}
	if !fe.returned {
		fe.ir.WriteString(fmt.Sprintf("  br label %%%s\n", endLbl))
	}
	fe.ir.WriteString(endLbl + ":\n")
	fe.returned = false
	return fe.emitStmtList(n.Finally)
}

// emitAssert lowers `assert cond[, message]` as a branch to an rt_raise
// call when the condition is false.
func (fe *funcEmitter) emitAssert(n *ast.Assert) error {
	cond, err := fe.eval(n.Cond)
	if err != nil {
		return err
	}
	cond, err = fe.toBool(cond)
	if err != nil {
		return err
	}
	id := fe.ifCounter
	fe.ifCounter++
	failLbl := fmt.Sprintf("assert.fail%d", id)
	okLbl := fmt.Sprintf("assert.ok%d", id)
	fe.ir.WriteString(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s\n", cond.Name, okLbl, failLbl))
	fe.ir.WriteString(failLbl + ":\n")
	fe.ir.WriteString("  call void @rt_raise(ptr null, ptr null)\n")
	fe.ir.WriteString("  unreachable\n")
	fe.ir.WriteString(okLbl + ":\n")
	return nil
}
