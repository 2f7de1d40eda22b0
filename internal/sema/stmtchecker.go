package sema

import (
	"github.com/sunholo/pycc/internal/ast"
	"github.com/sunholo/pycc/internal/diag"
	"github.com/sunholo/pycc/internal/types"
)

// checkBlock threads env through stmts in sequence, mutating it in place
// so later statements in the same block see the accumulated bindings of
// earlier ones (spec section 4.1.2).
func (a *Analyzer) checkBlock(env *types.Env, stmts []ast.Stmt, ctx *funcCtx) {
	for _, stmt := range stmts {
		a.checkStmt(env, stmt, ctx)
	}
}

// checkStmt dispatches on the statement's concrete type and applies the
// effect spec section 4.1.2 describes for it, mutating env in place.
func (a *Analyzer) checkStmt(env *types.Env, stmt ast.Stmt, ctx *funcCtx) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		a.typeExpr(env, s.Value)

	case *ast.Assign:
		mask := a.typeExpr(env, s.Value)
		for _, target := range s.Targets {
			a.bindAssignTarget(env, target, s.Value, mask)
		}

	case *ast.AugAssign:
		cur := a.typeExpr(env, s.Target)
		rhs := a.typeExpr(env, s.Value)
		result := a.typeAugOp(s, cur, rhs)
		if name, ok := s.Target.(*ast.Name); ok {
			env.UnionSet(name.Ident, result, types.ProvAssign)
		}

	case *ast.Return:
		var mask types.Mask
		if s.Value != nil {
			mask = a.typeExpr(env, s.Value)
		} else {
			mask = types.MNone
		}
		if ctx != nil && ctx.retKind != 0 && mask != 0 && !mask.Intersects(ctx.retKind) {
			a.errorf(diag.TYP006, s.Pos, "return kind %s incompatible with declared return kind %s", mask, ctx.retKind)
		}

	case *ast.If:
		a.typeExpr(env, s.Cond)
		thenEnv, elseEnv := RefineCond(env, s.Cond)
		a.checkBlock(thenEnv, s.Then, ctx)
		a.checkBlock(elseEnv, s.Else, ctx)
		merged := types.IntersectFrom(thenEnv, elseEnv)
		env.ApplyMerged(merged)

	case *ast.While:
		a.typeExpr(env, s.Cond)
		thenEnv, elseEnv := RefineCond(env, s.Cond)
		a.checkBlock(thenEnv, s.Body, ctx)
		a.checkBlock(env, s.Else, ctx)
		merged := types.IntersectFrom(thenEnv, elseEnv)
		env.ApplyMerged(merged)

	case *ast.For:
		iterMask := a.typeExpr(env, s.Iter)
		preEnv := env.Clone()
		a.bindForTarget(env, s.Target, s.Iter, iterMask)
		a.checkBlock(env, s.Body, ctx)
		a.checkBlock(env, s.Else, ctx)
		merged := types.IntersectFrom(preEnv, env)
		env.ApplyMerged(merged)

	case *ast.Break, *ast.Continue, *ast.Pass:
		// no type effect

	case *ast.Try:
		bodyEnv := env.Clone()
		a.checkBlock(bodyEnv, s.Body, ctx)
		merged := bodyEnv
		for _, h := range s.Handlers {
			handlerEnv := env.Clone()
			if h.Type != nil {
				a.typeExpr(handlerEnv, h.Type)
			}
			if h.Name != "" {
				handlerEnv.Define(h.Name, 0, types.ProvCatch)
			}
			a.checkBlock(handlerEnv, h.Body, ctx)
			merged = types.IntersectFrom(merged, handlerEnv)
		}
		if s.Else != nil {
			elseEnv := bodyEnv.Clone()
			a.checkBlock(elseEnv, s.Else, ctx)
			merged = types.IntersectFrom(merged, elseEnv)
		}
		env.ApplyMerged(merged)
		a.checkBlock(env, s.Finally, ctx)

	case *ast.With:
		for _, item := range s.Items {
			a.typeExpr(env, item.ContextExpr)
			if name, ok := item.Target.(*ast.Name); ok {
				env.Define(name.Ident, 0, types.ProvAssign)
			}
		}
		a.checkBlock(env, s.Body, ctx)

	case *ast.Raise:
		if s.Exc != nil {
			a.typeExpr(env, s.Exc)
		}
		if s.Cause != nil {
			a.typeExpr(env, s.Cause)
		}

	case *ast.Global, *ast.Nonlocal:
		// Scope declarations don't themselves carry a type effect; the
		// binding they refer to is typed at its defining assignment.

	case *ast.Assert:
		a.typeExpr(env, s.Cond)
		if s.Message != nil {
			a.typeExpr(env, s.Message)
		}

	case *ast.Del:
		for _, t := range s.Targets {
			a.typeExpr(env, t)
		}

	case *ast.Import, *ast.ImportFrom:
		// External module surface; resolved through a.Stdlib at call
		// sites rather than through the environment.

	case *ast.ClassDef:
		a.collectClass(s)
		a.Classes.LinearizeBases()
		a.checkClassBody(s)

	case *ast.FuncDef:
		a.Sigs.Define(types.FromFuncDef(s))
		a.FuncFlags[s] = ScanFnTraits(s)
		a.checkFunc(s)
		env.Define(s.Name, 0, types.ProvAssign)

	case *ast.Match:
		a.checkMatch(env, s, ctx)

	default:
		a.errorf(diag.COD001, stmt.Position(), "sema: unhandled statement kind %T", stmt)
	}
}

func (a *Analyzer) checkMatch(env *types.Env, m *ast.Match, ctx *funcCtx) {
	a.typeExpr(env, m.Subject)
	var branchEnvs []*types.Env
	for _, c := range m.Cases {
		caseEnv := env.Clone()
		bindPattern(caseEnv, c.Pattern)
		if c.Guard != nil {
			a.typeExpr(caseEnv, c.Guard)
		}
		a.checkBlock(caseEnv, c.Body, ctx)
		branchEnvs = append(branchEnvs, caseEnv)
	}
	if len(branchEnvs) == 0 {
		return
	}
	merged := branchEnvs[0]
	for _, be := range branchEnvs[1:] {
		merged = types.IntersectFrom(merged, be)
	}
	env.ApplyMerged(merged)

	// The compiled tree is recorded in a.MatchTrees. Codegen has no match
	// lowering (a match statement is reported as COD002) and does not
	// read it.
	a.MatchTrees[m] = NewDecisionTreeCompiler(m.Cases).Compile()
}

// bindPattern defines every name a pattern binds, mask 0 (opaque), except
// a mapping pattern's rest name (Dict) and a star capture (List).
func bindPattern(env *types.Env, p ast.Pattern) {
	switch pat := p.(type) {
	case *ast.NamePattern:
		env.Define(pat.Name, 0, types.ProvAssign)
	case *ast.AsPattern:
		bindPattern(env, pat.Inner)
		env.Define(pat.Name, 0, types.ProvAssign)
	case *ast.OrPattern:
		for _, alt := range pat.Alternatives {
			bindPattern(env, alt)
		}
	case *ast.ClassPattern:
		for _, sub := range pat.Positional {
			bindPattern(env, sub)
		}
		for _, sub := range pat.KeywordPats {
			bindPattern(env, sub)
		}
	case *ast.SequencePattern:
		for _, sub := range pat.Elements {
			bindPattern(env, sub)
		}
	case *ast.MappingPattern:
		for _, e := range pat.Entries {
			bindPattern(env, e.Pattern)
		}
		if pat.Rest != "" {
			env.Define(pat.Rest, types.MDict, types.ProvAssign)
		}
	case *ast.StarPattern:
		if pat.Name != "" {
			env.Define(pat.Name, types.MList, types.ProvAssign)
		}
	}
}

// bindAssignTarget implements the per-target-shape assignment rule (spec
// section 4.1.2 Assign): a bare name widens via unionSet on reassignment;
// a subscript/attribute target is checked but not itself re-bound in the
// environment (spec section 3.5: objects and containers carry their own
// mutable storage); a tuple/list target destructures positionally,
// consulting tracked tuple-element kinds from value when available.
func (a *Analyzer) bindAssignTarget(env *types.Env, target ast.Expr, value ast.Expr, valueMask types.Mask) {
	switch t := target.(type) {
	case *ast.Name:
		env.UnionSet(t.Ident, valueMask, types.ProvAssign)
		if valueMask == types.MList {
			if elem, ok := elemMaskOfListExpr(value); ok {
				env.SetListElem(t.Ident, elem)
			}
		}
		if valueMask == types.MTuple {
			if lit, ok := value.(*ast.TupleLit); ok {
				for i, el := range lit.Elements {
					env.SetTupleElem(t.Ident, i, types.FromKind(el.Annotated().Type))
				}
			}
		}

	case *ast.Attribute:
		a.typeExpr(env, t.Base)

	case *ast.Subscript:
		a.typeExpr(env, t.Base)
		a.typeExpr(env, t.Index)

	case *ast.TupleLit:
		a.bindDestructure(env, t.Elements, value)
	case *ast.ListLit:
		a.bindDestructure(env, t.Elements, value)

	default:
		a.errorf(diag.TYP010, target.Position(), "unsupported assignment target %T", target)
	}
}

func (a *Analyzer) bindDestructure(env *types.Env, targets []ast.Expr, value ast.Expr) {
	srcTuple, isTuple := value.(*ast.TupleLit)
	for i, t := range targets {
		var mask types.Mask
		if isTuple && i < len(srcTuple.Elements) {
			mask = types.FromKind(srcTuple.Elements[i].Annotated().Type)
		}
		if name, ok := t.(*ast.Name); ok {
			env.UnionSet(name.Ident, mask, types.ProvAssign)
		}
	}
}

func elemMaskOfListExpr(e ast.Expr) (types.Mask, bool) {
	lit, ok := e.(*ast.ListLit)
	if !ok || len(lit.Elements) == 0 {
		return 0, false
	}
	var union types.Mask
	for _, el := range lit.Elements {
		union = union.Union(types.FromKind(el.Annotated().Type))
	}
	return union, true
}

func (a *Analyzer) bindForTarget(env *types.Env, target ast.Expr, iter ast.Expr, iterMask types.Mask) {
	var elemMask types.Mask
	if iterMask == types.MList {
		if name, ok := iter.(*ast.Name); ok {
			elemMask, _ = env.ListElem(name.Ident)
		}
	}
	switch t := target.(type) {
	case *ast.Name:
		env.Define(t.Ident, elemMask, types.ProvForTarget)
	case *ast.TupleLit:
		for _, el := range t.Elements {
			if name, ok := el.(*ast.Name); ok {
				env.Define(name.Ident, 0, types.ProvForTarget)
			}
		}
	}
}

// typeAugOp routes an augmented assignment's combined operator through
// the normal binary-arithmetic rules, reusing typeBinary's diagnostics by
// constructing the equivalent binary expression.
func (a *Analyzer) typeAugOp(s *ast.AugAssign, lhs, rhs types.Mask) types.Mask {
	switch s.Op {
	case ast.OpAdd:
		if lhs == types.MStr && rhs == types.MStr {
			return types.MStr
		}
		return a.augArith(s, lhs, rhs)
	case ast.OpMul:
		if (lhs == types.MStr && rhs == types.MInt) || (lhs == types.MList && rhs == types.MInt) {
			return lhs
		}
		return a.augArith(s, lhs, rhs)
	case ast.OpSub, ast.OpDiv:
		return a.augArith(s, lhs, rhs)
	case ast.OpMod:
		if lhs != types.MInt || rhs != types.MInt {
			a.errorf(diag.TYP001, s.Pos, "%%= requires two ints, got %s %%= %s", lhs, rhs)
		}
		return types.MInt
	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor, ast.OpLShift, ast.OpRShift:
		if lhs != types.MInt || rhs != types.MInt {
			a.errorf(diag.TYP001, s.Pos, "%s= requires two ints, got %s %s= %s", s.Op, lhs, s.Op, rhs)
		}
		return types.MInt
	default:
		return lhs
	}
}

func (a *Analyzer) augArith(s *ast.AugAssign, lhs, rhs types.Mask) types.Mask {
	if lhs == types.MInt && rhs == types.MInt {
		return types.MInt
	}
	if lhs == types.MFloat && rhs == types.MFloat {
		return types.MFloat
	}
	if lhs == 0 || rhs == 0 {
		return 0
	}
	a.errorf(diag.TYP008, s.Pos, "ambiguous mixed int/float operand to %s=: %s %s= %s", s.Op, lhs, s.Op, rhs)
	return 0
}
