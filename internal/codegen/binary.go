package codegen

import (
	"fmt"

	"github.com/sunholo/pycc/internal/ast"
)

var intCmpPred = map[ast.CmpOp]string{
	ast.CmpEq: "eq", ast.CmpNe: "ne", ast.CmpLt: "slt", ast.CmpLe: "sle",
	ast.CmpGt: "sgt", ast.CmpGe: "sge", ast.CmpIs: "eq", ast.CmpIsNot: "ne",
}

var floatCmpPred = map[ast.CmpOp]string{
	ast.CmpEq: "oeq", ast.CmpNe: "one", ast.CmpLt: "olt", ast.CmpLe: "ole",
	ast.CmpGt: "ogt", ast.CmpGe: "oge", ast.CmpIs: "oeq", ast.CmpIsNot: "one",
}

var ptrCmpPred = map[ast.CmpOp]string{ast.CmpEq: "eq", ast.CmpIs: "eq", ast.CmpNe: "ne", ast.CmpIsNot: "ne"}

// evalCompareChain lowers a flattened `a op0 b op1 c ...` chain as an
// `and i1` conjunction of pairwise comparisons (each comparator is
// evaluated once and reused as the next pair's left operand). Every
// comparator is evaluated; the chain does not short-circuit.
func (fe *funcEmitter) evalCompareChain(n *ast.CompareChain) (Value, error) {
	left, err := fe.eval(n.Left)
	if err != nil {
		return Value{}, err
	}
	var accum string
	for i, op := range n.Ops {
		right, err := fe.eval(n.Comparators[i])
		if err != nil {
			return Value{}, err
		}
		step, err := fe.evalOneComparison(n, op, left, right)
		if err != nil {
			return Value{}, err
		}
		if accum == "" {
			accum = step.Name
		} else {
			reg := fe.newTemp()
			fe.ir.WriteString(fmt.Sprintf("  %s = and i1 %s, %s\n", reg, accum, step.Name))
			accum = reg
		}
		left = right
	}
	return Value{Name: accum, Kind: KindI1}, nil
}

func (fe *funcEmitter) evalOneComparison(n ast.Expr, op ast.CmpOp, l, r Value) (Value, error) {
	reg := fe.newTemp()
	switch {
	case l.Kind == KindI32 && r.Kind == KindI32:
		fe.ir.WriteString(fmt.Sprintf("  %s = icmp %s i32 %s, %s\n", reg, intCmpPred[op], l.Name, r.Name))
	case l.Kind == KindF64 && r.Kind == KindF64:
		fe.ir.WriteString(fmt.Sprintf("  %s = fcmp %s double %s, %s\n", reg, floatCmpPred[op], l.Name, r.Name))
	case l.Kind == KindPtr && r.Kind == KindPtr:
		pred, ok := ptrCmpPred[op]
		if !ok {
			file, line, col := fe.pos(n.Position())
			return Value{}, fe.g.codErr(file, line, col, "unsupported pointer comparison %s", op)
		}
		fe.ir.WriteString(fmt.Sprintf("  %s = icmp %s ptr %s, %s\n", reg, pred, l.Name, r.Name))
	default:
		file, line, col := fe.pos(n.Position())
		return Value{}, fe.g.codErr(file, line, col, "mismatched operand kinds in comparison")
	}
	return Value{Name: reg, Kind: KindI1}, nil
}

var intArithOp = map[ast.BinOp]string{ast.OpAdd: "add", ast.OpSub: "sub", ast.OpMul: "mul", ast.OpDiv: "sdiv", ast.OpMod: "srem"}
var floatArithOp = map[ast.BinOp]string{ast.OpAdd: "fadd", ast.OpSub: "fsub", ast.OpMul: "fmul", ast.OpDiv: "fdiv"}
var bitwiseOp = map[ast.BinOp]string{ast.OpBitAnd: "and", ast.OpBitOr: "or", ast.OpBitXor: "xor", ast.OpLShift: "shl", ast.OpRShift: "ashr"}

// evalBinary lowers every ast.BinaryOp case: logical and/or short-circuit
// via branch+phi, bitwise/shift ops on ints, floor-div and pow through the
// appropriate llvm intrinsic, string concatenation/repetition through the
// runtime, and plain arithmetic otherwise (spec section 4.3.2).
func (fe *funcEmitter) evalBinary(n *ast.BinaryOp) (Value, error) {
	if n.Op == ast.OpAnd || n.Op == ast.OpOr {
		return fe.evalShortCircuit(n)
	}

	l, err := fe.eval(n.Left)
	if err != nil {
		return Value{}, err
	}
	r, err := fe.eval(n.Right)
	if err != nil {
		return Value{}, err
	}

	if op, ok := bitwiseOp[n.Op]; ok {
		if l.Kind != KindI32 || r.Kind != KindI32 {
			file, line, col := fe.pos(n.Position())
			return Value{}, fe.g.codErr(file, line, col, "bitwise/shift requires int operands")
		}
		reg := fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = %s i32 %s, %s\n", reg, op, l.Name, r.Name))
		return Value{Name: reg, Kind: KindI32}, nil
	}

	if n.Op == ast.OpFloorDiv {
		return fe.evalFloorDiv(n, l, r)
	}
	if n.Op == ast.OpPow {
		return fe.evalPow(n, l, r)
	}

	if l.Kind == KindPtr && r.Kind == KindPtr && n.Op == ast.OpAdd &&
		fe.nameTag(n.Left) == TagStr && fe.nameTag(n.Right) == TagStr {
		reg := fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = call ptr @string_concat(ptr %s, ptr %s)\n", reg, l.Name, r.Name))
		return Value{Name: reg, Kind: KindPtr, Tag: TagStr}, nil
	}
	if (l.Kind == KindPtr && r.Kind == KindI32) || (l.Kind == KindI32 && r.Kind == KindPtr) {
		if n.Op != ast.OpMul {
			file, line, col := fe.pos(n.Position())
			return Value{}, fe.g.codErr(file, line, col, "unsupported operator on str,int operands")
		}
		strV, intV := l.Name, r.Name
		if l.Kind == KindI32 {
			strV, intV = r.Name, l.Name
		}
		intV = fe.toI64(Value{Name: intV, Kind: KindI32})
		reg := fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = call ptr @string_repeat(ptr %s, i64 %s)\n", reg, strV, intV))
		return Value{Name: reg, Kind: KindPtr, Tag: TagStr}, nil
	}

	if l.Kind == KindI32 && r.Kind == KindI32 {
		reg := fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = %s i32 %s, %s\n", reg, intArithOp[n.Op], l.Name, r.Name))
		return Value{Name: reg, Kind: KindI32}, nil
	}
	if l.Kind == KindF64 && r.Kind == KindF64 {
		if n.Op == ast.OpMod {
			file, line, col := fe.pos(n.Position())
			return Value{}, fe.g.codErr(file, line, col, "float mod is not supported")
		}
		reg := fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = %s double %s, %s\n", reg, floatArithOp[n.Op], l.Name, r.Name))
		return Value{Name: reg, Kind: KindF64}, nil
	}

	file, line, col := fe.pos(n.Position())
	return Value{}, fe.g.codErr(file, line, col, "arithmetic type mismatch")
}

func (fe *funcEmitter) evalFloorDiv(n *ast.BinaryOp, l, r Value) (Value, error) {
	if l.Kind == KindI32 && r.Kind == KindI32 {
		q, rem, nz, sx, neg, adj, fix, reg := fe.newTemp(), fe.newTemp(), fe.newTemp(), fe.newTemp(), fe.newTemp(), fe.newTemp(), fe.newTemp(), fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = sdiv i32 %s, %s\n", q, l.Name, r.Name))
		fe.ir.WriteString(fmt.Sprintf("  %s = srem i32 %s, %s\n", rem, l.Name, r.Name))
		fe.ir.WriteString(fmt.Sprintf("  %s = icmp ne i32 %s, 0\n", nz, rem))
		fe.ir.WriteString(fmt.Sprintf("  %s = xor i32 %s, %s\n", sx, rem, r.Name))
		fe.ir.WriteString(fmt.Sprintf("  %s = icmp slt i32 %s, 0\n", neg, sx))
		fe.ir.WriteString(fmt.Sprintf("  %s = and i1 %s, %s\n", adj, nz, neg))
		fe.ir.WriteString(fmt.Sprintf("  %s = zext i1 %s to i32\n", fix, adj))
		fe.ir.WriteString(fmt.Sprintf("  %s = sub i32 %s, %s\n", reg, q, fix))
		return Value{Name: reg, Kind: KindI32}, nil
	}
	if l.Kind == KindF64 {
		rhs := r.Name
		if r.Kind == KindI32 {
			c := fe.newTemp()
			fe.ir.WriteString(fmt.Sprintf("  %s = sitofp i32 %s to double\n", c, r.Name))
			rhs = c
		}
		q := fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = fdiv double %s, %s\n", q, l.Name, rhs))
		flo := fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = call double @llvm.floor.f64(double %s)\n", flo, q))
		return Value{Name: flo, Kind: KindF64}, nil
	}
	file, line, col := fe.pos(n.Position())
	return Value{}, fe.g.codErr(file, line, col, "unsupported operand types for //")
}

func (fe *funcEmitter) evalPow(n *ast.BinaryOp, l, r Value) (Value, error) {
	if l.Kind == KindI32 && r.Kind == KindI32 {
		base := fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = sitofp i32 %s to double\n", base, l.Name))
		res := fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = call double @llvm.powi.f64(double %s, i32 %s)\n", res, base, r.Name))
		back := fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = fptosi double %s to i32\n", back, res))
		return Value{Name: back, Kind: KindI32}, nil
	}
	if l.Kind == KindF64 {
		res := fe.newTemp()
		if r.Kind == KindI32 {
			fe.ir.WriteString(fmt.Sprintf("  %s = call double @llvm.powi.f64(double %s, i32 %s)\n", res, l.Name, r.Name))
		} else if r.Kind == KindF64 {
			fe.ir.WriteString(fmt.Sprintf("  %s = call double @llvm.pow.f64(double %s, double %s)\n", res, l.Name, r.Name))
		} else {
			file, line, col := fe.pos(n.Position())
			return Value{}, fe.g.codErr(file, line, col, "unsupported operand types for **")
		}
		return Value{Name: res, Kind: KindF64}, nil
	}
	file, line, col := fe.pos(n.Position())
	return Value{}, fe.g.codErr(file, line, col, "unsupported operand types for **")
}

func (fe *funcEmitter) evalShortCircuit(n *ast.BinaryOp) (Value, error) {
	l, err := fe.eval(n.Left)
	if err != nil {
		return Value{}, err
	}
	l, err = fe.toBool(l)
	if err != nil {
		return Value{}, err
	}
	id := fe.scCounter
	fe.scCounter++

	if n.Op == ast.OpAnd {
		rhsLbl := fmt.Sprintf("and.rhs%d", id)
		falseLbl := fmt.Sprintf("and.false%d", id)
		endLbl := fmt.Sprintf("and.end%d", id)
		fe.ir.WriteString(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s\n", l.Name, rhsLbl, falseLbl))
		fe.ir.WriteString(rhsLbl + ":\n")
		r, err := fe.eval(n.Right)
		if err != nil {
			return Value{}, err
		}
		r, err = fe.toBool(r)
		if err != nil {
			return Value{}, err
		}
		fe.ir.WriteString(fmt.Sprintf("  br label %%%s\n", endLbl))
		fe.ir.WriteString(falseLbl + ":\n  br label %" + endLbl + "\n")
		fe.ir.WriteString(endLbl + ":\n")
		reg := fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = phi i1 [ %s, %%%s ], [ false, %%%s ]\n", reg, r.Name, rhsLbl, falseLbl))
		return Value{Name: reg, Kind: KindI1}, nil
	}

	trueLbl := fmt.Sprintf("or.true%d", id)
	rhsLbl := fmt.Sprintf("or.rhs%d", id)
	endLbl := fmt.Sprintf("or.end%d", id)
	fe.ir.WriteString(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s\n", l.Name, trueLbl, rhsLbl))
	fe.ir.WriteString(trueLbl + ":\n  br label %" + endLbl + "\n")
	fe.ir.WriteString(rhsLbl + ":\n")
	r, err := fe.eval(n.Right)
	if err != nil {
		return Value{}, err
	}
	r, err = fe.toBool(r)
	if err != nil {
		return Value{}, err
	}
	fe.ir.WriteString(fmt.Sprintf("  br label %%%s\n", endLbl))
	fe.ir.WriteString(endLbl + ":\n")
	reg := fe.newTemp()
	fe.ir.WriteString(fmt.Sprintf("  %s = phi i1 [ true, %%%s ], [ %s, %%%s ]\n", reg, trueLbl, r.Name, rhsLbl))
	return Value{Name: reg, Kind: KindI1}, nil
}

// evalUnary lowers negation, boolean not, and bitwise complement.
func (fe *funcEmitter) evalUnary(n *ast.UnaryOp) (Value, error) {
	v, err := fe.eval(n.Operand)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case ast.OpNeg:
		reg := fe.newTemp()
		if v.Kind == KindI32 {
			fe.ir.WriteString(fmt.Sprintf("  %s = sub i32 0, %s\n", reg, v.Name))
			return Value{Name: reg, Kind: KindI32}, nil
		}
		if v.Kind == KindF64 {
			fe.ir.WriteString(fmt.Sprintf("  %s = fneg double %s\n", reg, v.Name))
			return Value{Name: reg, Kind: KindF64}, nil
		}
	case ast.OpNot:
		b, err := fe.toBool(v)
		if err != nil {
			return Value{}, err
		}
		reg := fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = xor i1 %s, true\n", reg, b.Name))
		return Value{Name: reg, Kind: KindI1}, nil
	case ast.OpBitNot:
		if v.Kind == KindI32 {
			reg := fe.newTemp()
			fe.ir.WriteString(fmt.Sprintf("  %s = xor i32 %s, -1\n", reg, v.Name))
			return Value{Name: reg, Kind: KindI32}, nil
		}
	}
	file, line, col := fe.pos(n.Position())
	return Value{}, fe.g.codErr(file, line, col, "unsupported operand kind for unary %s", n.Op)
}
