package codegen

import (
	"fmt"

	"github.com/sunholo/pycc/internal/ast"
)

// eval lowers one expression to its LLVM SSA value. It is the Go
// equivalent of the original's recursive `run`/`eval` visitor: a single
// dispatch that every statement emitter calls into (spec section 4.3.2).
func (fe *funcEmitter) eval(e ast.Expr) (Value, error) {
	switch n := e.(type) {
	case *ast.IntLit:
		return Value{Name: fmt.Sprintf("%d", n.Value), Kind: KindI32}, nil
	case *ast.FloatLit:
		return Value{Name: fmt.Sprintf("%g", n.Value), Kind: KindF64}, nil
	case *ast.BoolLit:
		if n.Value {
			return Value{Name: "true", Kind: KindI1}, nil
		}
		return Value{Name: "false", Kind: KindI1}, nil
	case *ast.NoneLit:
		return Value{Name: "null", Kind: KindPtr}, nil
	case *ast.StringLit:
		g := fe.g.strs.intern(n.Value)
		reg := fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = call ptr @string_from_cstr(ptr %s)\n", reg, g))
		return Value{Name: reg, Kind: KindPtr, Tag: TagStr}, nil
	case *ast.Name:
		return fe.evalName(n)
	case *ast.BinaryOp:
		return fe.evalBinary(n)
	case *ast.UnaryOp:
		return fe.evalUnary(n)
	case *ast.CompareChain:
		return fe.evalCompareChain(n)
	case *ast.Call:
		return fe.evalCall(n)
	case *ast.ListLit:
		return fe.evalElements(n.Elements)
	case *ast.TupleLit:
		return fe.evalElements(n.Elements)
	case *ast.DictLit:
		return fe.evalDictLit(n)
	case *ast.ObjectLit:
		return fe.evalObjectLit(n)
	case *ast.Attribute:
		return fe.evalAttribute(n)
	case *ast.Subscript:
		return fe.evalSubscript(n)
	case *ast.IfExpr:
		return fe.evalIfExpr(n)
	default:
		file, line, col := fe.pos(e.Position())
		return Value{}, fe.g.unhandled(file, line, col, e.Kind())
	}
}

func (fe *funcEmitter) evalName(n *ast.Name) (Value, error) {
	s, ok := fe.slots[n.Ident]
	if !ok {
		file, line, col := fe.pos(n.Position())
		return Value{}, fe.g.codErr(file, line, col, "use of undefined name %q", n.Ident)
	}
	reg := fe.newTemp()
	fe.ir.WriteString(fmt.Sprintf("  %s = load %s, ptr %s\n", reg, s.knd.llvm(), s.ptr))
	return Value{Name: reg, Kind: s.knd, Tag: s.tag}, nil
}

// nameTag returns the pointer tag recorded for a bare Name reference, or
// TagUnknown for anything else (string/list/dict literals are tagged by
// their own node kind, not through the slot table).
func (fe *funcEmitter) nameTag(e ast.Expr) PointerTag {
	switch n := e.(type) {
	case *ast.StringLit:
		return TagStr
	case *ast.ListLit, *ast.TupleLit:
		return TagList
	case *ast.DictLit:
		return TagDict
	case *ast.ObjectLit:
		return TagObject
	case *ast.Name:
		if s, ok := fe.slots[n.Ident]; ok {
			return s.tag
		}
	}
	return TagUnknown
}

func (fe *funcEmitter) toBool(v Value) (Value, error) {
	if v.Kind == KindI1 {
		return v, nil
	}
	reg := fe.newTemp()
	switch v.Kind {
	case KindI32:
		fe.ir.WriteString(fmt.Sprintf("  %s = icmp ne i32 %s, 0\n", reg, v.Name))
	case KindF64:
		fe.ir.WriteString(fmt.Sprintf("  %s = fcmp one double %s, 0.0\n", reg, v.Name))
	case KindPtr:
		fe.ir.WriteString(fmt.Sprintf("  %s = icmp ne ptr %s, null\n", reg, v.Name))
	}
	return Value{Name: reg, Kind: KindI1}, nil
}

// box converts v to a boxed ptr value suitable for storage in a list slot,
// dict value, or object field (spec section 4.3.2, 4.4.2 boxed
// primitives).
func (fe *funcEmitter) box(v Value) string {
	if v.Kind == KindPtr {
		return v.Name
	}
	reg := fe.newTemp()
	switch v.Kind {
	case KindI32:
		fe.ir.WriteString(fmt.Sprintf("  %s = call ptr @box_int(i32 %s)\n", reg, v.Name))
	case KindF64:
		fe.ir.WriteString(fmt.Sprintf("  %s = call ptr @box_float(double %s)\n", reg, v.Name))
	case KindI1:
		fe.ir.WriteString(fmt.Sprintf("  %s = call ptr @box_bool(i1 %s)\n", reg, v.Name))
	}
	return reg
}
