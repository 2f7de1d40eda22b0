package codegen

import (
	"fmt"

	"github.com/sunholo/pycc/internal/ast"
)

// evalElements lowers a tuple or list literal by allocating a runtime
// list and pushing each (boxed) element into it, matching the "List" and
// "Tuple" cases of spec section 4.3.4 "Aggregate literals": both are
// represented at runtime as a growable list since pycc doesn't need the
// immutability distinction at codegen time.
func (fe *funcEmitter) evalElements(elems []ast.Expr) (Value, error) {
	list := fe.newTemp()
	fe.ir.WriteString(fmt.Sprintf("  %s = call ptr @list_new()\n", list))
	for _, el := range elems {
		v, err := fe.eval(el)
		if err != nil {
			return Value{}, err
		}
		boxed := fe.box(v)
		slotPtr := fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = call ptr @list_push_slot(ptr %s)\n", slotPtr, list))
		fe.ir.WriteString(fmt.Sprintf("  store ptr %s, ptr %s\n", boxed, slotPtr))
		fe.ir.WriteString(fmt.Sprintf("  call void @gc_write_barrier(ptr %s, ptr %s)\n", slotPtr, boxed))
	}
	return Value{Name: list, Kind: KindPtr, Tag: TagList}, nil
}

// evalDictLit lowers a dict literal by allocating a runtime dict and
// inserting each key/value pair (spec section 4.3.4). A **unpack entry
// (nil Key) is left unhandled; the original codegen has no merge-dict
// lowering either.
func (fe *funcEmitter) evalDictLit(n *ast.DictLit) (Value, error) {
	d := fe.newTemp()
	fe.ir.WriteString(fmt.Sprintf("  %s = call ptr @dict_new()\n", d))
	for _, entry := range n.Entries {
		if entry.Key == nil {
			file, line, col := fe.pos(n.Position())
			return Value{}, fe.g.codErr(file, line, col, "dict merge-unpack entries are not supported by codegen")
		}
		k, err := fe.eval(entry.Key)
		if err != nil {
			return Value{}, err
		}
		v, err := fe.eval(entry.Value)
		if err != nil {
			return Value{}, err
		}
		kb := fe.box(k)
		vb := fe.box(v)
		fe.ir.WriteString(fmt.Sprintf("  call void @dict_set(ptr %s, ptr %s, ptr %s)\n", d, kb, vb))
	}
	return Value{Name: d, Kind: KindPtr, Tag: TagDict}, nil
}

// evalObjectLit lowers a positional object literal by allocating a fixed
// field-count object and setting each field (spec section 4.3.4).
func (fe *funcEmitter) evalObjectLit(n *ast.ObjectLit) (Value, error) {
	obj := fe.newTemp()
	fe.ir.WriteString(fmt.Sprintf("  %s = call ptr @object_new(i64 %d)\n", obj, len(n.Fields)))
	for i, field := range n.Fields {
		v, err := fe.eval(field)
		if err != nil {
			return Value{}, err
		}
		boxed := fe.box(v)
		fe.ir.WriteString(fmt.Sprintf("  call void @object_set(ptr %s, i64 %d, ptr %s)\n", obj, i, boxed))
	}
	return Value{Name: obj, Kind: KindPtr, Tag: TagObject}, nil
}

func (fe *funcEmitter) evalAttribute(n *ast.Attribute) (Value, error) {
	base, err := fe.eval(n.Base)
	if err != nil {
		return Value{}, err
	}
	nameGlobal := fe.g.strs.intern(n.Attr)
	key := fe.newTemp()
	fe.ir.WriteString(fmt.Sprintf("  %s = call ptr @string_from_cstr(ptr %s)\n", key, nameGlobal))
	reg := fe.newTemp()
	fe.ir.WriteString(fmt.Sprintf("  %s = call ptr @object_get_attr(ptr %s, ptr %s)\n", reg, base.Name, key))
	return Value{Name: reg, Kind: KindPtr}, nil
}

// evalSubscript lowers `base[index]` for list and dict bases (spec
// section 4.3.2). Anything else requires a pointer tag codegen doesn't
// have, which is reported as COD003.
func (fe *funcEmitter) evalSubscript(n *ast.Subscript) (Value, error) {
	base, err := fe.eval(n.Base)
	if err != nil {
		return Value{}, err
	}
	tag := fe.nameTag(n.Base)
	idx, err := fe.eval(n.Index)
	if err != nil {
		return Value{}, err
	}
	switch tag {
	case TagList:
		idx64 := fe.toI64(idx)
		reg := fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = call ptr @list_get(ptr %s, i64 %s)\n", reg, base.Name, idx64))
		return Value{Name: reg, Kind: KindPtr}, nil
	case TagDict:
		keyBoxed := fe.box(idx)
		reg := fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = call ptr @dict_get(ptr %s, ptr %s)\n", reg, base.Name, keyBoxed))
		return Value{Name: reg, Kind: KindPtr}, nil
	default:
		file, line, col := fe.pos(n.Position())
		return Value{}, fe.g.missingTag(file, line, col, "subscript base")
	}
}

func (fe *funcEmitter) toI64(v Value) string {
	if v.Kind == KindI32 {
		reg := fe.newTemp()
		fe.ir.WriteString(fmt.Sprintf("  %s = sext i32 %s to i64\n", reg, v.Name))
		return reg
	}
	return v.Name
}

// evalIfExpr lowers the conditional expression `then if cond else els` via
// a branch-and-phi, the same shape the original uses for `and`/`or`
// short-circuiting (spec section 4.3.2).
func (fe *funcEmitter) evalIfExpr(n *ast.IfExpr) (Value, error) {
	cond, err := fe.eval(n.Cond)
	if err != nil {
		return Value{}, err
	}
	cond, err = fe.toBool(cond)
	if err != nil {
		return Value{}, err
	}
	id := fe.scCounter
	fe.scCounter++
	thenLbl := fmt.Sprintf("ifexpr.then%d", id)
	elseLbl := fmt.Sprintf("ifexpr.else%d", id)
	endLbl := fmt.Sprintf("ifexpr.end%d", id)
	fe.ir.WriteString(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s\n", cond.Name, thenLbl, elseLbl))
	fe.ir.WriteString(thenLbl + ":\n")
	thenV, err := fe.eval(n.Then)
	if err != nil {
		return Value{}, err
	}
	fe.ir.WriteString(fmt.Sprintf("  br label %%%s\n", endLbl))
	fe.ir.WriteString(elseLbl + ":\n")
	elseV, err := fe.eval(n.Else)
	if err != nil {
		return Value{}, err
	}
	fe.ir.WriteString(fmt.Sprintf("  br label %%%s\n", endLbl))
	fe.ir.WriteString(endLbl + ":\n")
	if thenV.Kind != elseV.Kind {
		file, line, col := fe.pos(n.Position())
		return Value{}, fe.g.codErr(file, line, col, "if-expr branches have mismatched value kinds")
	}
	reg := fe.newTemp()
	fe.ir.WriteString(fmt.Sprintf("  %s = phi %s [ %s, %%%s ], [ %s, %%%s ]\n",
		reg, thenV.Kind.llvm(), thenV.Name, thenLbl, elseV.Name, elseLbl))
	return Value{Name: reg, Kind: thenV.Kind, Tag: thenV.Tag}, nil
}
