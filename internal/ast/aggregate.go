package ast

import (
	"fmt"
	"strings"
)

func joinExprs(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// TupleLit is a tuple literal. Non-nil, possibly empty (spec section 3.1
// invariant: element vectors are non-null once constructed).
type TupleLit struct {
	base
	Elements []Expr
}

func (n *TupleLit) Kind() NodeKind { return KindTupleLit }
func (n *TupleLit) String() string { return fmt.Sprintf("(%s)", joinExprs(n.Elements)) }
func (n *TupleLit) exprNode()      {}

// ListLit is a list literal.
type ListLit struct {
	base
	Elements []Expr
}

func (n *ListLit) Kind() NodeKind { return KindListLit }
func (n *ListLit) String() string { return fmt.Sprintf("[%s]", joinExprs(n.Elements)) }
func (n *ListLit) exprNode()      {}

// SetLit is a set literal.
type SetLit struct {
	base
	Elements []Expr
}

func (n *SetLit) Kind() NodeKind { return KindSetLit }
func (n *SetLit) String() string { return fmt.Sprintf("{%s}", joinExprs(n.Elements)) }
func (n *SetLit) exprNode()      {}

// DictEntry is one key/value pair of a dict literal, or a `**unpack` entry
// when Key is nil (spec section 3.1).
type DictEntry struct {
	Key   Expr // nil for **unpack entries
	Value Expr
}

// DictLit is a dict literal.
type DictLit struct {
	base
	Entries []DictEntry
}

func (n *DictLit) Kind() NodeKind { return KindDictLit }
func (n *DictLit) String() string {
	parts := make([]string, len(n.Entries))
	for i, e := range n.Entries {
		if e.Key == nil {
			parts[i] = fmt.Sprintf("**%s", e.Value)
		} else {
			parts[i] = fmt.Sprintf("%s: %s", e.Key, e.Value)
		}
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}
func (n *DictLit) exprNode() {}

// ObjectLit is a positional fixed-size-field object literal.
type ObjectLit struct {
	base
	ClassName string
	Fields    []Expr
}

func (n *ObjectLit) Kind() NodeKind { return KindObjectLit }
func (n *ObjectLit) String() string {
	return fmt.Sprintf("%s(%s)", n.ClassName, joinExprs(n.Fields))
}
func (n *ObjectLit) exprNode() {}

// --- Control expressions -------------------------------------------------

// Lambda is `lambda params: body`.
type Lambda struct {
	base
	Params []*Param
	Body   Expr
}

func (n *Lambda) Kind() NodeKind { return KindLambda }
func (n *Lambda) String() string {
	names := make([]string, len(n.Params))
	for i, p := range n.Params {
		names[i] = p.Name
	}
	return fmt.Sprintf("lambda %s: %s", strings.Join(names, ", "), n.Body)
}
func (n *Lambda) exprNode() {}

// Param is a function/lambda parameter declaration.
type Param struct {
	Name       string
	Annotated  *TypeKind // nil when unannotated
	IsVarArg   bool
	IsKwVarArg bool
	IsKwOnly   bool
	IsPosOnly  bool
	HasDefault bool
	Default    Expr
}

// IfExpr is the conditional expression `then if cond else els`.
type IfExpr struct {
	base
	Cond Expr
	Then Expr
	Else Expr
}

func (n *IfExpr) Kind() NodeKind { return KindIfExpr }
func (n *IfExpr) String() string {
	return fmt.Sprintf("(%s if %s else %s)", n.Then, n.Cond, n.Else)
}
func (n *IfExpr) exprNode() {}

// Await is `await expr`.
type Await struct {
	base
	Value Expr
}

func (n *Await) Kind() NodeKind { return KindAwait }
func (n *Await) String() string { return fmt.Sprintf("await %s", n.Value) }
func (n *Await) exprNode()      {}

// Yield is `yield expr` or, when From is true, `yield from expr`.
type Yield struct {
	base
	Value Expr // nil for a bare `yield`
	From  bool
}

func (n *Yield) Kind() NodeKind { return KindYield }
func (n *Yield) String() string {
	if n.From {
		return fmt.Sprintf("yield from %s", n.Value)
	}
	if n.Value == nil {
		return "yield"
	}
	return fmt.Sprintf("yield %s", n.Value)
}
func (n *Yield) exprNode() {}

// ComprehensionKind distinguishes the four comprehension forms.
type ComprehensionKind int

const (
	CompList ComprehensionKind = iota
	CompSet
	CompDict
	CompGenerator
)

// CompClause is one `for target in iter [if cond]*` clause of a
// comprehension.
type CompClause struct {
	Target Expr // Name or destructuring target
	Iter   Expr
	Ifs    []Expr
}

// Comprehension covers list/set/dict/generator comprehensions.
type Comprehension struct {
	base
	CompKind ComprehensionKind
	Element  Expr // value expression (list/set/generator) or dict value
	Key      Expr // dict key expression; nil otherwise
	Clauses  []CompClause
}

func (n *Comprehension) Kind() NodeKind { return KindComprehension }
func (n *Comprehension) String() string {
	var sb strings.Builder
	if n.Key != nil {
		fmt.Fprintf(&sb, "%s: %s", n.Key, n.Element)
	} else {
		sb.WriteString(n.Element.String())
	}
	for _, c := range n.Clauses {
		fmt.Fprintf(&sb, " for %s in %s", c.Target, c.Iter)
		for _, cond := range c.Ifs {
			fmt.Fprintf(&sb, " if %s", cond)
		}
	}
	switch n.CompKind {
	case CompList:
		return "[" + sb.String() + "]"
	case CompSet, CompDict:
		return "{" + sb.String() + "}"
	default:
		return "(" + sb.String() + ")"
	}
}
func (n *Comprehension) exprNode() {}
