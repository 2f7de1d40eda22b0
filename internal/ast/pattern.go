package ast

import "fmt"

type patternBase struct {
	Pos Pos
}

func (b *patternBase) Position() Pos { return b.Pos }

// WildcardPattern matches anything and binds nothing (`case _:`).
type WildcardPattern struct{ patternBase }

func (n *WildcardPattern) Kind() NodeKind  { return KindUnknown }
func (n *WildcardPattern) String() string  { return "_" }
func (n *WildcardPattern) patternNode()    {}

// NamePattern binds the matched value to a name (`case x:`).
type NamePattern struct {
	patternBase
	Name string
}

func (n *NamePattern) Kind() NodeKind { return KindUnknown }
func (n *NamePattern) String() string { return n.Name }
func (n *NamePattern) patternNode()   {}

// LiteralPattern matches an exact literal value.
type LiteralPattern struct {
	patternBase
	Value Expr
}

func (n *LiteralPattern) Kind() NodeKind { return KindUnknown }
func (n *LiteralPattern) String() string { return n.Value.String() }
func (n *LiteralPattern) patternNode()   {}

// OrPattern matches if any alternative matches (`case a | b:`).
type OrPattern struct {
	patternBase
	Alternatives []Pattern
}

func (n *OrPattern) Kind() NodeKind { return KindUnknown }
func (n *OrPattern) String() string { return "pattern|pattern" }
func (n *OrPattern) patternNode()   {}

// AsPattern binds the whole matched value to Name in addition to matching
// Inner (`case Inner() as name:`).
type AsPattern struct {
	patternBase
	Inner Pattern
	Name  string
}

func (n *AsPattern) Kind() NodeKind { return KindUnknown }
func (n *AsPattern) String() string { return fmt.Sprintf("%s as %s", n.Inner, n.Name) }
func (n *AsPattern) patternNode()   {}

// ClassPattern matches an instance of ClassName and destructures its
// positional/keyword fields.
type ClassPattern struct {
	patternBase
	ClassName    string
	Positional   []Pattern
	KeywordNames []string
	KeywordPats  []Pattern
}

func (n *ClassPattern) Kind() NodeKind { return KindUnknown }
func (n *ClassPattern) String() string { return fmt.Sprintf("%s(...)", n.ClassName) }
func (n *ClassPattern) patternNode()   {}

// SequencePattern matches a list/tuple, with at most one StarPattern among
// Elements standing in for "the rest".
type SequencePattern struct {
	patternBase
	Elements []Pattern
}

func (n *SequencePattern) Kind() NodeKind { return KindUnknown }
func (n *SequencePattern) String() string { return "[...]" }
func (n *SequencePattern) patternNode()   {}

// MappingEntry is one `key: pattern` entry of a MappingPattern.
type MappingEntry struct {
	Key     Expr
	Pattern Pattern
}

// MappingPattern matches a dict, with an optional `**rest` binding.
type MappingPattern struct {
	patternBase
	Entries []MappingEntry
	Rest    string // empty if no `**rest`
}

func (n *MappingPattern) Kind() NodeKind { return KindUnknown }
func (n *MappingPattern) String() string { return "{...}" }
func (n *MappingPattern) patternNode()   {}

// StarPattern is the `*name` / `*_` rest-binding inside a SequencePattern.
type StarPattern struct {
	patternBase
	Name string // empty for `*_`
}

func (n *StarPattern) Kind() NodeKind { return KindUnknown }
func (n *StarPattern) String() string { return "*" + n.Name }
func (n *StarPattern) patternNode()   {}
