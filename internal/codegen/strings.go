package codegen

import (
	"fmt"
	"hash/fnv"
)

// stringPool deduplicates every distinct string literal encountered while
// lowering a module into one private global constant, keyed by an FNV-1a
// hash of its bytes (spec section 4.3.1: "global private constants for
// every distinct string literal (deduplicated by an FNV-1a hash)").
type stringPool struct {
	byHash map[uint64]string // hash -> global name
	values map[string]string // global name -> original bytes
	order  []string          // insertion order, for deterministic IR output
}

func newStringPool() *stringPool {
	return &stringPool{byHash: make(map[uint64]string), values: make(map[string]string)}
}

// intern returns the global name for s, creating it on first use. Two
// different strings that happen to collide on the same FNV-1a hash get
// distinct globals (the hash only picks the dedup bucket; pool membership
// is still keyed by the literal bytes within it).
func (p *stringPool) intern(s string) string {
	h := fnv.New64a()
	h.Write([]byte(s))
	sum := h.Sum64()
	if name, ok := p.byHash[sum]; ok && p.values[name] == s {
		return name
	}
	name := fmt.Sprintf("@.str.%x.%d", sum, len(p.order))
	p.byHash[sum] = name
	p.values[name] = s
	p.order = append(p.order, name)
	return name
}

// emitGlobals renders every interned string as a private unnamed_addr
// constant global, in insertion order.
func (p *stringPool) emitGlobals() string {
	out := ""
	for _, name := range p.order {
		s := p.values[name]
		bytes := []byte(s)
		out += fmt.Sprintf("%s = private unnamed_addr constant [%d x i8] c\"%s\\00\"\n",
			name, len(bytes)+1, escapeIRString(s))
	}
	return out
}

func escapeIRString(s string) string {
	out := make([]byte, 0, len(s))
	for _, b := range []byte(s) {
		if b == '"' || b == '\\' || b < 0x20 || b >= 0x7f {
			out = append(out, []byte(fmt.Sprintf("\\%02X", b))...)
			continue
		}
		out = append(out, b)
	}
	return string(out)
}
