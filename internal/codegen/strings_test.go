package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringPoolDedupesIdenticalLiterals(t *testing.T) {
	p := newStringPool()

	a := p.intern("hello")
	b := p.intern("hello")
	c := p.intern("world")

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, p.order, 2)
}

func TestStringPoolEmitGlobalsRendersEveryEntryOnce(t *testing.T) {
	p := newStringPool()
	p.intern("abc")
	p.intern("xyz")

	out := p.emitGlobals()

	require.Equal(t, 2, strings.Count(out, "private unnamed_addr constant"))
	require.Contains(t, out, `c"abc\00"`)
	require.Contains(t, out, `c"xyz\00"`)
}

func TestEscapeIRStringEscapesQuotesBackslashesAndControlBytes(t *testing.T) {
	require.Equal(t, `a\22b`, escapeIRString(`a"b`))
	require.Equal(t, `a\5Cb`, escapeIRString(`a\b`))
	require.Equal(t, `a\0Ab`, escapeIRString("a\nb"))
	require.Equal(t, "plain", escapeIRString("plain"))
}
