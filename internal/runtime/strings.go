package runtime

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// StringObj is pycc's immutable string object: a decoded byte sequence
// plus its charge against the heap's stats, per the "Strings" family of
// runtime_decls.go.
type StringObj struct {
	hdr  *ObjectHeader
	Data string
}

func newStringObj(data string) *StringObj {
	s := &StringObj{Data: data}
	s.hdr = std.alloc(TagString, uint64(len(data)), s)
	return s
}

func StringNew(data []byte) *StringObj     { return newStringObj(string(data)) }
func StringFromCStr(cstr string) *StringObj { return newStringObj(cstr) }
func StringLen(s *StringObj) uint64         { return uint64(len(s.Data)) }
func StringData(s *StringObj) []byte        { return []byte(s.Data) }
func StringEq(a, b *StringObj) bool         { return a.Data == b.Data }

func StringConcat(a, b *StringObj) *StringObj {
	return newStringObj(a.Data + b.Data)
}

// StringSlice takes start/length in Unicode code points, not bytes (spec
// section 4.4.5: "slice uses Unicode code points").
func StringSlice(s *StringObj, start, length uint64) *StringObj {
	runes := []rune(s.Data)
	if start > uint64(len(runes)) {
		start = uint64(len(runes))
	}
	end := start + length
	if end > uint64(len(runes)) {
		end = uint64(len(runes))
	}
	return newStringObj(string(runes[start:end]))
}

func StringRepeat(s *StringObj, n uint64) *StringObj {
	return newStringObj(strings.Repeat(s.Data, int(n)))
}

func StringContains(haystack, needle *StringObj) bool {
	return strings.Contains(haystack.Data, needle.Data)
}

func StringCharLen(s *StringObj) uint64 {
	return uint64(utf8.RuneCountInString(s.Data))
}

// StringNormalize applies Unicode NFC normalization via golang.org/x/text,
// the same family the original runtime gates behind PYCC_WITH_ICU; pycc
// always has a normalizer available, so unlike the original's ICU-absent
// fallback (a shallow no-op copy) this always performs real NFC folding.
func StringNormalize(s *StringObj) *StringObj {
	return newStringObj(norm.NFC.String(s.Data))
}

// StringCasefold implements Unicode case folding (used for
// case-insensitive comparisons) via x/text/cases, which folds beyond simple
// lower-casing (e.g. German sharp s).
func StringCasefold(s *StringObj) *StringObj {
	folded := cases.Fold().String(s.Data)
	return newStringObj(folded)
}

// StringEncode encodes s as UTF-8 bytes. pycc's subset only supports the
// "utf-8" and "ascii" encodings (spec section 4.4.5); since StringObj
// already stores UTF-8 internally, encode is the identity transform,
// matching the original's string_encode doc comment.
func StringEncode(s *StringObj) *BytesObj {
	return newBytesObj([]byte(s.Data))
}

// StringBytesDecode decodes b's bytes as a string, replacing invalid UTF-8
// sequences with the replacement rune when replace is true (mirroring the
// original's errors="replace" mode) or truncating at the first invalid
// byte when false (errors="strict").
func StringBytesDecode(b *BytesObj, replace bool) *StringObj {
	if utf8.Valid(b.Data) {
		return newStringObj(string(b.Data))
	}
	if replace {
		return newStringObj(strings.ToValidUTF8(string(b.Data), "�"))
	}
	valid := b.Data
	for i := 0; i < len(valid); {
		r, size := utf8.DecodeRune(valid[i:])
		if r == utf8.RuneError && size == 1 {
			return newStringObj(string(valid[:i]))
		}
		i += size
	}
	return newStringObj(string(valid))
}

func StringUTF8IsValid(data []byte) bool { return utf8.Valid(data) }
