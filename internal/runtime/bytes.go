package runtime

import "bytes"

// BytesObj is pycc's immutable bytes object.
type BytesObj struct {
	hdr  *ObjectHeader
	Data []byte
}

func newBytesObj(data []byte) *BytesObj {
	cp := make([]byte, len(data))
	copy(cp, data)
	b := &BytesObj{Data: cp}
	b.hdr = std.alloc(TagBytes, uint64(len(cp)), b)
	return b
}

func BytesNew(data []byte) *BytesObj { return newBytesObj(data) }
func BytesLen(b *BytesObj) uint64    { return uint64(len(b.Data)) }
func BytesData(b *BytesObj) []byte   { return b.Data }

func BytesSlice(b *BytesObj, start, length uint64) *BytesObj {
	if start > uint64(len(b.Data)) {
		start = uint64(len(b.Data))
	}
	end := start + length
	if end > uint64(len(b.Data)) {
		end = uint64(len(b.Data))
	}
	return newBytesObj(b.Data[start:end])
}

func BytesConcat(a, b *BytesObj) *BytesObj {
	out := make([]byte, 0, len(a.Data)+len(b.Data))
	out = append(out, a.Data...)
	out = append(out, b.Data...)
	return newBytesObj(out)
}

// BytesFind returns the index of needle's first occurrence in haystack, or
// -1 if absent (spec section 4.4.5).
func BytesFind(haystack, needle *BytesObj) int64 {
	idx := bytes.Index(haystack.Data, needle.Data)
	return int64(idx)
}

// ByteArrayObj is pycc's mutable byte buffer. Unlike BytesObj, appends
// grow Data in place; the original's doc comment notes its AOT subset
// never reallocates past the original extend_from_bytes call, so Go's
// slice append (which may reallocate transparently) is a strictly more
// permissive superset, not a simplification that drops behavior.
type ByteArrayObj struct {
	hdr  *ObjectHeader
	Data []byte
}

func newByteArrayObj(data []byte) *ByteArrayObj {
	b := &ByteArrayObj{Data: data}
	b.hdr = std.alloc(TagByteArray, uint64(len(data)), b)
	return b
}

func ByteArrayNew(length uint64) *ByteArrayObj {
	return newByteArrayObj(make([]byte, length))
}

func ByteArrayFromBytes(b *BytesObj) *ByteArrayObj {
	cp := make([]byte, len(b.Data))
	copy(cp, b.Data)
	return newByteArrayObj(cp)
}

func ByteArrayLen(b *ByteArrayObj) uint64 { return uint64(len(b.Data)) }

// ByteArrayGet returns the byte at index as 0..255, or -1 if out of bounds.
func ByteArrayGet(b *ByteArrayObj, index uint64) int32 {
	if index >= uint64(len(b.Data)) {
		return -1
	}
	return int32(b.Data[index])
}

func ByteArraySet(b *ByteArrayObj, index uint64, value int32) {
	if index < uint64(len(b.Data)) {
		b.Data[index] = byte(value)
	}
}

func ByteArrayAppend(b *ByteArrayObj, value int32) {
	b.Data = append(b.Data, byte(value))
}

func ByteArrayExtendFromBytes(b *ByteArrayObj, src *BytesObj) {
	b.Data = append(b.Data, src.Data...)
}
