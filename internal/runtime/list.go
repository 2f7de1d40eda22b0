package runtime

// List is pycc's growable sequence, the shared backing for list, tuple,
// and set literals (spec section 4.3.4: "aggregates unified as a
// growable runtime list").
type List struct {
	hdr   *ObjectHeader
	elems []any
}

func ListNew() *List {
	l := &List{}
	l.hdr = std.alloc(TagList, 0, l)
	return l
}

// ListPushSlot grows l by one element and returns a pointer to the new
// slot; codegen stores the (already boxed) element through the returned
// pointer immediately afterward, then runs the write barrier over it
// (aggregate.go). The returned pointer is only valid until the next push,
// which is exactly how codegen uses it.
func ListPushSlot(l *List) *any {
	l.elems = append(l.elems, nil)
	l.hdr.size = uint64(len(l.elems)) * 8
	return &l.elems[len(l.elems)-1]
}

func ListLen(l *List) uint64 { return uint64(len(l.elems)) }

func ListGet(l *List, index uint64) any {
	if index >= uint64(len(l.elems)) {
		return nil
	}
	return l.elems[index]
}

func ListSet(l *List, index uint64, value any) {
	if index < uint64(len(l.elems)) {
		l.elems[index] = value
	}
}
