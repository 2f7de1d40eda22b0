package runtime

// dictEntry preserves insertion order, matching the original's
// iterator semantics (dict_iter_next walks entries in insertion order,
// not hash bucket order).
type dictEntry struct {
	key any
	val any
}

// Dict is pycc's hash map from opaque pointer keys (typically StringObj)
// to opaque pointer values. Go's map can't use `any` pointer identity the
// way the original keys on raw void*, and pycc's subset keys are almost
// always interned strings, so Dict keys by the string's Data for string
// keys and by the key value itself (pointer identity for heap objects)
// for everything else.
type Dict struct {
	hdr     *ObjectHeader
	entries []dictEntry
	index   map[any]int // dictKey(entry.key) -> position in entries
}

func dictKey(k any) any {
	if s, ok := k.(*StringObj); ok {
		return "s:" + s.Data
	}
	return k
}

func DictNew() *Dict {
	d := &Dict{index: make(map[any]int)}
	d.hdr = std.alloc(TagDict, 0, d)
	return d
}

// DictSet inserts or updates the value for key in the dict stored at
// *dictSlot, matching the original's dict_set(void**, void*, void*)
// signature (the slot indirection exists for parity with list_push_slot's
// growth-primitive shape, even though Dict never needs to reallocate its
// own header).
func DictSet(dictSlot **Dict, key, value any) {
	d := *dictSlot
	k := dictKey(key)
	if i, ok := d.index[k]; ok {
		d.entries[i].val = value
		return
	}
	d.index[k] = len(d.entries)
	d.entries = append(d.entries, dictEntry{key: key, val: value})
}

func DictGet(d *Dict, key any) any {
	if i, ok := d.index[dictKey(key)]; ok {
		return d.entries[i].val
	}
	return nil
}

func DictLen(d *Dict) uint64 { return uint64(len(d.entries)) }

// DictIter is the opaque iterator dict_iter_new returns: position into
// the owning dict's entries, matching the original's "[0]=dict,
// [1]=index" object encoding conceptually but as a typed Go struct.
type DictIter struct {
	hdr *ObjectHeader
	d   *Dict
	pos int
}

func DictIterNew(d *Dict) *DictIter {
	it := &DictIter{d: d}
	it.hdr = std.alloc(TagDictIter, 0, it)
	return it
}

// DictIterNext advances it and reports the next key/value pair through
// outKey/outValue, returning false once the dict is exhausted.
func DictIterNext(it *DictIter, outKey, outValue *any) bool {
	if it.pos >= len(it.d.entries) {
		return false
	}
	e := it.d.entries[it.pos]
	it.pos++
	*outKey = e.key
	*outValue = e.val
	return true
}
