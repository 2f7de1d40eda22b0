package runtime

// Object is pycc's fixed-size instance representation: a flat field
// table (positional attributes resolved at sema time) plus an optional
// per-instance attribute dict for attributes sema couldn't resolve to a
// slot index (spec section 4.4.5).
type Object struct {
	hdr    *ObjectHeader
	fields []any
	attrs  *Dict
}

func ObjectNew(fieldCount uint64) *Object {
	o := &Object{fields: make([]any, fieldCount)}
	o.hdr = std.alloc(TagObject, fieldCount*8, o)
	return o
}

func ObjectSet(o *Object, index uint64, value any) {
	if index < uint64(len(o.fields)) {
		o.fields[index] = value
	}
}

func ObjectGet(o *Object, index uint64) any {
	if index >= uint64(len(o.fields)) {
		return nil
	}
	return o.fields[index]
}

func ObjectFieldCount(o *Object) uint64 { return uint64(len(o.fields)) }

// ObjectSetAttr records value under the string key in o's lazily-created
// attribute dict.
func ObjectSetAttr(o *Object, key *StringObj, value any) {
	if o.attrs == nil {
		o.attrs = DictNew()
	}
	DictSet(&o.attrs, key, value)
}

func ObjectGetAttr(o *Object, key *StringObj) any {
	if o.attrs == nil {
		return nil
	}
	return DictGet(o.attrs, key)
}

// ObjectGetAttrDict returns o's internal attribute dict, or nil if no
// dynamic attribute has ever been set on it.
func ObjectGetAttrDict(o *Object) *Dict { return o.attrs }
