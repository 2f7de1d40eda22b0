package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListPushGetSet(t *testing.T) {
	l := ListNew()
	a := ListPushSlot(l)
	*a = BoxInt(1)
	b := ListPushSlot(l)
	*b = BoxInt(2)

	require.Equal(t, uint64(2), ListLen(l))
	require.Equal(t, int64(1), ListGet(l, 0).(*BoxedInt).Value)

	ListSet(l, 0, BoxInt(9))
	require.Equal(t, int64(9), ListGet(l, 0).(*BoxedInt).Value)
	require.Nil(t, ListGet(l, 5))
}

func TestDictSetGetLenOverwritesExistingKey(t *testing.T) {
	d := DictNew()
	key := StringFromCStr("a")
	DictSet(&d, key, BoxInt(1))
	DictSet(&d, StringFromCStr("a"), BoxInt(2)) // distinct StringObj, same contents

	require.Equal(t, uint64(1), DictLen(d))
	require.Equal(t, int64(2), DictGet(d, StringFromCStr("a")).(*BoxedInt).Value)
}

func TestDictIterNextWalksInsertionOrder(t *testing.T) {
	d := DictNew()
	DictSet(&d, StringFromCStr("a"), BoxInt(1))
	DictSet(&d, StringFromCStr("b"), BoxInt(2))

	it := DictIterNew(d)
	var k, v any
	require.True(t, DictIterNext(it, &k, &v))
	require.Equal(t, "a", k.(*StringObj).Data)
	require.True(t, DictIterNext(it, &k, &v))
	require.Equal(t, "b", k.(*StringObj).Data)
	require.False(t, DictIterNext(it, &k, &v))
}

func TestObjectFieldsAndDynamicAttrs(t *testing.T) {
	o := ObjectNew(2)
	ObjectSet(o, 0, BoxInt(10))
	require.Equal(t, int64(10), ObjectGet(o, 0).(*BoxedInt).Value)
	require.Equal(t, uint64(2), ObjectFieldCount(o))

	require.Nil(t, ObjectGetAttrDict(o))
	ObjectSetAttr(o, StringFromCStr("extra"), BoxBool(true))
	require.NotNil(t, ObjectGetAttrDict(o))
	require.True(t, ObjectGetAttr(o, StringFromCStr("extra")).(*BoxedBool).Value)
}

func TestBytesAndByteArrayOps(t *testing.T) {
	b := BytesNew([]byte("hello"))
	require.Equal(t, uint64(5), BytesLen(b))
	require.Equal(t, int64(1), BytesFind(b, BytesNew([]byte("ell"))))
	require.Equal(t, int64(-1), BytesFind(b, BytesNew([]byte("zzz"))))

	ba := ByteArrayFromBytes(b)
	ByteArraySet(ba, 0, 'H')
	ByteArrayAppend(ba, '!')
	require.Equal(t, "Hello!", string(ba.Data))
	require.Equal(t, int32(-1), ByteArrayGet(ba, 99))
}

func TestBoxUnboxPrimitives(t *testing.T) {
	require.Equal(t, int64(7), BoxIntValue(BoxInt(7)))
	require.Equal(t, 1.5, BoxFloatValue(BoxFloat(1.5)))
	require.True(t, BoxBoolValue(BoxBool(true)))
}
