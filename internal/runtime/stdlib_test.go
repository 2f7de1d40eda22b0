package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStdlibSubprocessRunCapturesOutputAndExitCode(t *testing.T) {
	o := StdlibSubprocessRun(StringFromCStr("echo hi"))
	require.Equal(t, int64(0), ObjectGet(o, 0).(*BoxedInt).Value)
	require.Equal(t, "hi\n", ObjectGet(o, 1).(*StringObj).Data)
}

func TestStdlibSubprocessCheckCallRaisesOnFailure(t *testing.T) {
	RTClearException()
	code := StdlibSubprocessCheckCall(StringFromCStr("exit 3"))
	require.Equal(t, int32(3), code)
	require.True(t, RTHasException())
	RTClearException()
}

func TestStdlibJSONDumpRoundTripsListAndDict(t *testing.T) {
	d := DictNew()
	DictSet(&d, StringFromCStr("n"), BoxInt(1))
	out := StdlibJSONDumpDict(d)
	require.Equal(t, `{"n":1}`, out.Data)

	l := ListNew()
	slot := ListPushSlot(l)
	*slot = StringFromCStr("x")
	require.Equal(t, `["x"]`, StdlibJSONDumpList(l).Data)
}

func TestStdlibStructCalcsizePackUnpackRoundTrips(t *testing.T) {
	format := StringFromCStr("ii")
	require.Equal(t, int64(8), StdlibStructCalcsize(format))

	values := ListNew()
	a := ListPushSlot(values)
	*a = BoxInt(1)
	b := ListPushSlot(values)
	*b = BoxInt(2)

	packed := StdlibStructPack(format, values)
	require.Equal(t, uint64(8), BytesLen(packed))

	unpacked := StdlibStructUnpack(format, packed)
	require.Equal(t, int64(1), ListGet(unpacked, 0).(*BoxedInt).Value)
	require.Equal(t, int64(2), ListGet(unpacked, 1).(*BoxedInt).Value)
}

func TestStdlibArgparseParseArgsStoreTrueStoreStoreInt(t *testing.T) {
	p := ArgparseArgumentParser()
	ArgparseAddArgument(p, "-v|--verbose", "store_true")
	ArgparseAddArgument(p, "--name", "store")
	ArgparseAddArgument(p, "--count", "store_int")

	args := ListNew()
	for _, s := range []string{"-v", "--name", "pycc", "--count", "3"} {
		slot := ListPushSlot(args)
		*slot = StringFromCStr(s)
	}

	result := StdlibArgparseParseArgs(p, args)
	require.True(t, DictGet(result, StringFromCStr("verbose")).(*BoxedBool).Value)
	require.Equal(t, "pycc", DictGet(result, StringFromCStr("name")).(*StringObj).Data)
	require.Equal(t, int64(3), DictGet(result, StringFromCStr("count")).(*BoxedInt).Value)
}
