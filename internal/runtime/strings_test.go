package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringConcatSliceRepeatContains(t *testing.T) {
	a := StringFromCStr("héllo")
	b := StringFromCStr(" world")

	require.Equal(t, "héllo world", StringConcat(a, b).Data)
	require.Equal(t, uint64(5), StringCharLen(a))
	require.Equal(t, "éll", StringSlice(a, 1, 3).Data)
	require.Equal(t, "abcabc", StringRepeat(StringFromCStr("abc"), 2).Data)
	require.True(t, StringContains(a, StringFromCStr("éll")))
}

func TestStringNormalizeAppliesNFC(t *testing.T) {
	decomposed := StringFromCStr("é") // "e" + combining acute accent
	got := StringNormalize(decomposed)
	require.Equal(t, "é", got.Data) // precomposed "é"
}

func TestStringCasefoldFoldsForCaseInsensitiveComparison(t *testing.T) {
	require.Equal(t, StringCasefold(StringFromCStr("Straße")).Data, StringCasefold(StringFromCStr("STRASSE")).Data)
}

func TestStringBytesDecodeStrictVsReplace(t *testing.T) {
	invalid := []byte{0x68, 0x69, 0xff}
	strict := StringBytesDecode(BytesNew(invalid), false)
	require.Equal(t, "hi", strict.Data)

	replaced := StringBytesDecode(BytesNew(invalid), true)
	require.Contains(t, replaced.Data, "hi")
}

func TestStringUTF8IsValid(t *testing.T) {
	require.True(t, StringUTF8IsValid([]byte("ok")))
	require.False(t, StringUTF8IsValid([]byte{0xff, 0xfe}))
}
