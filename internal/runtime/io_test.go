package runtime

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIOWriteAndReadFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	require.True(t, IOWriteFile(path, StringFromCStr("payload")))
	require.Equal(t, "payload", IOReadFile(path).Data)
}

func TestIOReadFileMissingRaises(t *testing.T) {
	RTClearException()
	require.Nil(t, IOReadFile(filepath.Join(t.TempDir(), "missing.txt")))
	require.True(t, RTHasException())
	RTClearException()
}

func TestOSGetenvReturnsNilForUnsetVar(t *testing.T) {
	require.Nil(t, OSGetenv("PYCC_DEFINITELY_UNSET_VAR"))
}

func TestOSMkdirRemoveRename(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "child")
	require.True(t, OSMkdir(sub))

	renamed := filepath.Join(dir, "renamed")
	require.True(t, OSRename(sub, renamed))
	require.True(t, OSRemove(renamed))
}
