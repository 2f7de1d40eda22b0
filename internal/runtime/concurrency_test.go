package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpawnJoinReturnsWorkerResult(t *testing.T) {
	h := RTSpawn(func(payload any) any {
		n := payload.(int)
		return n * 2
	}, 21)

	require.Equal(t, 42, RTJoin(h))
}

func TestChannelSendRecvAndCloseDrains(t *testing.T) {
	ch := ChanNew(1)
	ChanSend(ch, "hello")
	require.Equal(t, "hello", ChanRecv(ch))

	ChanClose(ch)
	require.Nil(t, ChanRecv(ch))
}

func TestAtomicIntLoadStoreAddFetch(t *testing.T) {
	a := AtomicIntNew(10)
	require.Equal(t, int64(10), AtomicIntLoad(a))

	AtomicIntStore(a, 5)
	require.Equal(t, int64(5), AtomicIntLoad(a))

	require.Equal(t, int64(8), AtomicIntAddFetch(a, 3))
}
