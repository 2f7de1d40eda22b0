package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectReclaimsUnrootedObjects(t *testing.T) {
	h := newHeap()
	h.background = false

	kept := &StringObj{Data: "kept"}
	kept.hdr = h.alloc(TagString, 4, kept)
	var root any = kept
	h.RegisterRoot(&root)

	garbage := &StringObj{Data: "garbage"}
	garbage.hdr = h.alloc(TagString, 7, garbage)

	h.Collect()

	require.Equal(t, uint64(1), h.Stats().NumFreed)
	require.Equal(t, uint64(4), h.Stats().BytesLive)
	require.False(t, kept.hdr.mark)
}

func TestCollectKeepsTransitivelyReachableListElements(t *testing.T) {
	h := newHeap()
	h.background = false
	old := std
	std = h
	defer func() { std = old }()

	l := ListNew()
	inner := newStringObj("inner")
	slot := ListPushSlot(l)
	*slot = inner

	var root any = l
	h.RegisterRoot(&root)

	h.Collect()

	require.Equal(t, uint64(0), h.Stats().NumFreed)
}

func TestResetForTestsClearsCountersAndRoots(t *testing.T) {
	h := newHeap()
	h.alloc(TagString, 10, nil)
	var root any
	h.RegisterRoot(&root)

	h.ResetForTests()

	require.Equal(t, RuntimeStats{}, h.Stats())
	require.Empty(t, h.roots)
	require.Nil(t, h.head)
}

func TestWriteBarrierRemembersOnlyUnderIncrementalUpdate(t *testing.T) {
	h := newHeap()
	s := &StringObj{Data: "x"}
	s.hdr = h.alloc(TagString, 1, s)

	h.SetBarrierMode(0)
	h.WriteBarrier(s)
	require.Len(t, h.remembered, 1)

	h.SetBarrierMode(1)
	h.WriteBarrier(s)
	require.Len(t, h.remembered, 1)
}

func TestAdaptControllerShortensSliceUnderHighPressure(t *testing.T) {
	h := newHeap()
	h.threshold = 100
	h.stats.BytesLive = 200 // pressure 2.0, above highPressure

	h.adaptController(0)

	require.Less(t, h.sliceUs, uint64(sliceDefaultUs))
}
