package runtime

import "sync/atomic"

// RtStart is the entry point a spawned thread runs, matching the
// original's RtStart function-pointer typedef: a payload in, a single
// return value out (spec section 4.4.6).
type RtStart func(payload any) any

// RtThreadHandle wraps a goroutine's completion channel; pycc's
// concurrency model maps 1:1 onto Go's, so "thread" here is a goroutine
// rather than an OS thread, same as the rest of the corpus's worker-pool
// code does for "thread" in its own docs.
type RtThreadHandle struct {
	done   chan any
	result any
}

func RTSpawn(fn RtStart, payload any) *RtThreadHandle {
	h := &RtThreadHandle{done: make(chan any, 1)}
	go func() {
		h.done <- fn(payload)
	}()
	return h
}

// RTJoin blocks until h's goroutine finishes and returns its result.
func RTJoin(h *RtThreadHandle) any {
	if h.result == nil {
		h.result = <-h.done
	}
	return h.result
}

// RtChannelHandle wraps a buffered Go channel of opaque values.
type RtChannelHandle struct {
	ch     chan any
	closed atomic.Bool
}

func ChanNew(capacity uint64) *RtChannelHandle {
	return &RtChannelHandle{ch: make(chan any, capacity)}
}

func ChanClose(c *RtChannelHandle) {
	if c.closed.CompareAndSwap(false, true) {
		close(c.ch)
	}
}

func ChanSend(c *RtChannelHandle, value any) { c.ch <- value }

// ChanRecv returns nil once the channel is closed and drained, matching
// the original's blocking-recv-returns-nullptr-on-close contract.
func ChanRecv(c *RtChannelHandle) any {
	v, ok := <-c.ch
	if !ok {
		return nil
	}
	return v
}

// RtAtomicIntHandle wraps a 64-bit atomic counter.
type RtAtomicIntHandle struct {
	v atomic.Int64
}

func AtomicIntNew(initial int64) *RtAtomicIntHandle {
	h := &RtAtomicIntHandle{}
	h.v.Store(initial)
	return h
}

func AtomicIntLoad(h *RtAtomicIntHandle) int64        { return h.v.Load() }
func AtomicIntStore(h *RtAtomicIntHandle, v int64)     { h.v.Store(v) }
func AtomicIntAddFetch(h *RtAtomicIntHandle, delta int64) int64 {
	return h.v.Add(delta)
}
