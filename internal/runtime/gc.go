package runtime

import (
	"sync/atomic"
	"time"
)

// RuntimeStats mirrors runtime/GCStats.h's RuntimeStats: the counters
// gc_stats() reports to generated code and to cmd/pycc's gc-stats
// subcommand.
type RuntimeStats struct {
	NumAllocated       uint64
	NumFreed           uint64
	NumCollections     uint64
	BytesAllocated     uint64
	BytesLive          uint64
	PeakBytesLive      uint64
	LastReclaimedBytes uint64
}

// GcTelemetry mirrors GCStats.h's GcTelemetry: the adaptive controller's
// view of recent allocation pressure.
type GcTelemetry struct {
	AllocRateBytesPerSec float64
	Pressure             float64
}

// mark walks h transitively from obj, setting the mark bit on every
// reachable object. Unlike the original's pointer-chasing over raw bytes,
// Go's payload structs already carry typed interior pointers in `fields`,
// so marking is a straightforward graph walk rather than an
// in-object-payload pointer scan.
func (h *Heap) mark(obj *ObjectHeader) {
	if obj == nil || obj.mark {
		return
	}
	obj.mark = true
	switch o := obj.owner.(type) {
	case *List:
		for _, e := range o.elems {
			h.mark(headerOf(e))
		}
	case *Dict:
		for _, e := range o.entries {
			h.mark(headerOf(e.key))
			h.mark(headerOf(e.val))
		}
	case *Object:
		for _, f := range o.fields {
			h.mark(headerOf(f))
		}
		if o.attrs != nil {
			h.mark(o.attrs.hdr)
		}
	case *DictIter:
		h.mark(o.d.hdr)
	}
}

// headerOf extracts the ObjectHeader embedded in a heap value if v is one
// of the runtime's own payload types, or nil for scalars/non-heap values.
func headerOf(v any) *ObjectHeader {
	switch o := v.(type) {
	case *StringObj:
		return o.hdr
	case *BytesObj:
		return o.hdr
	case *ByteArrayObj:
		return o.hdr
	case *List:
		return o.hdr
	case *Dict:
		return o.hdr
	case *Object:
		return o.hdr
	case *BoxedInt:
		return o.hdr
	case *BoxedFloat:
		return o.hdr
	case *BoxedBool:
		return o.hdr
	case *DictIter:
		return o.hdr
	case *Exception:
		return o.hdr
	case *ArgParser:
		return o.hdr
	default:
		return nil
	}
}

func (h *Heap) markFromRoots() {
	for _, r := range h.roots {
		if r == nil {
			continue
		}
		if hdr := headerOf(*r); hdr != nil {
			h.mark(hdr)
		}
	}
	for _, hdr := range h.remembered {
		h.mark(hdr)
	}
}

// sweep unlinks every unmarked header, clearing its payload reference so
// the host Go GC reclaims the backing allocation, and clears mark bits on
// survivors for the next cycle.
func (h *Heap) sweep() {
	var prev *ObjectHeader
	cur := h.head
	var reclaimed uint64
	for cur != nil {
		next := cur.next
		if !cur.mark {
			reclaimed += cur.size
			h.stats.NumFreed++
			h.stats.BytesLive -= cur.size
			cur.owner = nil
			if prev == nil {
				h.head = next
			} else {
				prev.next = next
			}
		} else {
			cur.mark = false
			prev = cur
		}
		cur = next
	}
	h.stats.LastReclaimedBytes = reclaimed
	h.stats.NumCollections++
}

// Collect runs one full synchronous stop-the-world mark-sweep cycle (spec
// section 4.4.2).
func (h *Heap) Collect() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.markFromRoots()
	h.sweep()
	h.remembered = h.remembered[:0]
}

func (h *Heap) SetThreshold(bytes uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.threshold = bytes
}

func (h *Heap) SetConservative(enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conservative = enabled
}

// SetBackground toggles the background collector goroutine, starting it
// on first enable. Marking is always precise: the flag SetConservative
// stores is not consulted by mark or by the collector (see DESIGN.md).
func (h *Heap) SetBackground(enabled bool) {
	h.mu.Lock()
	h.background = enabled
	h.mu.Unlock()
	if enabled {
		h.startBackground()
	}
}

func (h *Heap) startBackground() {
	h.bgOnce.Do(func() {
		h.bgStop = make(chan struct{})
		h.bgWake = make(chan struct{}, 1)
		go h.backgroundLoop()
	})
}

// backgroundLoop is the adaptive background collector (spec section
// 4.4.4): it wakes either when an allocation crosses the live-bytes
// threshold or on its own adaptive slice timer, runs one collection, then
// re-tunes its own cadence from the resulting pressure/alloc-rate
// telemetry.
func (h *Heap) backgroundLoop() {
	for {
		sliceUs := atomic.LoadUint64(&h.sliceUs)
		timer := time.NewTimer(time.Duration(sliceUs) * time.Microsecond)
		select {
		case <-h.bgStop:
			timer.Stop()
			return
		case <-h.bgWake:
			timer.Stop()
		case <-timer.C:
		}
		h.mu.Lock()
		enabled := h.background
		h.mu.Unlock()
		if !enabled {
			continue
		}
		before := time.Now()
		h.Collect()
		h.adaptController(time.Since(before))
	}
}

const (
	highPressure        = 0.8
	lowPressure         = 0.3
	highAllocRatePerSec = 4000.0
	lowAllocRatePerSec  = 500.0
	sliceIncrementUs    = 100
	sliceDecrementUs    = 50
	sliceDefaultUs      = 100
	maxSliceUs          = 5000
)

// adaptController tunes the background loop's wake cadence from the most
// recent cycle's pressure and allocation rate, mirroring the original's
// adapt_controller: high pressure or a fast allocation rate shortens the
// sleep between cycles; a quiet heap lengthens it, up to maxSliceUs.
func (h *Heap) adaptController(elapsed time.Duration) {
	h.mu.Lock()
	telem := h.telemetryLocked(elapsed)
	h.mu.Unlock()

	cur := atomic.LoadUint64(&h.sliceUs)
	switch {
	case telem.Pressure > highPressure || telem.AllocRateBytesPerSec > highAllocRatePerSec:
		cur -= sliceDecrementUs
	case telem.Pressure < lowPressure && telem.AllocRateBytesPerSec < lowAllocRatePerSec:
		cur += sliceIncrementUs
	}
	if cur < sliceDecrementUs {
		cur = sliceDecrementUs
	}
	if cur > maxSliceUs {
		cur = maxSliceUs
	}
	atomic.StoreUint64(&h.sliceUs, cur)
}

func (h *Heap) telemetryLocked(elapsed time.Duration) GcTelemetry {
	var rate float64
	if elapsed > 0 {
		rate = float64(h.stats.LastReclaimedBytes) / elapsed.Seconds()
	}
	var pressure float64
	if h.threshold > 0 {
		pressure = float64(h.stats.BytesLive) / float64(h.threshold)
	}
	return GcTelemetry{AllocRateBytesPerSec: rate, Pressure: pressure}
}

func (h *Heap) Stats() RuntimeStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

func (h *Heap) Telemetry() GcTelemetry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.telemetryLocked(0)
}

// ResetForTests drops every live object, root, and counter, giving a test
// a clean heap without restarting the process (spec section 8: tests must
// be able to assert on exact allocation counts).
func (h *Heap) ResetForTests() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.head = nil
	h.roots = nil
	h.remembered = nil
	h.stats = RuntimeStats{}
	h.threshold = defaultThresholdBytes
	h.conservative = false
	atomic.StoreUint64(&h.sliceUs, sliceDefaultUs)
}

// Package-level entry points bound to std, matching the C-ABI names
// internal/codegen/runtime_decls.go declares.

func GCCollect()                  { std.Collect() }
func GCSetThreshold(bytes uint64) { std.SetThreshold(bytes) }
func GCSetConservative(v bool)    { std.SetConservative(v) }
func GCSetBackground(v bool)      { std.SetBackground(v) }
func GCStats() RuntimeStats       { return std.Stats() }
func GCTelemetry() GcTelemetry    { return std.Telemetry() }
func GCResetForTests()            { std.ResetForTests() }
func GCRegisterRoot(addr *any)    { std.RegisterRoot(addr) }
func GCUnregisterRoot(addr *any)  { std.UnregisterRoot(addr) }
