package runtime

// SetBarrierMode selects which write-barrier discipline the background
// collector assumes generated stores obey: 0 selects incremental-update
// (a write barrier records the object now reachable through the new
// value), 1 selects SATB, snapshot-at-the-beginning (a write barrier
// records the object that was about to become unreachable through the
// overwritten old value). Spec section 4.4.3.
func (h *Heap) SetBarrierMode(mode int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.barrierMode = mode
}

// WriteBarrier runs after generated code stores value into *slot. Under
// incremental-update (mode 0) it remembers the value that is now
// reachable so a concurrent mark phase started before the store doesn't
// miss it; under SATB (mode 1) the old value is recorded by PreBarrier
// instead, so WriteBarrier is a no-op there.
func (h *Heap) WriteBarrier(value any) {
	hdr := headerOf(value)
	if hdr == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.barrierMode == 0 {
		h.remembered = append(h.remembered, hdr)
	}
}

// PreBarrier runs before generated code overwrites *slot, recording the
// value about to be clobbered so a concurrent SATB mark phase still sees
// it as live for this cycle.
func (h *Heap) PreBarrier(oldValue any) {
	hdr := headerOf(oldValue)
	if hdr == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.barrierMode == 1 {
		h.remembered = append(h.remembered, hdr)
	}
}

func GCSetBarrierMode(mode int)   { std.SetBarrierMode(mode) }
func GCWriteBarrier(value any)    { std.WriteBarrier(value) }
func GCPreBarrier(oldValue any)   { std.PreBarrier(oldValue) }
