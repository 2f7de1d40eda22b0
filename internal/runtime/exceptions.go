package runtime

import (
	"bytes"
	goruntime "runtime"
	"strconv"
	"sync"
)

// Exception is the two-field opaque object rt_current_exception exposes:
// a type name and a message, plus the optional cause/context chaining
// Python's `raise ... from ...` needs (spec section 4.3.3, 4.4.5).
type Exception struct {
	hdr     *ObjectHeader
	Type    *StringObj
	Message *StringObj
	cause   *Exception
	context *Exception
}

// exceptionState is thread-local in the original (pthread thread_local).
// Go has no first-class goroutine-local storage, so propagation here is
// keyed by goroutine id, parsed out of runtime.Stack's header line — the
// same trick several Go concurrency-debugging libraries use when a true
// per-goroutine slot is unavailable.
var (
	excMu    sync.Mutex
	excState = map[int64]*Exception{}
)

func goroutineID() int64 {
	buf := make([]byte, 64)
	n := goruntime.Stack(buf, false)
	buf = buf[:n]
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	if i := bytes.IndexByte(buf, ' '); i >= 0 {
		buf = buf[:i]
	}
	id, _ := strconv.ParseInt(string(buf), 10, 64)
	return id
}

func RTRaise(typeName, message string) {
	exc := &Exception{Type: newStringObj(typeName), Message: newStringObj(message)}
	exc.hdr = std.alloc(TagException, 0, exc)
	excMu.Lock()
	excState[goroutineID()] = exc
	excMu.Unlock()
}

func RTHasException() bool {
	excMu.Lock()
	defer excMu.Unlock()
	return excState[goroutineID()] != nil
}

func RTCurrentException() *Exception {
	excMu.Lock()
	defer excMu.Unlock()
	return excState[goroutineID()]
}

func RTClearException() {
	excMu.Lock()
	delete(excState, goroutineID())
	excMu.Unlock()
}

func RTExceptionType(e *Exception) *StringObj    { return e.Type }
func RTExceptionMessage(e *Exception) *StringObj { return e.Message }

func RTExceptionSetCause(e, cause *Exception)     { e.cause = cause }
func RTExceptionCause(e *Exception) *Exception     { return e.cause }
func RTExceptionSetContext(e, ctx *Exception)      { e.context = ctx }
func RTExceptionContext(e *Exception) *Exception   { return e.context }
