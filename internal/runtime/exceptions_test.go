package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRaiseHasClearException(t *testing.T) {
	RTClearException()
	require.False(t, RTHasException())

	RTRaise("ValueError", "bad input")
	require.True(t, RTHasException())

	exc := RTCurrentException()
	require.Equal(t, "ValueError", RTExceptionType(exc).Data)
	require.Equal(t, "bad input", RTExceptionMessage(exc).Data)

	RTClearException()
	require.False(t, RTHasException())
}

func TestExceptionCauseAndContextChaining(t *testing.T) {
	RTRaise("KeyError", "missing")
	outer := RTCurrentException()
	RTClearException()

	RTRaise("RuntimeError", "wrapped")
	inner := RTCurrentException()
	RTExceptionSetCause(inner, outer)
	RTExceptionSetContext(inner, outer)

	require.Same(t, outer, RTExceptionCause(inner))
	require.Same(t, outer, RTExceptionContext(inner))
	RTClearException()
}

func TestExceptionStateIsPerGoroutine(t *testing.T) {
	RTClearException()
	done := make(chan bool, 1)
	go func() {
		RTRaise("GoroutineError", "from worker")
		done <- RTHasException()
	}()
	require.True(t, <-done)
	require.False(t, RTHasException()) // the calling goroutine never raised
}
