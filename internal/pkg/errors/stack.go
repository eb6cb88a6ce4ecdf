package errors

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// stackTracer matches errors that recorded where they were raised.
type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// stack records the call stack at the point a failure was constructed.
type stack struct {
	frames pkgerrors.StackTrace
}

// StackTrace returns the recorded frames, innermost first.
func (s stack) StackTrace() pkgerrors.StackTrace {
	return s.frames
}

// capture records the stack of its caller's caller, so the top frame is the
// code that invoked the constructor.
func capture() stack {
	st, ok := pkgerrors.New("").(stackTracer)
	if !ok {
		return stack{}
	}
	frames := st.StackTrace()
	if len(frames) > 2 {
		frames = frames[2:]
	}
	return stack{frames: frames}
}

// Trace renders the diagnostic trace of err: its full message chain followed by
// the stack recorded where it was raised, when one was recorded.
func Trace(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(err.Error())

	var st stackTracer
	if As(err, &st) && len(st.StackTrace()) > 0 {
		fmt.Fprintf(&b, "%+v", st.StackTrace())
	}

	return b.String()
}
