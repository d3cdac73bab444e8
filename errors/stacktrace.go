package errors

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the stacktrace recorded by any layer of err, or nil.
func stackTrace(err error) errors.StackTrace {
	var st errors.StackTrace
	unwind(err, func(layer error) bool {
		if t, ok := layer.(stackTracer); ok {
			st = t.StackTrace()
			return true
		}
		return false
	})
	return st
}

// Format prints the stacktrace after the message for %+v.
func (w *wrappedError) Format(s fmt.State, verb rune) {
	io.WriteString(s, w.Error())
	if verb == 'v' && s.Flag('+') {
		if st := stackTrace(w); st != nil {
			st.Format(s, verb)
		}
	}
}
