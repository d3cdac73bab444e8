package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors shared by all extensions. Codes are stable, clients rely on
// them to tell failures apart.
var (
	ErrUnauthorized       = Register(2, "unauthorized")
	ErrNotFound           = Register(3, "not found")
	ErrMsg                = Register(4, "invalid message")
	ErrModel              = Register(5, "invalid model")
	ErrDuplicate          = Register(6, "duplicate")
	ErrHuman              = Register(7, "coding error")
	ErrEmpty              = Register(9, "value is empty")
	ErrState              = Register(10, "invalid state")
	ErrType               = Register(11, "invalid type")
	ErrInsufficientAmount = Register(12, "insufficient amount")
	ErrAmount             = Register(13, "invalid amount")
	ErrInput              = Register(14, "invalid input")
	ErrExpired            = Register(15, "expired")
	ErrOverflow           = Register(16, "an operation cannot be completed due to value overflow")
	ErrCurrency           = Register(17, "invalid currency code")
	ErrDatabase           = Register(18, "database")
	ErrSchema             = Register(19, "invalid schema")

	// ErrPanic wraps a recovered panic. Its message is never shown to
	// clients outside of debug mode.
	ErrPanic = Register(111222, "panic")
)

// registry holds every root error by code. Code 1 is kept for errors that
// carry no code at all.
var registry = map[uint32]*Error{
	internalABCICode: {code: internalABCICode, desc: internalABCILog},
}

// Register declares a root error. It must be called during package
// initialization only and panics if the code is taken.
func Register(code uint32, description string) *Error {
	if prev, ok := registry[code]; ok {
		panic(fmt.Sprintf("error code %d already registered as %q", code, prev.desc))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// Error is a root error. Errors created at runtime wrap one of them, so
// that the kind and ABCI code survive any amount of wrapping.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

func (e Error) ABCICode() uint32 {
	return e.code
}

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrap(e, fmt.Sprintf(format, args...))
}

// Is reports whether err is of this kind, looking through all wrapping
// layers. A nil kind only matches a nil error.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNil(err)
	}
	found := false
	unwind(err, func(layer error) bool {
		found = layer == e
		return found
	})
	return found
}

// Wrap adds a description to err and records a stacktrace unless one of
// the wrapped layers already has one. Wrapping nil returns nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithType wraps err with the Go type name of obj.
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}

// Recover turns a panic into an ErrPanic stored in err. It must be
// deferred.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type wrappedError struct {
	msg    string
	parent error
}

func (w *wrappedError) Error() string {
	return w.msg + ": " + w.parent.Error()
}

func (w *wrappedError) Cause() error {
	return w.parent
}

type causer interface {
	Cause() error
}

// unwind calls fn on err and on each error it wraps, outermost first,
// until fn returns true.
func unwind(err error, fn func(error) bool) {
	for err != nil {
		if fn(err) {
			return
		}
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}

// isNil also catches typed nil pointers stored in an error interface.
func isNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
