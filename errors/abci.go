package errors

import "fmt"

// SuccessABCICode is the code of a successful ABCI response.
const SuccessABCICode = 0

const (
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log of an ABCI response for err. Errors
// without a code get code 1. Outside of debug mode their message, as well
// as the message of a recovered panic, is replaced by a generic one. Debug
// mode adds the stacktrace.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode || ErrPanic.Is(err):
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first wrapped layer that has one.
func abciCode(err error) uint32 {
	if isNil(err) {
		return SuccessABCICode
	}
	code := internalABCICode
	unwind(err, func(layer error) bool {
		c, ok := layer.(coder)
		if ok {
			code = c.ABCICode()
		}
		return ok
	})
	return code
}
