package value

import "fmt"

// ErrorCode identifies one of Puffin's fatal runtime error kinds.
// Unlike the teacher's MOO dialect, Puffin has no try/except: every
// ErrorCode terminates the program once it reaches the top level.
type ErrorCode int

const (
	NoError ErrorCode = iota
	ParseError
	NameError
	RebindBuiltin
	TypeError
	ArityError
	IndexError
	FieldError
	ValueErrorCode
	InvalidAssignTarget
	ReturnOutsideFunction
	StackOverflow
	ErrorCalled
)

// String returns the bare error-code name, e.g. "NameError".
func (c ErrorCode) String() string {
	switch c {
	case NoError:
		return "NoError"
	case ParseError:
		return "ParseError"
	case NameError:
		return "NameError"
	case RebindBuiltin:
		return "RebindBuiltin"
	case TypeError:
		return "TypeError"
	case ArityError:
		return "ArityError"
	case IndexError:
		return "IndexError"
	case FieldError:
		return "FieldError"
	case ValueErrorCode:
		return "ValueError"
	case InvalidAssignTarget:
		return "InvalidAssignTarget"
	case ReturnOutsideFunction:
		return "ReturnOutsideFunction"
	case StackOverflow:
		return "StackOverflow"
	case ErrorCalled:
		return "Error"
	default:
		return "UnknownError"
	}
}

// RuntimeError is a fatal Puffin error. It implements the error interface
// so it propagates through ordinary Go control flow; the CLI is the only
// place that ever inspects Code directly (to pick an exit status and to
// format the one-line stderr diagnostic required by spec §7).
type RuntimeError struct {
	Code    ErrorCode
	Message string
}

func (e *RuntimeError) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError constructs a RuntimeError with a formatted message.
func NewError(code ErrorCode, format string, args ...any) *RuntimeError {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...)}
}
