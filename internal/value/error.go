package value

import "fmt"

// ErrorKind classifies a runtime Error value. These mirror the packet
// decoding failures that must be recoverable by the running script rather
// than fatal to the process: a truncated layer should produce a value the
// script can check and react to, not abort the interpreter.
type ErrorKind int

const (
	ErrGeneric ErrorKind = iota
	ErrInvalidLength
	ErrInvalidMacAddress
	ErrInvalidIPAddress
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidLength:
		return "InvalidLength"
	case ErrInvalidMacAddress:
		return "InvalidMacAddress"
	case ErrInvalidIPAddress:
		return "InvalidIpAddress"
	default:
		return "Error"
	}
}

// Error is a first-class runtime value representing a recoverable failure,
// most commonly a packet layer that could not be decoded because the
// underlying buffer was too short or malformed. Unlike a Go error, it flows
// through the value stack like any other Value so a script can test for it
// with a type check and branch accordingly, rather than the VM aborting.
type Error struct {
	Kind    ErrorKind
	Message string
}

// NewError creates a generic error value with the given message.
func NewError(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrGeneric, Message: fmt.Sprintf(format, args...)}
}

// NewKindError creates an error value of a specific recoverable kind.
func NewKindError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Type() string   { return "error" }
func (e *Error) String() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }
func (e *Error) Truth() bool    { return false }

// Error satisfies the standard error interface, so a decode failure can be
// returned as a normal Go error up through internal/packet and still be
// recognized and surfaced as a first-class value by the property engine and
// VM, instead of being wrapped or discarded.
func (e *Error) Error() string { return e.String() }
