package proxy

import (
	"errors"
	"fmt"
)

// Sentinel error kinds, usable with errors.Is
var (
	ErrNotInterface   = errors.New("type is not an interface")
	ErrNotRegistered  = errors.New("no proxy registered for interface")
	ErrNilHandler     = errors.New("invocation handler is nil")
	ErrNilTarget      = errors.New("proxy target is nil")
	ErrUnknownMethod  = errors.New("unknown method")
	ErrArgumentCount  = errors.New("wrong number of arguments")
	ErrArgumentType   = errors.New("argument has wrong type")
	ErrResultType     = errors.New("result has wrong type")
	ErrNotImplemented = errors.New("target does not implement interface")
)

// Error carries the failing interface and method alongside an error kind
type Error struct {
	Kind      error  `json:"-"`
	Interface string `json:"interface,omitempty"`
	Method    string `json:"method,omitempty"`
	Message   string `json:"message"`
	Cause     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	var target string
	switch {
	case e.Interface != "" && e.Method != "":
		target = e.Interface + "." + e.Method
	case e.Interface != "":
		target = e.Interface
	case e.Method != "":
		target = e.Method
	}

	msg := e.Message
	if msg == "" && e.Kind != nil {
		msg = e.Kind.Error()
	}
	if target != "" {
		msg = fmt.Sprintf("%s: %s", target, msg)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Is reports whether target matches the error kind
func (e *Error) Is(target error) bool {
	return e.Kind != nil && e.Kind == target
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind error, iface, method, format string, args ...any) *Error {
	return &Error{
		Kind:      kind,
		Interface: iface,
		Method:    method,
		Message:   fmt.Sprintf(format, args...),
	}
}
