package proxy

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// Dispatcher calls methods of a target by name with JSON encoded arguments. It is the
// callable-by-name contract used by the HTTP adapters.
type Dispatcher struct {
	iface  *Interface
	target any
}

// NewDispatcher creates a dispatcher for target, restricted to the methods of iface
func NewDispatcher(iface *Interface, target any) (*Dispatcher, error) {
	if iface == nil {
		return nil, newError(ErrNotInterface, "", "", "nil interface descriptor")
	}
	if target == nil {
		return nil, newError(ErrNilTarget, iface.Name(), "", "cannot dispatch to nil target")
	}
	if !reflect.TypeOf(target).Implements(iface.Type) {
		return nil, newError(ErrNotImplemented, iface.Name(), "", "%T does not implement it", target)
	}
	return &Dispatcher{iface: iface, target: target}, nil
}

// Interface returns the descriptor of the dispatched interface
func (d *Dispatcher) Interface() *Interface {
	return d.iface
}

// Dispatch decodes body as a JSON array of arguments and calls the named method.
// An empty body means no arguments.
func (d *Dispatcher) Dispatch(name string, body []byte) ([]any, error) {
	method, ok := d.iface.Method(name)
	if !ok {
		return nil, newError(ErrUnknownMethod, d.iface.Name(), name, "method not found")
	}

	var raw []json.RawMessage
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			e := newError(ErrArgumentType, d.iface.Name(), name, "arguments must be a JSON array")
			e.Cause = err
			return nil, e
		}
	}

	args, err := d.decodeArguments(method, raw)
	if err != nil {
		return nil, err
	}
	if method.Variadic {
		return callSlice(d.target, name, args)
	}
	return Call(d.target, name, args...)
}

// decodeArguments decodes raw into the parameter types of method. The variadic tail is
// packed into its slice so each JSON element stays exactly one argument.
func (d *Dispatcher) decodeArguments(method *Method, raw []json.RawMessage) ([]any, error) {
	numIn := method.NumIn()
	if !method.Variadic && len(raw) != numIn {
		return nil, newError(ErrArgumentCount, d.iface.Name(), method.Name, "got %d arguments, want %d", len(raw), numIn)
	}
	if method.Variadic && len(raw) < numIn-1 {
		return nil, newError(ErrArgumentCount, d.iface.Name(), method.Name, "got %d arguments, want at least %d", len(raw), numIn-1)
	}

	fixed := numIn
	if method.Variadic {
		fixed = numIn - 1
	}

	args := make([]any, 0, numIn)
	for i, msg := range raw[:fixed] {
		ptr := reflect.New(method.In[i])
		if err := d.decode(method, i, msg, ptr); err != nil {
			return nil, err
		}
		args = append(args, ptr.Elem().Interface())
	}
	if !method.Variadic {
		return args, nil
	}

	rest := raw[fixed:]
	tail := reflect.MakeSlice(method.In[fixed], len(rest), len(rest))
	for i, msg := range rest {
		if err := d.decode(method, fixed+i, msg, tail.Index(i).Addr()); err != nil {
			return nil, err
		}
	}
	return append(args, tail.Interface()), nil
}

func (d *Dispatcher) decode(method *Method, i int, msg json.RawMessage, ptr reflect.Value) error {
	if err := json.Unmarshal(msg, ptr.Interface()); err != nil {
		e := newError(ErrArgumentType, d.iface.Name(), method.Name, "argument %d is not a valid %s", i, ptr.Type().Elem())
		e.Cause = err
		return e
	}
	return nil
}

// EncodableResults replaces error values with their message so results can be
// marshalled to JSON
func EncodableResults(results []any) []any {
	encoded := make([]any, len(results))
	for i, r := range results {
		if err, ok := r.(error); ok {
			encoded[i] = err.Error()
			continue
		}
		encoded[i] = r
	}
	return encoded
}
