package proxy

import (
	"fmt"
	"reflect"
)

// InvocationHandler receives every call made on a handler proxy. Args hold the call
// arguments in declaration order (a variadic parameter arrives as its slice). The returned
// slice holds one boxed value per declared result; missing or nil entries become zero values.
type InvocationHandler interface {
	Invoke(method *Method, args []any) []any
}

// HandlerFunc adapts an ordinary function to InvocationHandler
type HandlerFunc func(method *Method, args []any) []any

// Invoke calls f(method, args)
func (f HandlerFunc) Invoke(method *Method, args []any) []any {
	return f(method, args)
}

// Result unboxes the i-th handler result as T. A missing or nil entry yields the zero
// value of T; an entry of another type panics with ErrResultType.
func Result[T any](results []any, i int) T {
	var zero T
	if i < 0 || i >= len(results) || results[i] == nil {
		return zero
	}
	v, ok := results[i].(T)
	if !ok {
		panic(&Error{
			Kind:    ErrResultType,
			Message: fmt.Sprintf("result %d is %T, want %s", i, results[i], reflect.TypeOf((*T)(nil)).Elem()),
		})
	}
	return v
}

// TargetHandler forwards every invocation to a wrapped instance by reflection. Only
// exported methods can be forwarded; invoking an unexported one panics with ErrUnknownMethod.
type TargetHandler struct {
	target any
	tracer Tracer
}

// NewTargetHandler creates a handler forwarding to target
func NewTargetHandler(target any) *TargetHandler {
	return &TargetHandler{target: target}
}

// WithTracer sets the tracer notified before each forwarded call
func (h *TargetHandler) WithTracer(tracer Tracer) *TargetHandler {
	h.tracer = tracer
	return h
}

// Target returns the wrapped instance
func (h *TargetHandler) Target() any {
	return h.target
}

// Invoke traces the call and forwards it to the same-named method of the target.
// Argument mismatches panic with a *Error; panics raised by the target propagate unchanged.
func (h *TargetHandler) Invoke(method *Method, args []any) []any {
	tracer := h.tracer
	if tracer == nil {
		tracer = DefaultTracer()
	}
	ifaceName := ""
	if method.Interface != nil {
		ifaceName = method.Interface.Name()
	}
	tracer.Trace(ifaceName, method.Name)

	results, err := Call(h.target, method.Name, args...)
	if err != nil {
		panic(err)
	}
	return results
}
