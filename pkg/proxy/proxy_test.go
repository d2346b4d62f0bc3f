package proxy

import (
	"errors"
	"fmt"
	"strings"
)

// Calculator is the interface the runtime tests proxy by hand, the way generated code does
type Calculator interface {
	Add(a, b int) int
	Join(sep string, parts ...string) string
	Divide(a, b int) (int, error)
	Reset()
}

type calculator struct {
	resets int
}

func (c *calculator) Add(a, b int) int { return a + b }

func (c *calculator) Join(sep string, parts ...string) string { return strings.Join(parts, sep) }

func (c *calculator) Divide(a, b int) (int, error) {
	if b == 0 {
		return 0, errors.New("division by zero")
	}
	return a / b, nil
}

func (c *calculator) Reset() { c.resets++ }

type calculatorHandlerProxy struct {
	handler InvocationHandler
	methods []*Method
}

func newCalculatorHandlerProxy(h InvocationHandler) *calculatorHandlerProxy {
	return &calculatorHandlerProxy{
		handler: h,
		methods: MustDescribe[Calculator]().Lookup("Add", "Join", "Divide", "Reset"),
	}
}

func (p *calculatorHandlerProxy) Add(a0, a1 int) int {
	results := p.handler.Invoke(p.methods[0], []any{a0, a1})
	return Result[int](results, 0)
}

func (p *calculatorHandlerProxy) Join(a0 string, a1 ...string) string {
	results := p.handler.Invoke(p.methods[1], []any{a0, a1})
	return Result[string](results, 0)
}

func (p *calculatorHandlerProxy) Divide(a0, a1 int) (int, error) {
	results := p.handler.Invoke(p.methods[2], []any{a0, a1})
	return Result[int](results, 0), Result[error](results, 1)
}

func (p *calculatorHandlerProxy) Reset() {
	p.handler.Invoke(p.methods[3], []any{})
}

type calculatorTargetProxy struct {
	target Calculator
}

func (p *calculatorTargetProxy) Add(a0, a1 int) int {
	DefaultTracer().Trace("Calculator", "Add")
	return p.target.Add(a0, a1)
}

func (p *calculatorTargetProxy) Join(a0 string, a1 ...string) string {
	DefaultTracer().Trace("Calculator", "Join")
	return p.target.Join(a0, a1...)
}

func (p *calculatorTargetProxy) Divide(a0, a1 int) (int, error) {
	DefaultTracer().Trace("Calculator", "Divide")
	return p.target.Divide(a0, a1)
}

func (p *calculatorTargetProxy) Reset() {
	DefaultTracer().Trace("Calculator", "Reset")
	p.target.Reset()
}

// Named is implemented by calculator as well, to make WrapAny ambiguous
type Named interface {
	Add(a, b int) int
}

type namedTargetProxy struct{ target Named }

func (p *namedTargetProxy) Add(a0, a1 int) int { return p.target.Add(a0, a1) }

func newCalculatorRegistry() *Registry {
	r := NewRegistry()
	calc := typeOf[Calculator]()
	must(r.RegisterHandler(calc, func(h InvocationHandler) any { return newCalculatorHandlerProxy(h) }))
	must(r.RegisterTarget(calc, func(t any) any { return &calculatorTargetProxy{target: t.(Calculator)} }))
	return r
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("setup: %v", err))
	}
}
