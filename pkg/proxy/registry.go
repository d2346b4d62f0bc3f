package proxy

import (
	"reflect"
	"sort"
	"sync"
)

// HandlerConstructor builds a handler proxy around an invocation handler
type HandlerConstructor func(InvocationHandler) any

// TargetConstructor builds a target proxy around an implementation
type TargetConstructor func(target any) any

type registration struct {
	iface   *Interface
	handler HandlerConstructor
	target  TargetConstructor
}

// Registry maps interface types to the constructors of their generated proxies.
// Generated files register themselves from init, so importing a package makes its
// proxies available. Registering the same interface again replaces the constructor,
// which is how a freshly loaded plugin supersedes a statically linked proxy.
type Registry struct {
	mu      sync.RWMutex
	entries map[reflect.Type]*registration
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{entries: make(map[reflect.Type]*registration)}
}

// DefaultRegistry is used by the package-level helpers and by generated code
var DefaultRegistry = NewRegistry()

func (r *Registry) entry(t reflect.Type) (*registration, error) {
	iface, err := DescribeType(t)
	if err != nil {
		return nil, err
	}
	e, ok := r.entries[t]
	if !ok {
		e = &registration{iface: iface}
		r.entries[t] = e
	}
	return e, nil
}

// RegisterHandler registers the handler proxy constructor for interface t
func (r *Registry) RegisterHandler(t reflect.Type, ctor HandlerConstructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.entry(t)
	if err != nil {
		return err
	}
	e.handler = ctor
	return nil
}

// RegisterTarget registers the target proxy constructor for interface t
func (r *Registry) RegisterTarget(t reflect.Type, ctor TargetConstructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.entry(t)
	if err != nil {
		return err
	}
	e.target = ctor
	return nil
}

// NewInstance builds a handler proxy for interface t
func (r *Registry) NewInstance(t reflect.Type, h InvocationHandler) (any, error) {
	if h == nil {
		return nil, newError(ErrNilHandler, typeName(t), "", "cannot build handler proxy")
	}

	r.mu.RLock()
	e, ok := r.entries[t]
	r.mu.RUnlock()

	if !ok || e.handler == nil {
		return nil, newError(ErrNotRegistered, typeName(t), "", "no handler proxy registered, run proxygen")
	}
	return e.handler(h), nil
}

// Wrap builds a target proxy for interface t around target
func (r *Registry) Wrap(t reflect.Type, target any) (any, error) {
	if target == nil {
		return nil, newError(ErrNilTarget, typeName(t), "", "cannot build target proxy")
	}
	if t == nil || t.Kind() != reflect.Interface {
		return nil, newError(ErrNotInterface, typeName(t), "", "cannot build target proxy")
	}
	if !reflect.TypeOf(target).Implements(t) {
		return nil, newError(ErrNotImplemented, typeName(t), "", "%T does not implement it", target)
	}

	r.mu.RLock()
	e, ok := r.entries[t]
	r.mu.RUnlock()

	if !ok || e.target == nil {
		return nil, newError(ErrNotRegistered, typeName(t), "", "no target proxy registered, run proxygen")
	}
	return e.target(target), nil
}

// WrapAny builds a target proxy for the single registered interface target implements
func (r *Registry) WrapAny(target any) (any, error) {
	if target == nil {
		return nil, newError(ErrNilTarget, "", "", "cannot build target proxy")
	}

	targetType := reflect.TypeOf(target)
	var matches []reflect.Type

	r.mu.RLock()
	for t, e := range r.entries {
		if e.target != nil && targetType.Implements(t) {
			matches = append(matches, t)
		}
	}
	r.mu.RUnlock()

	switch len(matches) {
	case 0:
		return nil, newError(ErrNotRegistered, targetType.String(), "", "no registered interface is implemented")
	case 1:
		return r.Wrap(matches[0], target)
	default:
		sortTypes(matches)
		names := make([]string, len(matches))
		for i, t := range matches {
			names[i] = t.String()
		}
		return nil, newError(ErrNotRegistered, targetType.String(), "", "implements several registered interfaces %v, use Wrap", names)
	}
}

// Describe returns the descriptor of a registered interface
func (r *Registry) Describe(t reflect.Type) (*Interface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[t]
	if !ok {
		return nil, false
	}
	return e.iface, true
}

// Registered returns every registered interface type, sorted by name
func (r *Registry) Registered() []reflect.Type {
	r.mu.RLock()
	types := make([]reflect.Type, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	r.mu.RUnlock()

	sortTypes(types)
	return types
}

func sortTypes(types []reflect.Type) {
	sort.Slice(types, func(i, j int) bool {
		return types[i].String() < types[j].String()
	})
}

func typeOf[I any]() reflect.Type {
	return reflect.TypeOf((*I)(nil)).Elem()
}

// RegisterHandlerProxy registers a generated handler proxy constructor in DefaultRegistry
func RegisterHandlerProxy[I any](ctor func(InvocationHandler) I) {
	err := DefaultRegistry.RegisterHandler(typeOf[I](), func(h InvocationHandler) any {
		return ctor(h)
	})
	if err != nil {
		panic(err)
	}
}

// RegisterTargetProxy registers a generated target proxy constructor in DefaultRegistry
func RegisterTargetProxy[I any](ctor func(I) I) {
	err := DefaultRegistry.RegisterTarget(typeOf[I](), func(target any) any {
		return ctor(target.(I))
	})
	if err != nil {
		panic(err)
	}
}

// NewInstance returns a proxy implementing I that sends every call to h
func NewInstance[I any](h InvocationHandler) (I, error) {
	var zero I
	instance, err := DefaultRegistry.NewInstance(typeOf[I](), h)
	if err != nil {
		return zero, err
	}
	return instance.(I), nil
}

// Wrap returns a proxy implementing I that forwards every call to target
func Wrap[I any](target I) (I, error) {
	var zero I
	instance, err := DefaultRegistry.Wrap(typeOf[I](), any(target))
	if err != nil {
		return zero, err
	}
	return instance.(I), nil
}

// NewInstanceOf is the reflective form of NewInstance
func NewInstanceOf(t reflect.Type, h InvocationHandler) (any, error) {
	return DefaultRegistry.NewInstance(t, h)
}

// WrapAny is the reflective form of Wrap, picking the interface target implements
func WrapAny(target any) (any, error) {
	return DefaultRegistry.WrapAny(target)
}
