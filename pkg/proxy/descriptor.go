package proxy

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Method describes a single method of a proxied interface
type Method struct {
	Name      string         // method name
	Index     int            // index in the interface method set (lexicographic)
	Interface reflect.Type   // interface declaring the method
	Type      reflect.Type   // func type without receiver
	In        []reflect.Type // parameter types
	Out       []reflect.Type // result types
	Variadic  bool           // last parameter is variadic
}

// String returns the qualified method signature, e.g. "UserDao.SaySomething(string) string"
func (m *Method) String() string {
	var sb strings.Builder
	if m.Interface != nil {
		sb.WriteString(m.Interface.Name())
		sb.WriteString(".")
	}
	sb.WriteString(m.Name)
	sb.WriteString(strings.TrimPrefix(m.Type.String(), "func"))
	return sb.String()
}

// NumIn returns the number of declared parameters
func (m *Method) NumIn() int {
	return len(m.In)
}

// NumOut returns the number of declared results
func (m *Method) NumOut() int {
	return len(m.Out)
}

// Interface describes a proxied interface type
type Interface struct {
	Type    reflect.Type
	Methods []*Method
	byName  map[string]*Method
}

// Name returns the interface type name
func (i *Interface) Name() string {
	return i.Type.Name()
}

// PkgPath returns the import path of the package declaring the interface
func (i *Interface) PkgPath() string {
	return i.Type.PkgPath()
}

// Method returns the descriptor for the named method
func (i *Interface) Method(name string) (*Method, bool) {
	m, ok := i.byName[name]
	return m, ok
}

// Lookup resolves descriptors in the given order. It panics if a name is missing,
// which only happens when generated code is out of date with its interface.
func (i *Interface) Lookup(names ...string) []*Method {
	methods := make([]*Method, len(names))
	for idx, name := range names {
		m, ok := i.byName[name]
		if !ok {
			panic(newError(ErrUnknownMethod, i.Name(), name, "method not found, regenerate the proxy"))
		}
		methods[idx] = m
	}
	return methods
}

var describeCache sync.Map // reflect.Type -> *Interface

// Describe builds the descriptor for the interface type I
func Describe[I any]() (*Interface, error) {
	return DescribeType(reflect.TypeOf((*I)(nil)).Elem())
}

// MustDescribe is like Describe but panics on error
func MustDescribe[I any]() *Interface {
	iface, err := Describe[I]()
	if err != nil {
		panic(err)
	}
	return iface
}

// DescribeType builds the descriptor for an interface reflect.Type
func DescribeType(t reflect.Type) (*Interface, error) {
	if t == nil {
		return nil, newError(ErrNotInterface, "", "", "nil type")
	}
	if t.Kind() != reflect.Interface {
		return nil, newError(ErrNotInterface, t.String(), "", "kind is %s", t.Kind())
	}

	if cached, ok := describeCache.Load(t); ok {
		return cached.(*Interface), nil
	}

	iface := &Interface{
		Type:    t,
		Methods: make([]*Method, 0, t.NumMethod()),
		byName:  make(map[string]*Method, t.NumMethod()),
	}

	for idx := 0; idx < t.NumMethod(); idx++ {
		rm := t.Method(idx)
		m := &Method{
			Name:      rm.Name,
			Index:     idx,
			Interface: t,
			Type:      rm.Type,
			Variadic:  rm.Type.IsVariadic(),
		}
		for in := 0; in < rm.Type.NumIn(); in++ {
			m.In = append(m.In, rm.Type.In(in))
		}
		for out := 0; out < rm.Type.NumOut(); out++ {
			m.Out = append(m.Out, rm.Type.Out(out))
		}
		iface.Methods = append(iface.Methods, m)
		iface.byName[m.Name] = m
	}

	actual, _ := describeCache.LoadOrStore(t, iface)
	return actual.(*Interface), nil
}

// typeName returns a printable name for an interface type, used in error messages
func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Name() != "" {
		return t.Name()
	}
	return fmt.Sprint(t)
}
