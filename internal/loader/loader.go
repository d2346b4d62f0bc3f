package loader

import (
	"fmt"
	"plugin"
	"reflect"

	"github.com/toyz/proxygen/internal/errors"
	"github.com/toyz/proxygen/pkg/proxy"
)

// SymbolLookup resolves exported symbols, as *plugin.Plugin does
type SymbolLookup interface {
	Lookup(symbol string) (plugin.Symbol, error)
}

// Plugin is an opened proxy plugin. Opening it runs the generated init, which
// registers its proxies in proxy.DefaultRegistry.
type Plugin struct {
	Path    string
	symbols SymbolLookup
}

// Open loads the plugin at path
func Open(path string) (*Plugin, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, errors.WrapPluginError(path, "", err).
			WithSuggestion("Build the plugin with the same Go version and module versions as the host")
	}
	return &Plugin{Path: path, symbols: p}, nil
}

// FromSymbols wraps an existing symbol source
func FromSymbols(path string, symbols SymbolLookup) *Plugin {
	return &Plugin{Path: path, symbols: symbols}
}

// Lookup returns a raw symbol
func (p *Plugin) Lookup(symbol string) (plugin.Symbol, error) {
	sym, err := p.symbols.Lookup(symbol)
	if err != nil {
		return nil, errors.WrapPluginError(p.Path, symbol, err)
	}
	return sym, nil
}

var handlerType = reflect.TypeOf((*proxy.InvocationHandler)(nil)).Elem()

// constructor looks up symbol and checks it is a func(in) I
func (p *Plugin) constructor(symbol string, in, iface reflect.Type) (reflect.Value, error) {
	sym, err := p.Lookup(symbol)
	if err != nil {
		return reflect.Value{}, err
	}

	fn := reflect.ValueOf(sym)
	ft := fn.Type()
	if ft.Kind() != reflect.Func || ft.NumIn() != 1 || ft.NumOut() != 1 || ft.IsVariadic() {
		return reflect.Value{}, errors.WrapPluginError(p.Path, symbol,
			fmt.Errorf("symbol is %s, want a single-argument constructor", ft))
	}
	if ft.In(0) != in {
		return reflect.Value{}, errors.WrapPluginError(p.Path, symbol,
			fmt.Errorf("constructor takes %s, want %s", ft.In(0), in))
	}
	if !ft.Out(0).Implements(iface) {
		return reflect.Value{}, errors.WrapPluginError(p.Path, symbol,
			fmt.Errorf("constructor returns %s, which does not implement %s", ft.Out(0), iface))
	}
	return fn, nil
}

// NewInstance calls the handler proxy constructor symbol and returns the proxy as I
func NewInstance[I any](p *Plugin, symbol string, h proxy.InvocationHandler) (I, error) {
	var zero I
	if h == nil {
		return zero, &proxy.Error{Kind: proxy.ErrNilHandler, Message: "cannot build handler proxy"}
	}
	iface := reflect.TypeOf((*I)(nil)).Elem()
	fn, err := p.constructor(symbol, handlerType, iface)
	if err != nil {
		return zero, err
	}
	out := fn.Call([]reflect.Value{reflect.ValueOf(&h).Elem()})
	return out[0].Interface().(I), nil
}

// Wrap calls the target proxy constructor symbol around target
func Wrap[I any](p *Plugin, symbol string, target I) (I, error) {
	var zero I
	iface := reflect.TypeOf((*I)(nil)).Elem()
	if any(target) == nil {
		return zero, &proxy.Error{Kind: proxy.ErrNilTarget, Interface: iface.Name(), Message: "cannot build target proxy"}
	}
	fn, err := p.constructor(symbol, iface, iface)
	if err != nil {
		return zero, err
	}
	out := fn.Call([]reflect.Value{reflect.ValueOf(&target).Elem()})
	return out[0].Interface().(I), nil
}
