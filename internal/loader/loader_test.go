package loader

import (
	"fmt"
	"path/filepath"
	"plugin"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/proxygen/internal/errors"
	"github.com/toyz/proxygen/pkg/proxy"
)

type Greeter interface {
	Greet(name string) string
}

type greeter struct{}

func (greeter) Greet(name string) string { return "hello " + name }

type handlerGreeter struct{ h proxy.InvocationHandler }

func (g *handlerGreeter) Greet(name string) string {
	m := proxy.MustDescribe[Greeter]().Lookup("Greet")[0]
	return proxy.Result[string](g.h.Invoke(m, []any{name}), 0)
}

type upperGreeter struct{ target Greeter }

func (g *upperGreeter) Greet(name string) string { return g.target.Greet(name) + "!" }

type symbols map[string]plugin.Symbol

func (s symbols) Lookup(name string) (plugin.Symbol, error) {
	sym, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("symbol %s not found", name)
	}
	return sym, nil
}

func testPlugin() *Plugin {
	return FromSymbols("greeter.so", symbols{
		"NewGreeterHandlerProxy": func(h proxy.InvocationHandler) *handlerGreeter { return &handlerGreeter{h: h} },
		"NewGreeterTargetProxy":  func(t Greeter) *upperGreeter { return &upperGreeter{target: t} },
		"Version":                new(string),
		"WrongArg":               func(s string) *upperGreeter { return nil },
		"WrongResult":            func(t Greeter) string { return "" },
	})
}

func TestNewInstance(t *testing.T) {
	h := proxy.HandlerFunc(func(m *proxy.Method, args []any) []any {
		return []any{m.Name + ":" + args[0].(string)}
	})

	g, err := NewInstance[Greeter](testPlugin(), "NewGreeterHandlerProxy", h)
	require.NoError(t, err)
	assert.Equal(t, "Greet:bob", g.Greet("bob"))

	_, err = NewInstance[Greeter](testPlugin(), "NewGreeterHandlerProxy", nil)
	assert.ErrorIs(t, err, proxy.ErrNilHandler)
}

func TestWrap(t *testing.T) {
	g, err := Wrap[Greeter](testPlugin(), "NewGreeterTargetProxy", greeter{})
	require.NoError(t, err)
	assert.Equal(t, "hello bob!", g.Greet("bob"))

	_, err = Wrap[Greeter](testPlugin(), "NewGreeterTargetProxy", nil)
	assert.ErrorIs(t, err, proxy.ErrNilTarget)
}

func TestConstructorChecks(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"Missing", "symbol Missing not found"},
		{"Version", "want a single-argument constructor"},
		{"WrongArg", "constructor takes string"},
		{"WrongResult", "does not implement"},
		{"NewGreeterHandlerProxy", "constructor takes proxy.InvocationHandler"},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			_, err := Wrap[Greeter](testPlugin(), tt.symbol, greeter{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			var base *errors.BaseError
			require.ErrorAs(t, err, &base)
			assert.Equal(t, errors.PluginErrorCode, base.Code)
			assert.Equal(t, tt.symbol, base.Context()["symbol"])
		})
	}
}

func TestOpenMissingPlugin(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.so"))
	require.Error(t, err)

	var base *errors.BaseError
	require.ErrorAs(t, err, &base)
	assert.Equal(t, errors.PluginErrorCode, base.Code)
	assert.NotEmpty(t, base.Suggestions())
}
