package templates

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userDaoData() FileData {
	methods := []MethodData{
		{Name: "SaySomething", Index: 0, Params: "a0 string", Results: " string", BoxArgs: "a0", CallArgs: "a0", ResultTypes: []string{"string"}},
		{Name: "DoSomething", Index: 1, Params: "a0 string", BoxArgs: "a0", CallArgs: "a0"},
	}
	return FileData{
		Header:      "// Code generated by proxygen. DO NOT EDIT.",
		PackageName: "userdao",
		Imports:     []ImportData{{Path: "github.com/toyz/proxygen/pkg/proxy"}},
		Interfaces: []InterfaceData{{
			Name:    "UserDao",
			Type:    "UserDao",
			RT:      "proxy",
			Recv:    "p",
			Results: "results",
			Handler: &ProxyData{TypeName: "UserDaoHandlerProxy", Constructor: "NewUserDaoHandlerProxy", Register: true},
			Target:  &ProxyData{TypeName: "UserDaoTargetProxy", Constructor: "NewUserDaoTargetProxy", Register: true},
			Methods: methods,
		}},
	}
}

const userDaoExpected = `// Code generated by proxygen. DO NOT EDIT.

package userdao

import (
	"github.com/toyz/proxygen/pkg/proxy"
)

// UserDaoHandlerProxy implements UserDao by sending every call to an invocation handler.
type UserDaoHandlerProxy struct {
	handler proxy.InvocationHandler
	methods []*proxy.Method
}

// NewUserDaoHandlerProxy returns a UserDao whose calls are dispatched to h.
func NewUserDaoHandlerProxy(h proxy.InvocationHandler) *UserDaoHandlerProxy {
	return &UserDaoHandlerProxy{
		handler: h,
		methods: proxy.MustDescribe[UserDao]().Lookup("SaySomething", "DoSomething"),
	}
}

func (p *UserDaoHandlerProxy) SaySomething(a0 string) string {
	results := p.handler.Invoke(p.methods[0], []any{a0})
	return proxy.Result[string](results, 0)
}

func (p *UserDaoHandlerProxy) DoSomething(a0 string) {
	p.handler.Invoke(p.methods[1], []any{a0})
}

// UserDaoTargetProxy implements UserDao by tracing every call and forwarding it to a wrapped UserDao.
type UserDaoTargetProxy struct {
	target UserDao
}

// NewUserDaoTargetProxy returns a UserDao forwarding every call to target.
func NewUserDaoTargetProxy(target UserDao) *UserDaoTargetProxy {
	return &UserDaoTargetProxy{target: target}
}

func (p *UserDaoTargetProxy) SaySomething(a0 string) string {
	proxy.DefaultTracer().Trace("UserDao", "SaySomething")
	return p.target.SaySomething(a0)
}

func (p *UserDaoTargetProxy) DoSomething(a0 string) {
	proxy.DefaultTracer().Trace("UserDao", "DoSomething")
	p.target.DoSomething(a0)
}

func init() {
	proxy.RegisterHandlerProxy[UserDao](func(h proxy.InvocationHandler) UserDao { return NewUserDaoHandlerProxy(h) })
	proxy.RegisterTargetProxy[UserDao](func(t UserDao) UserDao { return NewUserDaoTargetProxy(t) })
}
`

func TestGenerateFile(t *testing.T) {
	out, err := GenerateFile(userDaoData())
	require.NoError(t, err)

	if diff := cmp.Diff(userDaoExpected, out); diff != "" {
		t.Errorf("generated file mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateFileIsDeterministic(t *testing.T) {
	first, err := GenerateFile(userDaoData())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := GenerateFile(userDaoData())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGenerateFileWithoutRegistration(t *testing.T) {
	data := userDaoData()
	data.Interfaces[0].Handler.Register = false
	data.Interfaces[0].Target = nil

	out, err := GenerateFile(data)
	require.NoError(t, err)

	assert.NotContains(t, out, "func init()")
	assert.NotContains(t, out, "UserDaoTargetProxy")
	assert.Contains(t, out, "type UserDaoHandlerProxy struct")
	assertParses(t, out)
}

func TestGenerateFileMultipleResultsAndVariadic(t *testing.T) {
	data := FileData{
		Header:      "// Code generated by proxygen. DO NOT EDIT.",
		PackageName: "main",
		Plugin:      true,
		Imports: []ImportData{
			{Path: "context"},
			{Path: "example.com/store", GroupStart: true},
			{Alias: "proxyrt", Path: "github.com/toyz/proxygen/pkg/proxy"},
		},
		Interfaces: []InterfaceData{{
			Name:    "Store",
			Type:    "store.Store",
			RT:      "proxyrt",
			Recv:    "p",
			Results: "results",
			Handler: &ProxyData{TypeName: "StoreHandlerProxy", Constructor: "NewStoreHandlerProxy", Register: true},
			Target:  &ProxyData{TypeName: "StoreTargetProxy", Constructor: "NewStoreTargetProxy"},
			Methods: []MethodData{{
				Name:        "Put",
				Params:      "a0 context.Context, a1 ...store.Item",
				Results:     " (int, error)",
				BoxArgs:     "a0, a1",
				CallArgs:    "a0, a1...",
				ResultTypes: []string{"int", "error"},
			}},
		}},
	}

	out, err := GenerateFile(data)
	require.NoError(t, err)
	assertParses(t, out)

	assert.Contains(t, out, "import (\n\t\"context\"\n\n\t\"example.com/store\"\n\tproxyrt \"github.com/toyz/proxygen/pkg/proxy\"\n)\n")
	assert.Contains(t, out, "\treturn proxyrt.Result[int](results, 0), proxyrt.Result[error](results, 1)\n")
	assert.Contains(t, out, "\treturn p.target.Put(a0, a1...)\n")
	assert.Contains(t, out, "proxyrt.RegisterHandlerProxy[store.Store]")
	assert.NotContains(t, out, "RegisterTargetProxy")
	assert.Contains(t, out, "\nfunc main() {}\n")
}

func TestExecuteTemplate(t *testing.T) {
	out, err := ExecuteTemplate("greet", "hello {{.}}", "proxy")
	require.NoError(t, err)
	assert.Equal(t, "hello proxy", out)

	_, err = ExecuteTemplate("broken", "{{.Missing", nil)
	assert.ErrorContains(t, err, "failed to parse template 'broken'")
}

func TestTemplateRegistry(t *testing.T) {
	r := NewTemplateRegistry()
	assert.ElementsMatch(t, []string{"file", "register", "handler", "target"}, r.Names())

	_, ok := r.Get("missing")
	assert.False(t, ok)
	assert.Panics(t, func() { r.MustGet("missing") })
}

func assertParses(t *testing.T, src string) {
	t.Helper()
	_, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.ParseComments)
	require.NoError(t, err, src)
}
