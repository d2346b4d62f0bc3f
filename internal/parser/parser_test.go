package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/proxygen/internal/models"
)

const userDaoSource = `package dao

// UserDao is the demo service.
//
//proxy::handler
//proxy::target
type UserDao interface {
	SaySomething(say string) string
	DoSomething(d string)
}

type UserDaoImpl struct{}
`

func TestParseSourceUserDao(t *testing.T) {
	p := NewParser()
	metadata, err := p.ParseSource("dao.go", userDaoSource)
	require.NoError(t, err)

	assert.Equal(t, "dao", metadata.PackageName)
	require.Len(t, metadata.Interfaces, 1)

	iface := metadata.Interfaces[0]
	assert.Equal(t, "UserDao", iface.Name)
	assert.Equal(t, "dao.go", iface.FileName)
	assert.Equal(t, 7, iface.Line)
	assert.True(t, iface.Exportable())
	assert.Empty(t, iface.Imports)

	assert.Equal(t, []models.ProxySpec{
		{Kind: models.ProxyKindHandler, TypeName: "UserDaoHandlerProxy", Constructor: "NewUserDaoHandlerProxy", Register: true},
		{Kind: models.ProxyKindTarget, TypeName: "UserDaoTargetProxy", Constructor: "NewUserDaoTargetProxy", Register: true},
	}, iface.Proxies)

	assert.Equal(t, []models.Method{
		{
			Name:       "SaySomething",
			Parameters: []models.Parameter{{Name: "say", Type: "string", QualifiedType: "string"}},
			Results:    []models.Result{{Type: "string", QualifiedType: "string"}},
		},
		{
			Name:       "DoSomething",
			Parameters: []models.Parameter{{Name: "d", Type: "string", QualifiedType: "string"}},
		},
	}, iface.Methods)
}

func TestParseSourceSignatures(t *testing.T) {
	src := `package store

import (
	"context"
	jsonx "encoding/json"
	"io"
)

type Item struct{}

type key string

//proxy::handler -Name=AuditedStore
type Store interface {
	Get(ctx context.Context, id string) (*Item, error)
	Put(ctx context.Context, items ...Item) (n int, err error)
	Stream(w io.Writer, ch <-chan []byte, done chan<- struct{}) error
	Decode(raw jsonx.RawMessage, into map[string]any) func(int) bool
	Lookup(k key, ids [4]int, a, b int)
}
`
	metadata, err := NewParser().ParseSource("store.go", src)
	require.NoError(t, err)
	require.Len(t, metadata.Interfaces, 1)
	iface := metadata.Interfaces[0]

	assert.Equal(t, "AuditedStore", iface.Proxies[0].TypeName)
	assert.Equal(t, "NewAuditedStore", iface.Proxies[0].Constructor)

	assert.Equal(t, []models.Import{
		{Name: "context", Path: "context"},
		{Name: "jsonx", Path: "encoding/json"},
		{Name: "io", Path: "io"},
	}, iface.Imports)

	get := iface.Methods[0]
	assert.Equal(t, "*Item", get.Results[0].Type)
	assert.Equal(t, "*store.Item", get.Results[0].QualifiedType)
	assert.Equal(t, "context.Context", get.Parameters[0].QualifiedType)

	put := iface.Methods[1]
	assert.True(t, put.Variadic())
	assert.Equal(t, models.Parameter{Name: "items", Type: "Item", QualifiedType: "store.Item", Variadic: true}, put.Parameters[1])
	assert.Equal(t, []models.Result{{Name: "n", Type: "int", QualifiedType: "int"}, {Name: "err", Type: "error", QualifiedType: "error"}}, put.Results)

	stream := iface.Methods[2]
	assert.Equal(t, "<-chan []byte", stream.Parameters[1].Type)
	assert.Equal(t, "chan<- struct{}", stream.Parameters[2].Type)

	decode := iface.Methods[3]
	assert.Equal(t, "jsonx.RawMessage", decode.Parameters[0].Type)
	assert.Equal(t, "map[string]any", decode.Parameters[1].Type)
	assert.Equal(t, "func(int) bool", decode.Results[0].Type)

	lookup := iface.Methods[4]
	require.Len(t, lookup.Parameters, 4)
	assert.Equal(t, "store.key", lookup.Parameters[0].QualifiedType)
	assert.Equal(t, "[4]int", lookup.Parameters[1].Type)
	assert.Equal(t, "b", lookup.Parameters[3].Name)

	assert.Equal(t, []string{"key"}, iface.Unexported)
	assert.False(t, iface.Exportable())
}

func TestParseSourceEmbedding(t *testing.T) {
	src := `package svc

type Closer interface {
	Close() error
}

type Named interface {
	Name() string
	Close() error
}

//proxy::target
type Service interface {
	Closer
	Named
	error
	Run(args ...string) error
}
`
	metadata, err := NewParser().ParseSource("svc.go", src)
	require.NoError(t, err)
	require.Len(t, metadata.Interfaces, 1)

	assert.Equal(t, []string{"Close", "Name", "Error", "Run"}, metadata.Interfaces[0].MethodNames())
}

func TestParseSourceGroupedDeclaration(t *testing.T) {
	src := `package svc

// These are not proxied.
//proxy::handler
type (
	// Plain is not annotated
	Plain interface{ A() }

	//proxy::handler
	Proxied interface{ B() }
)
`
	metadata, err := NewParser().ParseSource("svc.go", src)
	require.NoError(t, err)
	require.Len(t, metadata.Interfaces, 1)
	assert.Equal(t, "Proxied", metadata.Interfaces[0].Name)
}

func TestParseSourceErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		errType  models.ErrorType
		contains string
	}{
		{
			name: "struct annotated",
			src: `package x
//proxy::handler
type Impl struct{}
`,
			errType:  models.ErrorTypeValidation,
			contains: "is not an interface",
		},
		{
			name: "generic interface",
			src: `package x
//proxy::handler
type Store[T any] interface{ Get() T }
`,
			errType:  models.ErrorTypeValidation,
			contains: "generic interface Store",
		},
		{
			name: "alias",
			src: `package x
type Base interface{ A() }
//proxy::handler
type Alias = Base
`,
			errType:  models.ErrorTypeValidation,
			contains: "type alias",
		},
		{
			name: "embedded from another package",
			src: `package x
import "io"
//proxy::handler
type RW interface{ io.Reader }
`,
			errType:  models.ErrorTypeValidation,
			contains: "interfaces from other packages",
		},
		{
			name: "conflicting duplicate",
			src: `package x
type A interface{ Do() }
//proxy::handler
type B interface {
	A
	Do() error
}
`,
			errType:  models.ErrorTypeValidation,
			contains: "more than once",
		},
		{
			name: "duplicate annotation",
			src: `package x
//proxy::handler
//proxy::handler -Name=Other
type A interface{ Do() }
`,
			errType:  models.ErrorTypeValidation,
			contains: "more than once",
		},
		{
			name: "bad annotation",
			src: `package x
//proxy::handler -Mode=Fast
type A interface{ Do() }
`,
			errType:  models.ErrorTypeAnnotationSyntax,
			contains: "unknown parameter -Mode",
		},
		{
			name: "invalid name",
			src: `package x
//proxy::handler -Name=lower
type A interface{ Do() }
`,
			errType:  models.ErrorTypeValidation,
			contains: "invalid annotation parameter -Name",
		},
		{
			name: "collision with declaration",
			src: `package x
//proxy::target
type A interface{ Do() }
func NewATargetProxy() {}
`,
			errType:  models.ErrorTypeValidation,
			contains: "NewATargetProxy collides",
		},
		{
			name: "collision between interfaces",
			src: `package x
//proxy::target -Name=Wrapped
type A interface{ Do() }
//proxy::target -Name=Wrapped
type B interface{ Do() }
`,
			errType:  models.ErrorTypeValidation,
			contains: "Wrapped collides",
		},
		{
			name: "unknown package",
			src: `package x
//proxy::handler
type A interface{ Do(t time.Time) }
`,
			errType:  models.ErrorTypeValidation,
			contains: "unknown package time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().ParseSource("x.go", tt.src)
			require.Error(t, err)

			var genErr *models.GeneratorError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, tt.errType, genErr.Type)
			assert.Contains(t, genErr.Message, tt.contains)
			assert.Equal(t, "x.go", genErr.File)
			assert.NotEmpty(t, genErr.Suggestions)
		})
	}
}

func TestParseDirectory(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	write("base.go", `package dao

import "context"

type Base interface {
	Ping(ctx context.Context) error
}
`)
	write("dao.go", `package dao

//proxy::handler
type Dao interface {
	Base
	Find(id int) (string, bool)
}
`)
	write("dao_test.go", `package dao_test

//proxy::handler
type Ignored interface{}
`)
	write("ignored.go", `//go:build ignore

package main
`)
	write(GeneratedFileName, models.GeneratedHeader+`

package dao

type DaoHandlerProxy struct{}

func NewDaoHandlerProxy() {}
`)

	metadata, err := NewParser().ParseDirectory(dir)
	require.NoError(t, err)

	assert.Equal(t, "dao", metadata.PackageName)
	assert.Equal(t, dir, metadata.PackagePath)
	require.Len(t, metadata.Interfaces, 1)

	iface := metadata.Interfaces[0]
	assert.Equal(t, dir, iface.PackagePath)
	assert.Equal(t, filepath.Join(dir, "dao.go"), iface.FileName)
	assert.Equal(t, []string{"Ping", "Find"}, iface.MethodNames())
	assert.Equal(t, []models.Import{{Name: "context", Path: "context"}}, iface.Imports)
}

func TestParseDirectoryErrors(t *testing.T) {
	_, err := NewParser().ParseDirectory(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	empty := t.TempDir()
	_, err = NewParser().ParseDirectory(empty)
	assert.ErrorContains(t, err, "no Go files")

	mixed := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(mixed, "a.go"), []byte("package a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(mixed, "b.go"), []byte("package b\n"), 0o644))
	_, err = NewParser().ParseDirectory(mixed)
	assert.ErrorContains(t, err, "multiple packages")
}

func TestImportName(t *testing.T) {
	tests := map[string]string{
		"context":                             "context",
		"github.com/google/uuid":              "uuid",
		"github.com/labstack/echo/v4":         "echo",
		"gopkg.in/yaml.v3":                    "yaml",
		"github.com/mattn/go-isatty":          "isatty",
		"github.com/alecthomas/participle/v2": "participle",
	}
	for path, want := range tests {
		assert.Equal(t, want, importName(path), path)
	}
}
