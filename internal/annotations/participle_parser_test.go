package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T) *ParticipleParser {
	t.Helper()
	reg := NewRegistry()
	require.NoError(t, RegisterBuiltinSchemas(reg))
	return NewParticipleParser(reg)
}

func TestIsAnnotation(t *testing.T) {
	tests := []struct {
		comment string
		want    bool
	}{
		{"//proxy::handler", true},
		{"  //proxy::target -Name=X", true},
		{"// proxy::target", true},
		{"// proxy handler", false},
		{"//wire::core", false},
		{"proxy::handler", false},
	}

	for _, tt := range tests {
		t.Run(tt.comment, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAnnotation(tt.comment))
		})
	}
}

func TestParseAnnotation(t *testing.T) {
	p := newTestParser(t)
	loc := SourceLocation{File: "dao.go", Line: 7, Column: 1}

	tests := []struct {
		name    string
		comment string
		want    AnnotationType
		params  map[string]any
	}{
		{
			name:    "bare handler",
			comment: "//proxy::handler",
			want:    HandlerAnnotation,
			params:  map[string]any{"NoRegister": false},
		},
		{
			name:    "target with name and constructor",
			comment: "//proxy::target -Name=LoggedUserDao -Constructor=WrapLogged",
			want:    TargetAnnotation,
			params:  map[string]any{"Name": "LoggedUserDao", "Constructor": "WrapLogged", "NoRegister": false},
		},
		{
			name:    "quoted value",
			comment: `//proxy::handler -Name="AuditedUserDao"`,
			want:    HandlerAnnotation,
			params:  map[string]any{"Name": "AuditedUserDao", "NoRegister": false},
		},
		{
			name:    "bool flag",
			comment: "//proxy::target -NoRegister",
			want:    TargetAnnotation,
			params:  map[string]any{"NoRegister": true},
		},
		{
			name:    "explicit bool",
			comment: "// proxy::target -NoRegister=false",
			want:    TargetAnnotation,
			params:  map[string]any{"NoRegister": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := p.ParseAnnotation("UserDao", tt.comment, loc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Type)
			assert.Equal(t, "UserDao", a.Target)
			assert.Equal(t, tt.params, a.Parameters)
			assert.Equal(t, loc, a.Location)
		})
	}
}

func TestParseAnnotationErrors(t *testing.T) {
	p := newTestParser(t)
	loc := SourceLocation{File: "dao.go", Line: 3, Column: 1}

	tests := []struct {
		name    string
		comment string
		code    ErrorCode
	}{
		{"not an annotation", "// regular comment", SyntaxErrorCode},
		{"unknown type", "//proxy::cglib", SchemaErrorCode},
		{"unknown parameter", "//proxy::handler -Mode=Singleton", SchemaErrorCode},
		{"missing value", "//proxy::handler -Name", ValidationErrorCode},
		{"unexported name", "//proxy::handler -Name=userProxy", ValidationErrorCode},
		{"keyword name", "//proxy::target -Constructor=func", ValidationErrorCode},
		{"bad bool", "//proxy::target -NoRegister=maybe", ValidationErrorCode},
		{"duplicate parameter", "//proxy::target -Name=A -Name=B", ValidationErrorCode},
		{"stray token", "//proxy::handler UserDao", SyntaxErrorCode},
		{"missing dash", "//proxy::handler Name=X", SyntaxErrorCode},
		{"name equals constructor", "//proxy::handler -Name=Same -Constructor=Same", SchemaErrorCode},
		{"name equals interface", "//proxy::handler -Name=UserDao", SchemaErrorCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseAnnotation("UserDao", tt.comment, loc)
			require.Error(t, err)

			var aerr AnnotationError
			require.ErrorAs(t, err, &aerr)
			assert.Equal(t, tt.code, aerr.Code(), err.Error())
			assert.Equal(t, "dao.go", aerr.Location().File)
			assert.Equal(t, 3, aerr.Location().Line)
			assert.NotEmpty(t, aerr.Suggestion())
		})
	}
}

func TestParseAnnotationParameterColumn(t *testing.T) {
	p := newTestParser(t)

	_, err := p.ParseAnnotation("UserDao", "//proxy::handler -Bogus=1", SourceLocation{File: "dao.go", Line: 2, Column: 1})
	require.Error(t, err)

	var serr *SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 18, serr.Loc.Column)
	assert.Contains(t, serr.Hint, "-Constructor, -Name, -NoRegister")
}
