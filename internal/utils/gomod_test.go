package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoModParser(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/demo\n\ngo 1.25\n")
	pkgDir := filepath.Join(root, "internal", "svc")
	require.NoError(t, os.MkdirAll(pkgDir, 0o755))

	p := NewGoModParser(nil)

	goMod, err := p.FindGoModFile(pkgDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "go.mod"), goMod)

	name, err := p.ParseModuleName(goMod)
	require.NoError(t, err)
	assert.Equal(t, "example.com/demo", name)

	info, err := p.ResolveModule(pkgDir)
	require.NoError(t, err)
	assert.Equal(t, root, info.Root)

	importPath, err := info.ImportPath(pkgDir)
	require.NoError(t, err)
	assert.Equal(t, "example.com/demo/internal/svc", importPath)

	importPath, err = info.ImportPath(root)
	require.NoError(t, err)
	assert.Equal(t, "example.com/demo", importPath)

	_, err = info.ImportPath(filepath.Dir(root))
	assert.Error(t, err)
}

func TestGoModParserErrors(t *testing.T) {
	root := t.TempDir()
	p := NewGoModParser(NewFileReader())

	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"not a go.mod", "mod.txt", "module x\n", "not a go.mod"},
		{"no module", "nomodule/go.mod", "go 1.25\n", "no module declaration"},
		{"bad syntax", "bad/go.mod", "module (\n", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(root, tt.file)
			writeFile(t, path, tt.content)
			_, err := p.ParseModuleName(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
