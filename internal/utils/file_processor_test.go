package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/proxygen/internal/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanDirectoriesWithGoFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "a.go"), "package a\n")
	writeFile(t, filepath.Join(root, "a", "b", "b.go"), "package b\n")
	writeFile(t, filepath.Join(root, "tests", "x_test.go"), "package tests\n")
	writeFile(t, filepath.Join(root, "gen", models.GeneratedFileName), models.GeneratedHeader+"\npackage gen\n")
	writeFile(t, filepath.Join(root, "testdata", "t.go"), "package t\n")
	writeFile(t, filepath.Join(root, "_scratch", "s.go"), "package s\n")
	writeFile(t, filepath.Join(root, ".hidden", "h.go"), "package h\n")
	writeFile(t, filepath.Join(root, "vendor", "v", "v.go"), "package v\n")

	fp := NewFileProcessor()
	dirs, err := fp.ScanDirectoriesWithGoFiles([]string{root, root})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "a"),
		filepath.Join(root, "a", "b"),
	}, dirs)
}

func TestScanDirectoriesMissingRoot(t *testing.T) {
	fp := NewFileProcessor()
	_, err := fp.ScanDirectoriesWithGoFiles([]string{filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory read")
}

func TestHasGoFiles(t *testing.T) {
	fp := NewFileProcessor()

	dir := t.TempDir()
	ok, err := fp.HasGoFiles(dir)
	require.NoError(t, err)
	assert.False(t, ok)

	writeFile(t, filepath.Join(dir, models.GeneratedFileName), "package x\n")
	ok, err = fp.HasGoFiles(dir)
	require.NoError(t, err)
	assert.False(t, ok, "generated file alone is not a package source")

	writeFile(t, filepath.Join(dir, "x.go"), "package x\n")
	ok, err = fp.HasGoFiles(dir)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCleanDirectories(t *testing.T) {
	root := t.TempDir()
	generated := filepath.Join(root, "svc", models.GeneratedFileName)
	handWritten := filepath.Join(root, "other", models.GeneratedFileName)
	skipped := filepath.Join(root, "_proxygen", "svc", models.GeneratedFileName)

	writeFile(t, generated, models.GeneratedHeader+"\n\npackage svc\n")
	writeFile(t, handWritten, "package other\n")
	writeFile(t, skipped, models.GeneratedHeader+"\n\npackage main\n")
	writeFile(t, filepath.Join(root, "svc", "svc.go"), "package svc\n")

	fp := NewFileProcessor()
	removed, err := fp.CleanDirectories([]string{root})
	require.NoError(t, err)

	assert.Equal(t, []string{generated}, removed)
	assert.NoFileExists(t, generated)
	assert.FileExists(t, handWritten)
	assert.FileExists(t, skipped)
	assert.FileExists(t, filepath.Join(root, "svc", "svc.go"))
}

func TestIsGeneratedFile(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.go")
	writeFile(t, empty, "")
	ok, err := IsGeneratedFile(empty)
	require.NoError(t, err)
	assert.False(t, ok)

	gen := filepath.Join(dir, "gen.go")
	writeFile(t, gen, models.GeneratedHeader+"\npackage x\n")
	ok, err = IsGeneratedFile(gen)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = IsGeneratedFile(filepath.Join(dir, "missing.go"))
	assert.Error(t, err)
}
