package utils

import (
	"bytes"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/tools/imports"
)

var formatOptions = &imports.Options{
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
	FormatOnly: true,
}

// FormatGoCode formats generated source. Imports are sorted and grouped but never
// added or removed, so the result does not depend on the local GOPATH.
func FormatGoCode(filename string, source []byte) ([]byte, error) {
	formatted, err := imports.Process(filename, source, formatOptions)
	if err != nil {
		if parseErr := ValidateGoCode(string(source)); parseErr != nil {
			return source, fmt.Errorf("invalid Go syntax: %w", parseErr)
		}
		return source, err
	}
	return formatted, nil
}

// ValidateGoCode checks if the provided code is valid Go syntax
func ValidateGoCode(code string) error {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "", code, parser.ParseComments)
	return err
}

var (
	writeLocksMu sync.Mutex
	writeLocks   = make(map[string]*sync.Mutex)
)

func writeLock(path string) *sync.Mutex {
	writeLocksMu.Lock()
	defer writeLocksMu.Unlock()

	mu, ok := writeLocks[path]
	if !ok {
		mu = &sync.Mutex{}
		writeLocks[path] = mu
	}
	return mu
}

// WriteGeneratedFile truncates and rewrites filename. Concurrent writers for the
// same path in this process are serialized. It reports whether the content changed.
func WriteGeneratedFile(filename string, content []byte) (bool, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return false, err
	}

	mu := writeLock(abs)
	mu.Lock()
	defer mu.Unlock()

	previous, err := os.ReadFile(abs)
	changed := err != nil || !bytes.Equal(previous, content)

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(abs, content, 0o644); err != nil {
		return false, err
	}
	return changed, nil
}
