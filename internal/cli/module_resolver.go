package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/toyz/proxygen/internal/utils"
)

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	goMod *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{goMod: utils.NewGoModParser(utils.NewFileReader())}
}

// ResolveModule finds the module enclosing dir. A custom module name replaces the
// path declared in go.mod but the root is still the directory holding go.mod.
func (r *ModuleResolver) ResolveModule(customModule, dir string) (*utils.ModuleInfo, error) {
	info, err := r.goMod.ResolveModule(dir)
	if err != nil {
		if customModule == "" {
			return nil, fmt.Errorf("failed to determine module name: %w (consider using -module)", err)
		}
		root, absErr := filepath.Abs(dir)
		if absErr != nil {
			return nil, absErr
		}
		return &utils.ModuleInfo{Path: customModule, Root: root}, nil
	}
	if customModule != "" {
		info.Path = customModule
	}
	return info, nil
}

// ImportPath builds the full import path for a package directory
func (r *ModuleResolver) ImportPath(customModule, packageDir string) (string, *utils.ModuleInfo, error) {
	info, err := r.ResolveModule(customModule, packageDir)
	if err != nil {
		return "", nil, err
	}
	importPath, err := info.ImportPath(packageDir)
	if err != nil {
		return "", nil, err
	}
	return importPath, info, nil
}

// pluginSubdir maps an import path below the module to a directory under the plugin dir
func pluginSubdir(module *utils.ModuleInfo, importPath string) string {
	rel := strings.TrimPrefix(strings.TrimPrefix(importPath, module.Path), "/")
	if rel == "" {
		rel = filepath.Base(module.Root)
	}
	return filepath.FromSlash(rel)
}
