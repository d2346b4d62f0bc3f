package templates

import (
	"fmt"
	"sort"
	"strings"
)

// ImportManager collects the imports of one generated file. Every import is referenced
// by a name; a path imported twice keeps its first name and two paths may not share a name.
type ImportManager struct {
	byPath   map[string]string // path -> name
	byName   map[string]string // name -> path
	reserved map[string]bool   // names declared by the file's package
}

// NewImportManager creates a new import manager
func NewImportManager() *ImportManager {
	return &ImportManager{
		byPath:   make(map[string]string),
		byName:   make(map[string]string),
		reserved: make(map[string]bool),
	}
}

// Reserve marks names that imports may not use
func (im *ImportManager) Reserve(names ...string) {
	for _, name := range names {
		im.reserved[name] = true
	}
}

// Add registers path under name
func (im *ImportManager) Add(name, path string) error {
	if name == "" || path == "" {
		return fmt.Errorf("import needs a name and a path")
	}
	if existing, ok := im.byPath[path]; ok {
		if existing != name {
			return fmt.Errorf("%q is imported as both %s and %s", path, existing, name)
		}
		return nil
	}
	if other, ok := im.byName[name]; ok {
		return fmt.Errorf("import name %s is used by both %q and %q", name, other, path)
	}
	if im.reserved[name] {
		return fmt.Errorf("import name %s conflicts with a package-level declaration", name)
	}
	im.byPath[path] = name
	im.byName[name] = path
	return nil
}

// AddFree registers path under the first free name among base, base+"rt", base+"rt2"...
// and returns the name used. A path already present keeps its name.
func (im *ImportManager) AddFree(base, path string) string {
	if existing, ok := im.byPath[path]; ok {
		return existing
	}
	name := base
	for i := 1; im.Taken(name); i++ {
		name = base + "rt"
		if i > 1 {
			name = fmt.Sprintf("%srt%d", base, i)
		}
	}
	im.byPath[path] = name
	im.byName[name] = path
	return name
}

// Taken reports whether name is used by an import or reserved
func (im *ImportManager) Taken(name string) bool {
	_, used := im.byName[name]
	return used || im.reserved[name]
}

// Name returns the name path is imported under
func (im *ImportManager) Name(path string) (string, bool) {
	name, ok := im.byPath[path]
	return name, ok
}

// Names returns every import name in use
func (im *ImportManager) Names() []string {
	names := make([]string, 0, len(im.byName))
	for name := range im.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Imports returns the import specs, standard library first, each group sorted by path.
// The alias is omitted when it matches the last path element.
func (im *ImportManager) Imports() []ImportData {
	var std, other []ImportData
	for path, name := range im.byPath {
		spec := ImportData{Path: path}
		if name != defaultName(path) {
			spec.Alias = name
		}
		if isStandardLibrary(path) {
			std = append(std, spec)
		} else {
			other = append(other, spec)
		}
	}
	sortImports(std)
	sortImports(other)

	if len(std) > 0 && len(other) > 0 {
		other[0].GroupStart = true
	}
	return append(std, other...)
}

func sortImports(specs []ImportData) {
	sort.Slice(specs, func(i, j int) bool {
		return specs[i].Path < specs[j].Path
	})
}

func defaultName(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}

// isStandardLibrary uses the same rule as goimports: no dot in the first path element
func isStandardLibrary(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}
