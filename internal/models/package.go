package models

import "sort"

// PackageMetadata holds every annotated interface of one package
type PackageMetadata struct {
	PackageName string              // name of the Go package
	PackagePath string              // file system path to the package
	ImportPath  string              // import path, filled in by the module resolver
	Interfaces  []InterfaceMetadata // annotated interfaces in declaration order
	Declared    []string            // sorted package-level identifiers
}

// IsDeclared reports whether name is declared at package level
func (p *PackageMetadata) IsDeclared(name string) bool {
	i := sort.SearchStrings(p.Declared, name)
	return i < len(p.Declared) && p.Declared[i] == name
}

// HasProxies reports whether anything needs to be generated for the package
func (p *PackageMetadata) HasProxies() bool {
	for _, iface := range p.Interfaces {
		if len(iface.Proxies) > 0 {
			return true
		}
	}
	return false
}
