package models

import (
	"fmt"
	"go/token"

	"github.com/toyz/proxygen/internal/annotations"
)

// InterfaceMetadata describes an annotated interface found in source
type InterfaceMetadata struct {
	Name        string      // interface name
	PackageName string      // declaring package name
	PackagePath string      // directory of the declaring package
	ImportPath  string      // import path of the declaring package, empty when unknown
	FileName    string      // file declaring the interface
	Line        int         // line of the type declaration
	Proxies     []ProxySpec // proxies requested by annotations
	Methods     []Method    // full method set, embedded interfaces flattened
	Imports     []Import    // imports referenced by method signatures
	Unexported  []string    // unexported identifiers the method set depends on
}

// Exportable reports whether the interface can be implemented from another package
func (m *InterfaceMetadata) Exportable() bool {
	return token.IsExported(m.Name) && len(m.Unexported) == 0
}

// Proxy returns the requested proxy of the given kind
func (m *InterfaceMetadata) Proxy(kind ProxyKind) (ProxySpec, bool) {
	for _, p := range m.Proxies {
		if p.Kind == kind {
			return p, true
		}
	}
	return ProxySpec{}, false
}

// MethodNames returns method names in declaration order
func (m *InterfaceMetadata) MethodNames() []string {
	names := make([]string, len(m.Methods))
	for i, method := range m.Methods {
		names[i] = method.Name
	}
	return names
}

// Method represents a method signature of an interface
type Method struct {
	Name       string      // method name
	Parameters []Parameter // method parameters
	Results    []Result    // method results
}

// Variadic reports whether the last parameter is variadic
func (m Method) Variadic() bool {
	return len(m.Parameters) > 0 && m.Parameters[len(m.Parameters)-1].Variadic
}

// IsVoid reports whether the method has no results
func (m Method) IsVoid() bool {
	return len(m.Results) == 0
}

// Parameter represents a method parameter. Type is the expression as written in the
// declaring package; QualifiedType is the same type usable from another package.
type Parameter struct {
	Name          string
	Type          string
	QualifiedType string
	Variadic      bool // Type holds the element type
}

// Result represents a method result
type Result struct {
	Name          string
	Type          string
	QualifiedType string
}

// Import is an import referenced by a method signature
type Import struct {
	Name string // package name used in the source
	Path string // import path
}

// ProxySpec describes one proxy to generate for an interface
type ProxySpec struct {
	Kind        ProxyKind
	TypeName    string // generated struct name
	Constructor string // generated constructor name
	Register    bool   // register the constructor from init
}

// NewProxySpec builds a proxy spec for iface, applying -Name, -Constructor and -NoRegister
func NewProxySpec(kind ProxyKind, iface string, a *annotations.ParsedAnnotation) ProxySpec {
	spec := ProxySpec{
		Kind:     kind,
		TypeName: iface + kind.Suffix(),
		Register: true,
	}
	if a != nil {
		spec.TypeName = a.GetString("Name", spec.TypeName)
		spec.Register = !a.GetBool("NoRegister")
	}
	spec.Constructor = "New" + spec.TypeName
	if a != nil {
		spec.Constructor = a.GetString("Constructor", spec.Constructor)
	}
	return spec
}

func (p ProxySpec) String() string {
	return fmt.Sprintf("%s proxy %s (%s)", p.Kind, p.TypeName, p.Constructor)
}
