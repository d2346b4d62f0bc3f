package templates

// FileData is everything needed to render one generated file
type FileData struct {
	Header      string
	PackageName string
	Imports     []ImportData
	Interfaces  []InterfaceData
	Plugin      bool // render package main with an empty main func
}

// Registrations reports whether the file needs an init func
func (f FileData) Registrations() bool {
	for _, iface := range f.Interfaces {
		if (iface.Handler != nil && iface.Handler.Register) || (iface.Target != nil && iface.Target.Register) {
			return true
		}
	}
	return false
}

// ImportData is one import spec
type ImportData struct {
	Alias      string
	Path       string
	GroupStart bool // preceded by a blank line
}

// InterfaceData describes the proxies of one interface
type InterfaceData struct {
	Name    string // interface name, used in trace lines
	Type    string // interface type expression in the generated file
	RT      string // name the runtime package is imported as
	Recv    string // receiver name of generated methods
	Results string // name of the boxed results variable
	Handler *ProxyData
	Target  *ProxyData
	Methods []MethodData
}

// QuotedMethodNames returns the method names as Go string literals, comma separated
func (i InterfaceData) QuotedMethodNames() string {
	out := ""
	for idx, m := range i.Methods {
		if idx > 0 {
			out += ", "
		}
		out += `"` + m.Name + `"`
	}
	return out
}

// ProxyData names one generated proxy type
type ProxyData struct {
	TypeName    string
	Constructor string
	Register    bool
}

// MethodData is one method of a generated proxy
type MethodData struct {
	Name        string
	Index       int      // position in the descriptor lookup
	Params      string   // "a0 string, a1 ...int"
	Results     string   // "", " string" or " (string, error)"
	BoxArgs     string   // "a0, a1"
	CallArgs    string   // "a0, a1..."
	ResultTypes []string // result types for unboxing
}
