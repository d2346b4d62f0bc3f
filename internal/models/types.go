package models

// ErrorType represents different types of generator errors
type ErrorType int

const (
	ErrorTypeAnnotationSyntax ErrorType = iota
	ErrorTypeValidation
	ErrorTypeGeneration
	ErrorTypeFileSystem
	ErrorTypeCompilation
	ErrorTypePlugin
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeAnnotationSyntax:
		return "annotation syntax"
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeGeneration:
		return "generation"
	case ErrorTypeFileSystem:
		return "file system"
	case ErrorTypeCompilation:
		return "compilation"
	case ErrorTypePlugin:
		return "plugin"
	default:
		return "unknown"
	}
}

// ProxyKind is the delegation strategy of a generated proxy
type ProxyKind int

const (
	ProxyKindHandler ProxyKind = iota // calls go to an InvocationHandler
	ProxyKindTarget                   // calls go to a wrapped implementation
)

func (k ProxyKind) String() string {
	if k == ProxyKindTarget {
		return "target"
	}
	return "handler"
}

// Suffix is appended to the interface name to build the default type name
func (k ProxyKind) Suffix() string {
	if k == ProxyKindTarget {
		return "TargetProxy"
	}
	return "HandlerProxy"
}
