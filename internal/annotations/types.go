package annotations

import "fmt"

// AnnotationType identifies which proxy an annotation asks for
type AnnotationType int

const (
	HandlerAnnotation AnnotationType = iota
	TargetAnnotation
)

// Prefix is the marker every proxy annotation starts with
const Prefix = "//proxy::"

// String returns the keyword used after the prefix
func (a AnnotationType) String() string {
	switch a {
	case HandlerAnnotation:
		return "handler"
	case TargetAnnotation:
		return "target"
	default:
		return "unknown"
	}
}

// ParseAnnotationType converts a keyword to its AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "handler":
		return HandlerAnnotation, nil
	case "target":
		return TargetAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// SourceLocation points at an annotation in a source file
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

func (l SourceLocation) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// ParsedAnnotation is an annotation whose parameters have been checked against its schema
type ParsedAnnotation struct {
	Type       AnnotationType
	Target     string         // interface the annotation is attached to
	Parameters map[string]any // parameter values, defaults applied
	Location   SourceLocation
	Raw        string
}

// GetString returns a string parameter, or the first default when it is absent
func (p *ParsedAnnotation) GetString(name string, defaultValue ...string) string {
	if v, ok := p.Parameters[name].(string); ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetBool returns a boolean parameter, or the first default when it is absent
func (p *ParsedAnnotation) GetBool(name string, defaultValue ...bool) bool {
	if v, ok := p.Parameters[name].(bool); ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return false
}

// HasParameter reports whether the parameter was given or defaulted
func (p *ParsedAnnotation) HasParameter(name string) bool {
	_, ok := p.Parameters[name]
	return ok
}

// ParameterType is the value type of an annotation parameter
type ParameterType int

const (
	StringType ParameterType = iota
	BoolType
)

func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case BoolType:
		return "bool"
	default:
		return "unknown"
	}
}

// ParameterSpec describes one accepted parameter
type ParameterSpec struct {
	Type         ParameterType
	Required     bool
	DefaultValue any
	Description  string
	Validator    func(any) error
}

// CustomValidator checks an annotation as a whole after its parameters are validated
type CustomValidator func(*ParsedAnnotation) error

// AnnotationSchema lists what an annotation type accepts
type AnnotationSchema struct {
	Type        AnnotationType
	Description string
	Parameters  map[string]ParameterSpec
	Validators  []CustomValidator
	Examples    []string
}
