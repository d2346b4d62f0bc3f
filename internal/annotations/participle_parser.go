package annotations

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

type annotationNode struct {
	Kind   string       `parser:"Comment 'proxy' Separator @Ident"`
	Params []*paramNode `parser:"@@*"`
}

type paramNode struct {
	Pos   lexer.Position
	Key   string     `parser:"'-' @Ident"`
	Value *valueNode `parser:"( '=' @@ )?"`
}

type valueNode struct {
	String *string `parser:"  @String"`
	Ident  *string `parser:"| @Ident"`
	Number *string `parser:"| @Number"`
}

func (v *valueNode) raw() string {
	switch {
	case v.String != nil:
		return *v.String
	case v.Ident != nil:
		return *v.Ident
	case v.Number != nil:
		return *v.Number
	}
	return ""
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//`},
	{Name: "Separator", Pattern: `::`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[-=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// ParticipleParser parses //proxy:: annotations and checks them against a registry
type ParticipleParser struct {
	parser   *participle.Parser[annotationNode]
	registry AnnotationRegistry
}

// NewParticipleParser creates a parser validating against registry
func NewParticipleParser(registry AnnotationRegistry) *ParticipleParser {
	return &ParticipleParser{
		parser: participle.MustBuild[annotationNode](
			participle.Lexer(annotationLexer),
			participle.Elide("Whitespace"),
			participle.Unquote("String"),
		),
		registry: registry,
	}
}

// IsAnnotation reports whether a comment line is meant for proxygen
func IsAnnotation(comment string) bool {
	rest, ok := strings.CutPrefix(strings.TrimSpace(comment), "//")
	return ok && strings.HasPrefix(strings.TrimSpace(rest), "proxy::")
}

// ParseAnnotation parses comment as an annotation attached to the target interface
func (p *ParticipleParser) ParseAnnotation(target, comment string, location SourceLocation) (*ParsedAnnotation, error) {
	raw := strings.TrimSpace(comment)
	if !IsAnnotation(raw) {
		return nil, &SyntaxError{
			Msg:  fmt.Sprintf("'%s' is not a proxy annotation", raw),
			Loc:  location,
			Hint: syntaxHint(""),
		}
	}

	node, err := p.parser.ParseString(location.File, raw)
	if err != nil {
		return nil, p.syntaxError(err, location)
	}

	annotationType, err := ParseAnnotationType(node.Kind)
	if err != nil {
		return nil, &SchemaError{
			Msg:  fmt.Sprintf("unknown annotation type '%s'", node.Kind),
			Loc:  location,
			Hint: "Use //proxy::handler or //proxy::target",
		}
	}

	schema, err := p.registry.GetSchema(annotationType)
	if err != nil {
		return nil, &SchemaError{Msg: err.Error(), Loc: location, Hint: "Register the builtin schemas first"}
	}

	annotation := &ParsedAnnotation{
		Type:       annotationType,
		Target:     target,
		Parameters: make(map[string]any, len(node.Params)),
		Location:   location,
		Raw:        raw,
	}

	for _, param := range node.Params {
		if err := p.applyParameter(annotation, schema, param); err != nil {
			return nil, err
		}
	}

	for name, spec := range schema.Parameters {
		if _, ok := annotation.Parameters[name]; ok {
			continue
		}
		if spec.Required {
			return nil, &ValidationError{
				Parameter: name,
				Expected:  spec.Description,
				Actual:    "nothing",
				Loc:       location,
				Hint:      fmt.Sprintf("Add -%s=...", name),
			}
		}
		if spec.DefaultValue != nil {
			annotation.Parameters[name] = spec.DefaultValue
		}
	}

	for _, validate := range schema.Validators {
		if err := validate(annotation); err != nil {
			return nil, &SchemaError{Msg: err.Error(), Loc: location, Hint: examplesHint(schema)}
		}
	}

	return annotation, nil
}

func (p *ParticipleParser) applyParameter(annotation *ParsedAnnotation, schema AnnotationSchema, param *paramNode) error {
	loc := offset(annotation.Location, param.Pos)

	spec, ok := schema.Parameters[param.Key]
	if !ok {
		return &SchemaError{
			Msg:  fmt.Sprintf("unknown parameter -%s for %s", param.Key, schema.Type),
			Loc:  loc,
			Hint: "Accepted parameters: " + strings.Join(parameterNames(schema), ", "),
		}
	}
	if _, dup := annotation.Parameters[param.Key]; dup {
		return &ValidationError{
			Parameter: param.Key,
			Expected:  "a single value",
			Actual:    "the parameter twice",
			Loc:       loc,
			Hint:      "Remove the duplicate parameter",
		}
	}

	var value any = true
	if param.Value != nil {
		value = param.Value.raw()
	} else if spec.Type != BoolType {
		return &ValidationError{
			Parameter: param.Key,
			Expected:  spec.Type.String() + " value",
			Actual:    "a bare flag",
			Loc:       loc,
			Hint:      fmt.Sprintf("Write -%s=Value", param.Key),
		}
	}

	converted, err := convertValue(spec.Type, value)
	if err != nil {
		return &ValidationError{
			Parameter: param.Key,
			Expected:  spec.Type.String(),
			Actual:    fmt.Sprint(value),
			Loc:       loc,
			Hint:      examplesHint(schema),
		}
	}
	if spec.Validator != nil {
		if err := spec.Validator(converted); err != nil {
			return &ValidationError{
				Parameter: param.Key,
				Expected:  strings.ToLower(spec.Description),
				Actual:    err.Error(),
				Loc:       loc,
				Hint:      examplesHint(schema),
			}
		}
	}

	annotation.Parameters[param.Key] = converted
	return nil
}

func (p *ParticipleParser) syntaxError(err error, location SourceLocation) error {
	msg := err.Error()
	loc := location

	var perr participle.Error
	if errors.As(err, &perr) {
		msg = perr.Message()
		loc = offset(location, perr.Position())
	}
	return &SyntaxError{Msg: msg, Loc: loc, Hint: syntaxHint(msg)}
}

// offset moves location to a position inside the comment text
func offset(location SourceLocation, pos lexer.Position) SourceLocation {
	if pos.Column > 0 && location.Line > 0 {
		location.Column += pos.Column - 1
	}
	return location
}

func parameterNames(schema AnnotationSchema) []string {
	names := make([]string, 0, len(schema.Parameters))
	for name := range schema.Parameters {
		names = append(names, "-"+name)
	}
	sort.Strings(names)
	return names
}

func examplesHint(schema AnnotationSchema) string {
	if len(schema.Examples) == 0 {
		return ""
	}
	return "Example: " + schema.Examples[len(schema.Examples)-1]
}
