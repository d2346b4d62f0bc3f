package parser

import (
	"fmt"
	"go/token"

	"github.com/toyz/proxygen/internal/annotations"
	"github.com/toyz/proxygen/internal/models"
)

func annotationError(err error) *models.GeneratorError {
	aerr, ok := err.(annotations.AnnotationError)
	if !ok {
		return &models.GeneratorError{Type: models.ErrorTypeAnnotationSyntax, Message: err.Error(), Cause: err}
	}

	out := &models.GeneratorError{
		Type:  models.ErrorTypeAnnotationSyntax,
		File:  aerr.Location().File,
		Line:  aerr.Location().Line,
		Cause: err,
	}
	switch e := aerr.(type) {
	case *annotations.SyntaxError:
		out.Message = "invalid annotation: " + e.Msg
	case *annotations.SchemaError:
		out.Message = "invalid annotation: " + e.Msg
	case *annotations.ValidationError:
		out.Type = models.ErrorTypeValidation
		out.Message = fmt.Sprintf("invalid annotation parameter -%s: expected %s, got %s", e.Parameter, e.Expected, e.Actual)
	default:
		out.Message = err.Error()
	}
	if hint := aerr.Suggestion(); hint != "" {
		out.Suggestions = append(out.Suggestions, hint)
	}
	return out
}

func declarationError(pos token.Position, iface, format string, args ...any) *models.GeneratorError {
	err := &models.GeneratorError{
		Type:    models.ErrorTypeValidation,
		File:    pos.Filename,
		Line:    pos.Line,
		Message: fmt.Sprintf(format, args...),
	}
	if iface != "" {
		err.WithContext("interface", iface)
	}
	return err
}

func notInterfaceError(pos token.Position, name string) *models.GeneratorError {
	return declarationError(pos, name, "%s is annotated with //proxy:: but is not an interface", name).
		WithSuggestion("Proxies can only be generated for interface types").
		WithSuggestion(fmt.Sprintf("Declare the contract as: type %s interface { ... }", name))
}

func embeddedError(pos token.Position, iface, embedded, reason string) *models.GeneratorError {
	return declarationError(pos, iface, "cannot flatten embedded %s in %s: %s", embedded, iface, reason).
		WithSuggestion("Embed only interfaces declared in the same package, or copy the methods into "+iface).
		WithContext("embedded", embedded)
}

func duplicateMethodError(pos token.Position, iface, method string) *models.GeneratorError {
	return declarationError(pos, iface, "method %s is declared more than once in %s with different signatures", method, iface).
		WithSuggestion("Rename one of the methods or make the signatures identical").
		WithContext("method", method)
}

func nameCollisionError(pos token.Position, iface, name, other string) *models.GeneratorError {
	return declarationError(pos, iface, "generated identifier %s collides with %s", name, other).
		WithSuggestion("Pick another identifier with -Name=... or -Constructor=...").
		WithContext("identifier", name)
}
