package errors

import (
	stderrors "errors"

	"github.com/toyz/proxygen/internal/models"
)

// ToGeneratorError converts any error into the GeneratorError shape used for reporting.
// GeneratorErrors pass through; ProxygenErrors keep their location, hints and context.
func ToGeneratorError(err error) *models.GeneratorError {
	if err == nil {
		return nil
	}

	var genErr *models.GeneratorError
	if stderrors.As(err, &genErr) {
		return genErr
	}

	var pe ProxygenError
	if !stderrors.As(err, &pe) {
		return &models.GeneratorError{Type: models.ErrorTypeGeneration, Message: err.Error(), Cause: err}
	}

	out := &models.GeneratorError{
		Type:        errorType(pe.ErrorCode()),
		File:        pe.Location().File,
		Line:        pe.Location().Line,
		Message:     pe.Error(),
		Suggestions: pe.Suggestions(),
		Cause:       err,
	}
	if pe.Location().File != "" {
		// Error() already carries the location
		if base, ok := pe.(*BaseError); ok {
			out.Message = base.Message
			if base.Cause != nil {
				out.Message += ": " + base.Cause.Error()
			}
		}
	}
	for k, v := range pe.Context() {
		out.WithContext(k, v)
	}
	return out
}

func errorType(code ErrorCode) models.ErrorType {
	switch code {
	case SyntaxErrorCode:
		return models.ErrorTypeAnnotationSyntax
	case ValidationErrorCode, ConfigurationErrorCode:
		return models.ErrorTypeValidation
	case FileSystemErrorCode:
		return models.ErrorTypeFileSystem
	case CompilationErrorCode:
		return models.ErrorTypeCompilation
	case PluginErrorCode:
		return models.ErrorTypePlugin
	default:
		return models.ErrorTypeGeneration
	}
}
