package errors

import "fmt"

// GenerationError is a BaseError raised while rendering generated code
type GenerationError struct {
	*BaseError
	GenerationType string
	TargetFile     string
	Stage          string
}

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, cause error) *BaseError {
	return Wrap(SyntaxErrorCode, fmt.Sprintf("failed to parse %s", item), cause)
}

// WrapTemplateError wraps template processing errors
func WrapTemplateError(templateName, operation string, cause error) *GenerationError {
	return &GenerationError{
		BaseError:      Wrap(TemplateErrorCode, fmt.Sprintf("failed to %s template '%s'", operation, templateName), cause),
		GenerationType: "template",
		TargetFile:     templateName,
		Stage:          operation,
	}
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	return Wrap(FileSystemErrorCode, fmt.Sprintf("failed to %s file '%s'", operation, path), cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps a rejected configuration, field names the offending option
func WrapConfigurationError(field string, cause error) *BaseError {
	err := Wrap(ConfigurationErrorCode, "invalid configuration", cause)
	if field != "" {
		err.WithContext("field", field)
	}
	return err
}

// WrapCompileError wraps a failed go build or go vet of dir
func WrapCompileError(command, dir string, cause error) *BaseError {
	return Wrap(CompilationErrorCode, fmt.Sprintf("%s failed in %s", command, dir), cause).
		WithContext("command", command).
		WithContext("dir", dir)
}

// WrapPluginError wraps a failure to open a plugin or resolve one of its symbols
func WrapPluginError(path, symbol string, cause error) *BaseError {
	msg := fmt.Sprintf("failed to load plugin '%s'", path)
	if symbol != "" {
		msg = fmt.Sprintf("failed to load symbol %s from plugin '%s'", symbol, path)
	}
	return Wrap(PluginErrorCode, msg, cause).
		WithContext("path", path).
		WithContext("symbol", symbol)
}
