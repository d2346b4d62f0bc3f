package models

import "fmt"

// GeneratorError represents an error that occurred during proxy generation
type GeneratorError struct {
	Type        ErrorType      // type of error
	File        string         // file where error occurred
	Line        int            // line number where error occurred
	Message     string         // error message
	Suggestions []string       // fixes shown to the user
	Context     map[string]any // extra details, e.g. interface or method name
	Cause       error          // underlying error cause
}

// Error implements the error interface
func (e *GeneratorError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error cause
func (e *GeneratorError) Unwrap() error {
	return e.Cause
}

// WithSuggestion appends a suggestion and returns the error for chaining
func (e *GeneratorError) WithSuggestion(s string) *GeneratorError {
	e.Suggestions = append(e.Suggestions, s)
	return e
}

// WithContext records a context value and returns the error for chaining
func (e *GeneratorError) WithContext(key string, value any) *GeneratorError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
