package annotations

import (
	"fmt"
	"go/token"
)

// ValidateExportedIdentifier accepts exported Go identifiers that are not keywords
func ValidateExportedIdentifier(v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("must be a string, got %T", v)
	}
	if !token.IsIdentifier(s) {
		return fmt.Errorf("'%s' is not a valid Go identifier", s)
	}
	if !token.IsExported(s) {
		return fmt.Errorf("'%s' must be exported", s)
	}
	return nil
}

// NameParameterSpec overrides the generated proxy type name
func NameParameterSpec() ParameterSpec {
	return ParameterSpec{
		Type:        StringType,
		Description: "Name of the generated proxy type",
		Validator:   ValidateExportedIdentifier,
	}
}

// ConstructorParameterSpec overrides the generated constructor name
func ConstructorParameterSpec() ParameterSpec {
	return ParameterSpec{
		Type:        StringType,
		Description: "Name of the generated constructor function",
		Validator:   ValidateExportedIdentifier,
	}
}

// NoRegisterParameterSpec leaves the proxy out of the runtime registry
func NoRegisterParameterSpec() ParameterSpec {
	return ParameterSpec{
		Type:         BoolType,
		DefaultValue: false,
		Description:  "Do not register the proxy constructor from init",
	}
}
