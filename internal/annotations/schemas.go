package annotations

import "fmt"

// HandlerAnnotationSchema describes //proxy::handler
var HandlerAnnotationSchema = AnnotationSchema{
	Type:        HandlerAnnotation,
	Description: "Generates a proxy that sends every call to an InvocationHandler",
	Parameters: map[string]ParameterSpec{
		"Name":        NameParameterSpec(),
		"Constructor": ConstructorParameterSpec(),
		"NoRegister":  NoRegisterParameterSpec(),
	},
	Validators: []CustomValidator{validateDistinctNames},
	Examples: []string{
		"//proxy::handler",
		"//proxy::handler -Name=AuditedUserDao",
		"//proxy::handler -Name=AuditedUserDao -Constructor=NewAudited",
	},
}

// TargetAnnotationSchema describes //proxy::target
var TargetAnnotationSchema = AnnotationSchema{
	Type:        TargetAnnotation,
	Description: "Generates a proxy that traces every call and forwards it to a wrapped implementation",
	Parameters: map[string]ParameterSpec{
		"Name":        NameParameterSpec(),
		"Constructor": ConstructorParameterSpec(),
		"NoRegister":  NoRegisterParameterSpec(),
	},
	Validators: []CustomValidator{validateDistinctNames},
	Examples: []string{
		"//proxy::target",
		"//proxy::target -Name=LoggedUserDao -Constructor=WrapLogged",
		"//proxy::target -NoRegister",
	},
}

// RegisterBuiltinSchemas registers the handler and target schemas
func RegisterBuiltinSchemas(registry AnnotationRegistry) error {
	for _, schema := range GetBuiltinSchemas() {
		if err := registry.Register(schema.Type, schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", schema.Type, err)
		}
	}
	return nil
}

// GetBuiltinSchemas returns every builtin schema
func GetBuiltinSchemas() []AnnotationSchema {
	return []AnnotationSchema{HandlerAnnotationSchema, TargetAnnotationSchema}
}

// validateDistinctNames rejects a constructor that would collide with the type it builds
func validateDistinctNames(a *ParsedAnnotation) error {
	name := a.GetString("Name")
	if name != "" && name == a.GetString("Constructor") {
		return fmt.Errorf("Name and Constructor cannot both be '%s'", name)
	}
	if name != "" && name == a.Target {
		return fmt.Errorf("Name '%s' collides with the annotated interface", name)
	}
	return nil
}
