package annotations

import (
	"fmt"
	"sort"
	"sync"
)

// AnnotationRegistry stores the schema of every known annotation type
type AnnotationRegistry interface {
	Register(annotationType AnnotationType, schema AnnotationSchema) error
	GetSchema(annotationType AnnotationType) (AnnotationSchema, error)
	ListTypes() []AnnotationType
	IsRegistered(annotationType AnnotationType) bool
}

type registry struct {
	mu      sync.RWMutex
	schemas map[AnnotationType]AnnotationSchema
}

// NewRegistry creates an empty registry
func NewRegistry() AnnotationRegistry {
	return &registry{schemas: make(map[AnnotationType]AnnotationSchema)}
}

var (
	defaultRegistry     AnnotationRegistry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns a process-wide registry holding the builtin schemas
func DefaultRegistry() AnnotationRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		if err := RegisterBuiltinSchemas(defaultRegistry); err != nil {
			panic(err)
		}
	})
	return defaultRegistry
}

func (r *registry) Register(annotationType AnnotationType, schema AnnotationSchema) error {
	if schema.Type != annotationType {
		return &RegistrationError{
			Msg:  fmt.Sprintf("schema type %s does not match annotation type %s", schema.Type, annotationType),
			Hint: "set AnnotationSchema.Type to the registered type",
		}
	}
	if err := validateSchema(schema); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[annotationType]; exists {
		return &RegistrationError{
			Msg:  fmt.Sprintf("annotation type %s is already registered", annotationType),
			Hint: "register each annotation type once",
		}
	}
	r.schemas[annotationType] = schema
	return nil
}

func (r *registry) GetSchema(annotationType AnnotationType) (AnnotationSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.schemas[annotationType]
	if !ok {
		return AnnotationSchema{}, fmt.Errorf("annotation type %s is not registered", annotationType)
	}
	return schema, nil
}

// ListTypes returns the registered types in declaration order
func (r *registry) ListTypes() []AnnotationType {
	r.mu.RLock()
	types := make([]AnnotationType, 0, len(r.schemas))
	for t := range r.schemas {
		types = append(types, t)
	}
	r.mu.RUnlock()

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func (r *registry) IsRegistered(annotationType AnnotationType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.schemas[annotationType]
	return ok
}

func validateSchema(schema AnnotationSchema) error {
	for name, spec := range schema.Parameters {
		if name == "" {
			return &RegistrationError{Msg: "parameter name cannot be empty", Hint: "name every parameter"}
		}
		if spec.Type != StringType && spec.Type != BoolType {
			return &RegistrationError{
				Msg:  fmt.Sprintf("invalid parameter type for %s: %d", name, spec.Type),
				Hint: "use StringType or BoolType",
			}
		}
		if spec.DefaultValue == nil {
			continue
		}
		if _, err := convertValue(spec.Type, spec.DefaultValue); err != nil {
			return &RegistrationError{
				Msg:  fmt.Sprintf("default value for %s parameter %s has type %T", spec.Type, name, spec.DefaultValue),
				Hint: "make the default match the parameter type",
			}
		}
	}
	return nil
}

// convertValue checks a raw parameter value against the declared type
func convertValue(t ParameterType, v any) (any, error) {
	switch t {
	case StringType:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case BoolType:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			switch b {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
		}
	}
	return nil, fmt.Errorf("expected %s, got %v", t, v)
}
