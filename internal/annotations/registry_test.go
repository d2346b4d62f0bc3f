package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	assert.False(t, reg.IsRegistered(HandlerAnnotation))

	require.NoError(t, RegisterBuiltinSchemas(reg))
	assert.True(t, reg.IsRegistered(HandlerAnnotation))
	assert.True(t, reg.IsRegistered(TargetAnnotation))
	assert.Equal(t, []AnnotationType{HandlerAnnotation, TargetAnnotation}, reg.ListTypes())

	schema, err := reg.GetSchema(TargetAnnotation)
	require.NoError(t, err)
	assert.Contains(t, schema.Parameters, "Constructor")

	err = reg.Register(HandlerAnnotation, HandlerAnnotationSchema)
	var rerr *RegistrationError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Msg, "already registered")
}

func TestRegistryRejectsInvalidSchemas(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register(TargetAnnotation, HandlerAnnotationSchema)
	assert.ErrorContains(t, err, "does not match")

	err = reg.Register(HandlerAnnotation, AnnotationSchema{
		Type: HandlerAnnotation,
		Parameters: map[string]ParameterSpec{
			"Flag": {Type: BoolType, DefaultValue: "yes"},
		},
	})
	assert.ErrorContains(t, err, "default value")

	err = reg.Register(HandlerAnnotation, AnnotationSchema{
		Type:       HandlerAnnotation,
		Parameters: map[string]ParameterSpec{"": {Type: StringType}},
	})
	assert.ErrorContains(t, err, "cannot be empty")
}

func TestDefaultRegistryHasBuiltins(t *testing.T) {
	assert.True(t, DefaultRegistry().IsRegistered(HandlerAnnotation))
	assert.True(t, DefaultRegistry().IsRegistered(TargetAnnotation))
}

func TestAnnotationTypeRoundTrip(t *testing.T) {
	for _, at := range []AnnotationType{HandlerAnnotation, TargetAnnotation} {
		parsed, err := ParseAnnotationType(at.String())
		require.NoError(t, err)
		assert.Equal(t, at, parsed)
	}
	_, err := ParseAnnotationType("jdk")
	assert.Error(t, err)
}

func TestValidateExportedIdentifier(t *testing.T) {
	assert.NoError(t, ValidateExportedIdentifier("UserDaoProxy"))
	assert.Error(t, ValidateExportedIdentifier("userDaoProxy"))
	assert.Error(t, ValidateExportedIdentifier("User-Dao"))
	assert.Error(t, ValidateExportedIdentifier(42))
}
