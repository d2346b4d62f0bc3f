package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/proxygen/internal/templates"
)

func newImports(t *testing.T, imports map[string]string) *templates.ImportManager {
	t.Helper()
	im := templates.NewImportManager()
	for name, path := range imports {
		require.NoError(t, im.Add(name, path))
	}
	return im
}

func TestFreeName(t *testing.T) {
	im := newImports(t, map[string]string{"p": "example.com/p", "p1": "example.com/p1"})
	im.Reserve("results")

	assert.Equal(t, "p2", freeName("p", im))
	assert.Equal(t, "results1", freeName("results", im))
	assert.Equal(t, "recv", freeName("recv", im))
}
