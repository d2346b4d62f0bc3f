package generator

import (
	"strconv"

	"github.com/toyz/proxygen/internal/models"
	"github.com/toyz/proxygen/internal/templates"
)

// freeName returns base, or base with a numeric suffix, that no import or reserved
// declaration uses
func freeName(base string, im *templates.ImportManager) string {
	name := base
	for i := 1; im.Taken(name); i++ {
		name = base + strconv.Itoa(i)
	}
	return name
}

// argumentPrefix picks the prefix of generated parameter names (a0, a1...) so that
// none of them shadows a name the method bodies may reference
func argumentPrefix(im *templates.ImportManager, methods []models.Method) string {
	arity := 0
	for _, m := range methods {
		arity = max(arity, len(m.Parameters))
	}

	for _, prefix := range []string{"a", "arg", "in", "v"} {
		if !shadows(prefix, arity, im) {
			return prefix
		}
	}
	return "proxyArg"
}

func shadows(prefix string, arity int, im *templates.ImportManager) bool {
	for i := 0; i < arity; i++ {
		if im.Taken(prefix + strconv.Itoa(i)) {
			return true
		}
	}
	return false
}
