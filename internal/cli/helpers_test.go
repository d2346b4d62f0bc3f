package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const userDaoSource = `package userdao

//proxy::handler
//proxy::target
type UserDao interface {
	SaySomething(say string) string
	DoSomething(d string)
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newModule creates a module example.com/demo holding the userdao package and a
// package without annotations
func newModule(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/demo\n\ngo 1.25\n")
	writeFile(t, filepath.Join(root, "userdao", "userdao.go"), userDaoSource)
	writeFile(t, filepath.Join(root, "plain", "plain.go"), "package plain\n\nfunc Hello() string { return \"hi\" }\n")
	return root
}
