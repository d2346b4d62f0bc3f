package cli

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/proxygen/internal/compiler"
	"github.com/toyz/proxygen/internal/errors"
	"github.com/toyz/proxygen/internal/models"
)

func newTestReporter(verbose bool) (*DiagnosticReporter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewDiagnosticReporterWithOutput(verbose, &out, &errOut), &out, &errOut
}

func TestReportGeneratorError(t *testing.T) {
	reporter, _, errOut := newTestReporter(false)

	genErr := &models.GeneratorError{
		Type:    models.ErrorTypeAnnotationSyntax,
		File:    "userdao.go",
		Line:    3,
		Message: "unknown parameter 'Nmae'",
	}
	genErr.WithContext("interface", "UserDao").
		WithContext("expected_params", "Name, Constructor").
		WithSuggestion("Did you mean -Name?")

	reporter.ReportError(fmt.Errorf("parse: %w", genErr))

	output := errOut.String()
	assert.Contains(t, output, "Type: Annotation Syntax Error")
	assert.Contains(t, output, "Message: unknown parameter 'Nmae'")
	assert.Contains(t, output, "Location: userdao.go:3")
	assert.Contains(t, output, "   Interface: UserDao")
	assert.Contains(t, output, "   Expected Params: Name, Constructor")
	assert.Contains(t, output, "   1. Did you mean -Name?")
	assert.Contains(t, output, "//proxy::handler")
	assert.NotContains(t, output, "Verbose Debug Information")
}

func TestReportPlainError(t *testing.T) {
	reporter, _, errOut := newTestReporter(true)

	reporter.ReportError(stderrors.New("something broke"))

	output := errOut.String()
	assert.Contains(t, output, "Type: Code Generation Error")
	assert.Contains(t, output, "Message: something broke")
	assert.Contains(t, output, "Verbose Debug Information")
	assert.Contains(t, output, "1. something broke")
}

func TestReportCompileError(t *testing.T) {
	reporter, _, errOut := newTestReporter(false)

	diag := &compiler.Diagnostics{
		Command:  []string{"go", "build", "-o", "/dev/null", "."},
		Dir:      "userdao",
		Output:   "# example.com/demo/userdao\n./autogen_proxy.go:10:2: undefined: Foo\n",
		ExitCode: 1,
	}
	base := errors.WrapCompileError("go build", "userdao", stderrors.New("exit status 1")).
		WithContext("exit_code", 1).
		WithContext("output", diag.Output)

	reporter.ReportError(&compiler.Error{BaseError: base, Diagnostics: diag})

	output := errOut.String()
	assert.Contains(t, output, "Type: Compilation Error")
	assert.Contains(t, output, "   Exit Code: 1")
	assert.Contains(t, output, "Compiler output (go build -o /dev/null .):")
	assert.Contains(t, output, "   ./autogen_proxy.go:10:2: undefined: Foo")
	assert.Contains(t, output, "Compilation Help:")
}

func TestFormatContextKey(t *testing.T) {
	assert.Equal(t, "Interface", formatContextKey("interface"))
	assert.Equal(t, "Exit Code", formatContextKey("exit_code"))
}

func TestReportSuccess(t *testing.T) {
	reporter, out, _ := newTestReporter(false)

	reporter.ReportSuccess(GenerationSummary{
		PackagesProcessed: 2,
		InterfacesFound:   1,
		ProxiesGenerated:  2,
		GeneratedFiles:    []string{"userdao/autogen_proxy.go"},
		Plugins: []models.PluginBuild{{
			OutputPath: "_proxygen/userdao/userdao.so",
			Symbols:    []string{"NewUserDaoHandlerProxy", "NewUserDaoTargetProxy"},
		}},
		Duration: 1500 * time.Microsecond,
	})

	output := out.String()
	assert.Contains(t, output, "Processed 2 packages")
	assert.Contains(t, output, "Found 1 annotated interfaces")
	assert.Contains(t, output, "Generated 2 proxies")
	assert.NotContains(t, output, "Compiled")
	assert.Contains(t, output, "  - userdao/autogen_proxy.go")
	assert.Contains(t, output, "  - _proxygen/userdao/userdao.so (NewUserDaoHandlerProxy, NewUserDaoTargetProxy)")
	assert.Contains(t, output, "Finished in 2ms")
}
