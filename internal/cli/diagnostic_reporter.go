package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/toyz/proxygen/internal/compiler"
	"github.com/toyz/proxygen/internal/errors"
	"github.com/toyz/proxygen/internal/models"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
	errOut  io.Writer
}

// NewDiagnosticReporter creates a new diagnostic reporter writing to stdout and stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return NewDiagnosticReporterWithOutput(verbose, os.Stdout, os.Stderr)
}

// NewDiagnosticReporterWithOutput creates a diagnostic reporter writing to the given streams
func NewDiagnosticReporterWithOutput(verbose bool, out, errOut io.Writer) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, out: out, errOut: errOut}
}

// ReportWarning prints a single warning line
func (r *DiagnosticReporter) ReportWarning(message string) {
	warn := color.New(color.FgYellow, color.Bold)
	warn.Fprint(r.errOut, "! ")
	fmt.Fprintf(r.errOut, "%s\n", message)
}

// ReportError prints err with its type, location, context and suggestions
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.errOut, "\nERROR: Proxy Generation Failed\n")
	fmt.Fprintf(r.errOut, "==============================\n\n")

	r.reportGeneratorError(errors.ToGeneratorError(err))

	var compileErr *compiler.Error
	if stderrors.As(err, &compileErr) && compileErr.Diagnostics != nil {
		r.printCompilerOutput(compileErr.Diagnostics)
	}

	fmt.Fprintf(r.errOut, "\n")
}

func (r *DiagnosticReporter) reportGeneratorError(genErr *models.GeneratorError) {
	r.printErrorHeader(genErr)

	fmt.Fprintf(r.errOut, "Message: %s\n\n", genErr.Message)

	if r.verbose && genErr.Cause != nil {
		fmt.Fprintf(r.errOut, "Underlying cause: %s\n\n", genErr.Cause.Error())
	}

	if genErr.File != "" {
		if genErr.Line > 0 {
			fmt.Fprintf(r.errOut, "Location: %s:%d\n\n", genErr.File, genErr.Line)
		} else {
			fmt.Fprintf(r.errOut, "File: %s\n\n", genErr.File)
		}
	}

	if len(genErr.Context) > 0 {
		r.printContext(genErr.Context)
	}

	if len(genErr.Suggestions) > 0 {
		r.printSuggestions(genErr.Suggestions)
	}

	r.printAdditionalHelp(genErr.Type)

	if r.verbose {
		r.printVerboseDebuggingInfo(genErr)
	}
}

func (r *DiagnosticReporter) printErrorHeader(genErr *models.GeneratorError) {
	var errorTypeStr string

	switch genErr.Type {
	case models.ErrorTypeAnnotationSyntax:
		errorTypeStr = "Annotation Syntax Error"
	case models.ErrorTypeValidation:
		errorTypeStr = "Validation Error"
	case models.ErrorTypeGeneration:
		errorTypeStr = "Code Generation Error"
	case models.ErrorTypeFileSystem:
		errorTypeStr = "File System Error"
	case models.ErrorTypeCompilation:
		errorTypeStr = "Compilation Error"
	case models.ErrorTypePlugin:
		errorTypeStr = "Plugin Error"
	default:
		errorTypeStr = "Unknown Error"
	}

	fmt.Fprintf(r.errOut, "Type: %s\n", errorTypeStr)
	fmt.Fprintf(r.errOut, "%s\n\n", strings.Repeat("-", len(errorTypeStr)+6))
}

// important context keys are printed first, in this order
var importantKeys = []string{"interface", "method", "proxy", "package", "path"}

func (r *DiagnosticReporter) printContext(context map[string]any) {
	fmt.Fprintf(r.errOut, "Context:\n")

	printed := make(map[string]bool)
	for _, key := range importantKeys {
		if value, exists := context[key]; exists {
			fmt.Fprintf(r.errOut, "   %s: %v\n", formatContextKey(key), value)
			printed[key] = true
		}
	}

	keys := make([]string, 0, len(context))
	for key := range context {
		// compiler output is printed on its own
		if !printed[key] && key != "output" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(r.errOut, "   %s: %v\n", formatContextKey(key), context[key])
	}

	fmt.Fprintf(r.errOut, "\n")
}

// formatContextKey turns snake_case context keys into Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.errOut, "Suggestions:\n")

	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.errOut, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.errOut, "      %s\n", line)
			}
		}
	}

	fmt.Fprintf(r.errOut, "\n")
}

func (r *DiagnosticReporter) printCompilerOutput(diag *compiler.Diagnostics) {
	lines := diag.Lines()
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(r.errOut, "Compiler output (%s):\n", strings.Join(diag.Command, " "))
	for _, line := range lines {
		fmt.Fprintf(r.errOut, "   %s\n", line)
	}
}

func (r *DiagnosticReporter) printAdditionalHelp(errorType models.ErrorType) {
	switch errorType {
	case models.ErrorTypeAnnotationSyntax:
		fmt.Fprintf(r.errOut, "Annotation Syntax Help:\n")
		fmt.Fprintf(r.errOut, "  - Annotations look like //proxy::handler or //proxy::target\n")
		fmt.Fprintf(r.errOut, "  - Parameters are written as -Name=Value\n")
		fmt.Fprintf(r.errOut, "  - Place the annotation in the doc comment of an interface type\n\n")

	case models.ErrorTypeCompilation:
		fmt.Fprintf(r.errOut, "Compilation Help:\n")
		fmt.Fprintf(r.errOut, "  - Make sure the package builds without the generated file\n")
		fmt.Fprintf(r.errOut, "  - Run 'go mod tidy' so the proxy runtime is available\n\n")

	case models.ErrorTypePlugin:
		fmt.Fprintf(r.errOut, "Plugin Help:\n")
		fmt.Fprintf(r.errOut, "  - Plugins need cgo and a linux, darwin or freebsd host\n")
		fmt.Fprintf(r.errOut, "  - Host and plugin must be built with the same Go version\n\n")
	}

	fmt.Fprintf(r.errOut, "For more help:\n")
	fmt.Fprintf(r.errOut, "  - Run with -verbose for more detailed output\n")
	fmt.Fprintf(r.errOut, "  - See examples/userdao for an annotated interface\n")
}

func (r *DiagnosticReporter) printVerboseDebuggingInfo(genErr *models.GeneratorError) {
	fmt.Fprintf(r.errOut, "\nVerbose Debug Information:\n")
	fmt.Fprintf(r.errOut, "  Error Type: %s (%d)\n", genErr.Type, int(genErr.Type))

	if genErr.Cause != nil {
		fmt.Fprintf(r.errOut, "  Error Chain:\n")
		err := genErr.Cause
		for level := 1; err != nil; level++ {
			fmt.Fprintf(r.errOut, "    %d. %s\n", level, err.Error())
			err = stderrors.Unwrap(err)
		}
	}
}

// ReportSuccess reports successful generation with summary information
func (r *DiagnosticReporter) ReportSuccess(summary GenerationSummary) {
	fmt.Fprintf(r.out, "\nProxy Generation Completed Successfully!\n")
	fmt.Fprintf(r.out, "========================================\n\n")

	fmt.Fprintf(r.out, "Processed %d packages\n", summary.PackagesProcessed)
	if summary.InterfacesFound > 0 {
		fmt.Fprintf(r.out, "Found %d annotated interfaces\n", summary.InterfacesFound)
	}
	if summary.ProxiesGenerated > 0 {
		fmt.Fprintf(r.out, "Generated %d proxies\n", summary.ProxiesGenerated)
	}
	if summary.PackagesCompiled > 0 {
		fmt.Fprintf(r.out, "Compiled %d packages\n", summary.PackagesCompiled)
	}

	if len(summary.GeneratedFiles) > 0 {
		fmt.Fprintf(r.out, "\nGenerated files:\n")
		for _, file := range summary.GeneratedFiles {
			fmt.Fprintf(r.out, "  - %s\n", file)
		}
	}

	if len(summary.Plugins) > 0 {
		fmt.Fprintf(r.out, "\nPlugins:\n")
		for _, p := range summary.Plugins {
			fmt.Fprintf(r.out, "  - %s (%s)\n", p.OutputPath, strings.Join(p.Symbols, ", "))
		}
	}

	fmt.Fprintf(r.out, "\nFinished in %s\n", summary.Duration.Round(time.Millisecond))
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	PackagesProcessed int
	InterfacesFound   int
	ProxiesGenerated  int
	PackagesCompiled  int
	GeneratedFiles    []string
	Plugins           []models.PluginBuild
	Duration          time.Duration
}
