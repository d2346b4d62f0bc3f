package compiler

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/toyz/proxygen/internal/errors"
)

// GoBinaryEnv overrides the go binary used for builds
const GoBinaryEnv = "PROXYGEN_GO"

// DefaultTimeout bounds a single go invocation
const DefaultTimeout = 2 * time.Minute

// Compiler checks generated code with the Go toolchain
type Compiler interface {
	Build(ctx context.Context, dir string) (*Diagnostics, error)
	Vet(ctx context.Context, dir string) (*Diagnostics, error)
	BuildPlugin(ctx context.Context, dir, source, output string) (*Diagnostics, error)
}

// Diagnostics is what one go invocation reported
type Diagnostics struct {
	Command  []string
	Dir      string
	Output   string // combined stdout and stderr
	ExitCode int
	Duration time.Duration
}

// Lines returns the non-empty output lines
func (d *Diagnostics) Lines() []string {
	var lines []string
	for _, line := range strings.Split(d.Output, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Error is returned when the go command fails. It carries the full diagnostics.
type Error struct {
	*errors.BaseError
	Diagnostics *Diagnostics
}

// Runner executes a command in dir and returns its combined output and exit code
type Runner func(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, int, error)

// GoCompiler runs the go command
type GoCompiler struct {
	goBinary string
	timeout  time.Duration
	env      []string
	run      Runner
}

// Option configures a GoCompiler
type Option func(*GoCompiler)

// WithGoBinary sets the go binary
func WithGoBinary(path string) Option {
	return func(c *GoCompiler) {
		if path != "" {
			c.goBinary = path
		}
	}
}

// WithTimeout bounds every invocation; zero keeps the default
func WithTimeout(d time.Duration) Option {
	return func(c *GoCompiler) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithEnv appends environment variables to every invocation
func WithEnv(env ...string) Option {
	return func(c *GoCompiler) {
		c.env = append(c.env, env...)
	}
}

// WithRunner replaces command execution, used by tests
func WithRunner(run Runner) Option {
	return func(c *GoCompiler) {
		c.run = run
	}
}

// NewGoCompiler creates a compiler using PROXYGEN_GO or "go"
func NewGoCompiler(opts ...Option) *GoCompiler {
	c := &GoCompiler{
		goBinary: DefaultGoBinary(),
		timeout:  DefaultTimeout,
		run:      execRunner,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultGoBinary returns $PROXYGEN_GO, falling back to "go"
func DefaultGoBinary() string {
	if bin := os.Getenv(GoBinaryEnv); bin != "" {
		return bin
	}
	return "go"
}

// Build compiles the package in dir without keeping the result
func (c *GoCompiler) Build(ctx context.Context, dir string) (*Diagnostics, error) {
	return c.invoke(ctx, dir, nil, "build", "-o", os.DevNull, ".")
}

// Vet type checks and vets the package in dir
func (c *GoCompiler) Vet(ctx context.Context, dir string) (*Diagnostics, error) {
	return c.invoke(ctx, dir, nil, "vet", ".")
}

// BuildPlugin builds source, a file in dir, into the plugin output
func (c *GoCompiler) BuildPlugin(ctx context.Context, dir, source, output string) (*Diagnostics, error) {
	out, err := filepath.Abs(output)
	if err != nil {
		return nil, errors.WrapFileSystemError("resolve", output, err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return nil, errors.WrapFileSystemError("create directory for", out, err)
	}
	return c.invoke(ctx, dir, []string{"CGO_ENABLED=1"}, "build", "-buildmode=plugin", "-o", out, filepath.Base(source))
}

func (c *GoCompiler) invoke(ctx context.Context, dir string, env []string, args ...string) (*Diagnostics, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	diag := &Diagnostics{
		Command: append([]string{c.goBinary}, args...),
		Dir:     dir,
	}

	start := time.Now()
	output, code, err := c.run(ctx, dir, append(append([]string{}, c.env...), env...), c.goBinary, args...)
	diag.Duration = time.Since(start)
	diag.Output = string(output)
	diag.ExitCode = code

	if err == nil {
		return diag, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}

	command := "go " + args[0]
	base := errors.WrapCompileError(command, dir, err).
		WithContext("exit_code", code).
		WithContext("output", diag.Output)
	if stderrors.Is(err, context.DeadlineExceeded) {
		base.WithSuggestion("Increase -timeout")
	}
	if stderrors.Is(err, exec.ErrNotFound) {
		base.WithSuggestion("Install Go or point " + GoBinaryEnv + " at a go binary")
	}
	return diag, &Error{BaseError: base, Diagnostics: diag}
}

func execRunner(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	code := 0
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	} else if err != nil {
		code = -1
	}
	return out.Bytes(), code, err
}
