package cli

import (
	"time"

	"github.com/toyz/proxygen/internal/utils"
)

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories to scan for annotated Go files.
	// A trailing "/..." scans recursively.
	Directories []string

	// ModuleName overrides the module path read from go.mod
	ModuleName string

	// Verbose enables detailed logging and error reporting
	Verbose bool

	// Quiet only reports errors
	Quiet bool

	// Compile runs go build in every package a file was written to
	Compile bool

	// Vet runs go vet instead of go build; implies Compile
	Vet bool

	// Plugin also renders each package's proxies as a plugin and builds it
	Plugin bool

	// PluginDir receives plugin sources and .so files, by default <module root>/_proxygen
	PluginDir string

	// Load opens every built plugin, registering its proxies in this process
	Load bool

	// Timeout bounds each go invocation
	Timeout time.Duration

	// GoBinary overrides the go command, by default $PROXYGEN_GO or "go"
	GoBinary string
}

// Validate checks the configuration before a run
func (c Config) Validate() error {
	dirs := utils.NewValidatorChain(
		utils.SliceNotEmpty[string]("directories"),
		utils.ValidateEach("directories", utils.NotEmpty("directory")),
	)
	if err := dirs.Validate(c.Directories); err != nil {
		return err
	}

	if err := utils.Custom("timeout", "must not be negative", func(d time.Duration) bool { return d >= 0 })(c.Timeout); err != nil {
		return err
	}
	if c.Load && !c.Plugin {
		return utils.ValidationError{Field: "load", Value: c.Load, Message: "requires plugin builds"}
	}
	if c.Verbose && c.Quiet {
		return utils.ValidationError{Field: "quiet", Value: c.Quiet, Message: "cannot be combined with verbose"}
	}
	return nil
}

// compileEnabled reports whether generated packages are compiled after writing
func (c Config) compileEnabled() bool {
	return c.Compile || c.Vet
}
