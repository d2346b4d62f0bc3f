package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/toyz/proxygen/internal/cli"
	"github.com/toyz/proxygen/internal/compiler"
	"github.com/toyz/proxygen/internal/utils"
	"github.com/toyz/proxygen/pkg/proxy"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("proxygen", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		moduleFlag    = flags.String("module", "", "Custom module name for imports (defaults to go.mod module)")
		verboseFlag   = flags.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag     = flags.Bool("quiet", false, "Only show errors")
		cleanFlag     = flags.Bool("clean", false, "Delete generated autogen_proxy.go files and plugin builds")
		compileFlag   = flags.Bool("compile", false, "Run go build in every package a proxy was written to")
		vetFlag       = flags.Bool("vet", false, "Run go vet instead of go build after writing")
		pluginFlag    = flags.Bool("plugin", false, "Also build every package's proxies as a Go plugin")
		pluginDirFlag = flags.String("plugin-dir", "", "Directory for plugin sources and .so files (defaults to <module root>/"+cli.PluginDirName+")")
		loadFlag      = flags.Bool("load", false, "Open every built plugin to check it loads")
		timeoutFlag   = flags.Duration("timeout", compiler.DefaultTimeout, "Timeout for each go command")
		goFlag        = flags.String("go", "", "Go binary used for builds (defaults to $"+compiler.GoBinaryEnv+" or go)")
		helpFlag      = flags.Bool("help", false, "Show help information")
	)

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: proxygen [options] <directory-paths...>\n\n")
		fmt.Fprintf(stderr, "Proxy Generator\n")
		fmt.Fprintf(stderr, "Scans directories for interfaces annotated with //proxy::handler or //proxy::target\n")
		fmt.Fprintf(stderr, "and writes their proxies to %s.\n\n", "autogen_proxy.go")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nArguments:\n")
		fmt.Fprintf(stderr, "  directory-paths    One or more directories to scan for annotated Go files\n")
		fmt.Fprintf(stderr, "                     Supports Go-style patterns like './...' for recursive scanning\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  proxygen ./...                        # Generate everything below the current directory\n")
		fmt.Fprintf(stderr, "  proxygen -vet ./examples/userdao      # Generate and vet one package\n")
		fmt.Fprintf(stderr, "  proxygen -plugin -load ./...          # Also build and open plugins\n")
		fmt.Fprintf(stderr, "  proxygen -clean ./...                 # Delete generated files\n")
	}

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if *helpFlag {
		flags.Usage()
		return 0
	}

	dirs := flags.Args()
	if len(dirs) == 0 {
		fmt.Fprintf(stderr, "Error: At least one directory path is required\n\n")
		flags.Usage()
		return 1
	}

	var diagnostics *utils.DiagnosticSystem
	switch {
	case *quietFlag:
		diagnostics = utils.NewQuietDiagnostics()
	case *verboseFlag:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	if stdout != os.Stdout || stderr != os.Stderr {
		diagnostics.SetOutput(stdout, stderr)
	}

	if *cleanFlag {
		return clean(diagnostics, dirs, *moduleFlag, *pluginDirFlag)
	}

	config := cli.Config{
		Directories: dirs,
		ModuleName:  *moduleFlag,
		Verbose:     *verboseFlag,
		Quiet:       *quietFlag,
		Compile:     *compileFlag,
		Vet:         *vetFlag,
		Plugin:      *pluginFlag,
		PluginDir:   *pluginDirFlag,
		Load:        *loadFlag,
		Timeout:     *timeoutFlag,
		GoBinary:    *goFlag,
	}

	if *verboseFlag {
		diagnostics.Info("Configuration")
		diagnostics.Indent()
		diagnostics.List("Target directories: %s", strings.Join(dirs, ", "))
		if config.ModuleName != "" {
			diagnostics.List("Custom module: %s", config.ModuleName)
		}
		diagnostics.List("Compile: %t, vet: %t, plugin: %t, load: %t", config.Compile, config.Vet, config.Plugin, config.Load)
		diagnostics.Unindent()
	}

	reporter := cli.NewDiagnosticReporterWithOutput(*verboseFlag, stdout, stderr)
	generator := cli.NewGenerator(diagnostics, cli.WithReporter(reporter))

	if err := generator.Run(ctx, config); err != nil {
		reporter.ReportError(err)
		return 1
	}

	summary := generator.Summary()
	diagnostics.Summary("Summary", map[string]any{
		"Packages processed": summary.PackagesProcessed,
		"Interfaces found":   summary.InterfacesFound,
		"Proxies generated":  summary.ProxiesGenerated,
		"Packages compiled":  summary.PackagesCompiled,
		"Plugins built":      len(summary.Plugins),
	})

	if *verboseFlag {
		if len(summary.GeneratedFiles) > 0 {
			diagnostics.Info("Generated files")
			diagnostics.Indent()
			for _, file := range summary.GeneratedFiles {
				diagnostics.List("%s", file)
			}
			diagnostics.Unindent()
		}
		if config.Load {
			diagnostics.Info("Registered proxies")
			diagnostics.Indent()
			for _, t := range proxy.DefaultRegistry.Registered() {
				diagnostics.List("%s", t)
			}
			diagnostics.Unindent()
		}
	}
	return 0
}

// clean removes generated files below dirs and the plugin directory of every module they belong to
func clean(diagnostics *utils.DiagnosticSystem, dirs []string, module, pluginDir string) int {
	cleaner := cli.NewCleaner()

	removed, err := cleaner.CleanGeneratedFiles(dirs)
	for _, file := range removed {
		diagnostics.Verbose("Removed %s", file)
	}
	if err != nil {
		diagnostics.Error("Clean operation failed: %v", err)
		return 1
	}

	pluginDirs := map[string]bool{}
	if pluginDir != "" {
		pluginDirs[pluginDir] = true
	} else {
		resolver := cli.NewModuleResolver()
		for _, dir := range dirs {
			base := strings.TrimSuffix(dir, "...")
			if base == "" {
				base = "."
			}
			info, err := resolver.ResolveModule(module, base)
			if err != nil {
				continue
			}
			pluginDirs[filepath.Join(info.Root, cli.PluginDirName)] = true
		}
	}

	for dir := range pluginDirs {
		ok, err := cleaner.CleanPluginDir(dir)
		if err != nil {
			diagnostics.Error("Clean operation failed: %v", err)
			return 1
		}
		if ok {
			diagnostics.Verbose("Removed %s", dir)
		}
	}

	diagnostics.Success("Removed %d generated files", len(removed))
	return 0
}
