package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/toyz/proxygen/internal/compiler"
	"github.com/toyz/proxygen/internal/errors"
	"github.com/toyz/proxygen/internal/generator"
	"github.com/toyz/proxygen/internal/loader"
	"github.com/toyz/proxygen/internal/models"
	"github.com/toyz/proxygen/internal/parser"
	"github.com/toyz/proxygen/internal/utils"
)

// PluginDirName is the directory below the module root that receives plugin builds.
// The leading underscore keeps it out of ./... patterns.
const PluginDirName = "_proxygen"

// Generator coordinates the CLI generation process
type Generator struct {
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	parser         parser.InterfaceParser
	codeGenerator  generator.CodeGenerator
	compiler       compiler.Compiler
	openPlugin     func(path string) (*loader.Plugin, error)
	reporter       *DiagnosticReporter
	diagnostics    *utils.DiagnosticSystem
	summary        GenerationSummary
}

// Option customizes a Generator
type Option func(*Generator)

// WithParser replaces the source parser
func WithParser(p parser.InterfaceParser) Option {
	return func(g *Generator) { g.parser = p }
}

// WithCodeGenerator replaces the proxy renderer
func WithCodeGenerator(cg generator.CodeGenerator) Option {
	return func(g *Generator) { g.codeGenerator = cg }
}

// WithCompiler replaces the go toolchain driver
func WithCompiler(c compiler.Compiler) Option {
	return func(g *Generator) { g.compiler = c }
}

// WithReporter replaces the error reporter
func WithReporter(r *DiagnosticReporter) Option {
	return func(g *Generator) { g.reporter = r }
}

// WithPluginOpener replaces plugin loading
func WithPluginOpener(open func(path string) (*loader.Plugin, error)) Option {
	return func(g *Generator) { g.openPlugin = open }
}

// NewGenerator creates a new CLI generator
func NewGenerator(diagnostics *utils.DiagnosticSystem, opts ...Option) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	g := &Generator{
		scanner:        NewDirectoryScanner(),
		moduleResolver: NewModuleResolver(),
		parser:         parser.NewParser(),
		codeGenerator:  generator.NewGenerator(),
		openPlugin:     loader.Open,
		reporter:       NewDiagnosticReporter(diagnostics.Level() >= utils.DiagnosticVerbose),
		diagnostics:    diagnostics,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Summary returns the summary of the last run
func (g *Generator) Summary() GenerationSummary {
	return g.summary
}

// Reporter returns the error reporter
func (g *Generator) Reporter() *DiagnosticReporter {
	return g.reporter
}

// Run executes the generation pipeline: scan, parse, render, write, then optionally
// compile, build plugins and load them. It stops at the first error.
func (g *Generator) Run(ctx context.Context, config Config) error {
	startTime := time.Now()
	g.summary = GenerationSummary{}
	defer func() { g.summary.Duration = time.Since(startTime) }()

	if err := config.Validate(); err != nil {
		var ve utils.ValidationError
		if stderrors.As(err, &ve) {
			return errors.WrapConfigurationError(ve.Field, err).
				WithSuggestion("Run proxygen -help for the available flags")
		}
		return errors.WrapConfigurationError("", err)
	}

	if g.compiler == nil && (config.compileEnabled() || config.Plugin) {
		var opts []compiler.Option
		if config.GoBinary != "" {
			opts = append(opts, compiler.WithGoBinary(config.GoBinary))
		}
		if config.Timeout > 0 {
			opts = append(opts, compiler.WithTimeout(config.Timeout))
		}
		g.compiler = compiler.NewGoCompiler(opts...)
	}

	g.diagnostics.Header("Generating proxies")
	g.diagnostics.Debug("Scanning directories: %v", config.Directories)
	if config.ModuleName != "" {
		g.diagnostics.Debug("Using custom module name: %s", config.ModuleName)
	}

	packageDirs, err := g.scanner.ScanDirectories(config.Directories)
	if err != nil {
		return err
	}
	if len(packageDirs) == 0 {
		g.diagnostics.Warn("No Go packages found in %v", config.Directories)
		return nil
	}
	g.summary.PackagesProcessed = len(packageDirs)
	g.diagnostics.Verbose("Found %d packages to process", len(packageDirs))

	g.diagnostics.PhaseHeader("Parsing")
	var packages []*models.PackageMetadata
	for _, dir := range packageDirs {
		metadata, err := g.parser.ParseDirectory(dir)
		if err != nil {
			return err
		}
		if !metadata.HasProxies() {
			g.diagnostics.Debug("Skipping %s: no annotated interfaces", dir)
			continue
		}
		for _, iface := range metadata.Interfaces {
			g.diagnostics.PhaseItem(fmt.Sprintf("%s.%s (%d methods)", metadata.PackageName, iface.Name, len(iface.Methods)))
		}
		g.summary.InterfacesFound += len(metadata.Interfaces)
		packages = append(packages, metadata)
	}

	if len(packages) == 0 {
		g.diagnostics.Warn("No annotated interfaces found")
		return nil
	}

	g.diagnostics.PhaseHeader("Generating")
	var written []*models.PackageMetadata
	for _, metadata := range packages {
		if err := g.resolveImportPath(config, metadata); err != nil {
			return err
		}

		file, err := g.codeGenerator.GenerateProxies(metadata)
		if err != nil {
			return err
		}
		if err := g.write(file); err != nil {
			return err
		}
		g.summary.ProxiesGenerated += len(file.Proxies)
		written = append(written, metadata)
	}

	if config.compileEnabled() {
		g.diagnostics.PhaseHeader("Compiling")
		for _, metadata := range written {
			if err := g.compile(ctx, config, metadata.PackagePath); err != nil {
				return err
			}
			g.summary.PackagesCompiled++
		}
	}

	if config.Plugin {
		g.diagnostics.PhaseHeader("Plugins")
		for _, metadata := range written {
			build, err := g.buildPlugin(ctx, config, metadata)
			if err != nil {
				return err
			}
			g.summary.Plugins = append(g.summary.Plugins, *build)
		}
	}

	g.diagnostics.GenerationComplete()
	return nil
}

// resolveImportPath fills in the import path of metadata from the enclosing module.
// It is only required for plugins, so a failure is tolerated otherwise.
func (g *Generator) resolveImportPath(config Config, metadata *models.PackageMetadata) error {
	importPath, _, err := g.moduleResolver.ImportPath(config.ModuleName, metadata.PackagePath)
	if err != nil {
		if config.Plugin {
			return err
		}
		g.diagnostics.Debug("Import path of %s unknown: %v", metadata.PackagePath, err)
		return nil
	}

	metadata.ImportPath = importPath
	for i := range metadata.Interfaces {
		metadata.Interfaces[i].ImportPath = importPath
	}
	g.diagnostics.Debug("Resolved %s to %s", metadata.PackagePath, importPath)
	return nil
}

func (g *Generator) write(file *models.GeneratedFile) error {
	g.diagnostics.PhaseProgress("Writing " + file.FilePath)

	changed, err := utils.WriteGeneratedFile(file.FilePath, []byte(file.Content))
	if err != nil {
		return err
	}
	if !changed {
		g.diagnostics.Debug("%s unchanged", file.FilePath)
	}
	g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, file.FilePath)
	return nil
}

func (g *Generator) compile(ctx context.Context, config Config, dir string) error {
	check := g.compiler.Build
	verb := "Building"
	if config.Vet {
		check = g.compiler.Vet
		verb = "Vetting"
	}

	g.diagnostics.PhaseProgress(fmt.Sprintf("%s %s", verb, dir))
	diag, err := check(ctx, dir)
	if err != nil {
		return err
	}
	g.diagnostics.PhaseItem(fmt.Sprintf("%s (%s)", dir, diag.Duration.Round(time.Millisecond)))
	return nil
}

// buildPlugin renders the package's proxies into a package main below the plugin
// directory and builds it with -buildmode=plugin
func (g *Generator) buildPlugin(ctx context.Context, config Config, metadata *models.PackageMetadata) (*models.PluginBuild, error) {
	module, err := g.moduleResolver.ResolveModule(config.ModuleName, metadata.PackagePath)
	if err != nil {
		return nil, err
	}

	pluginRoot := config.PluginDir
	if pluginRoot == "" {
		pluginRoot = filepath.Join(module.Root, PluginDirName)
	}
	outputDir := filepath.Join(pluginRoot, pluginSubdir(module, metadata.ImportPath))

	file, err := g.codeGenerator.GeneratePlugin(metadata, outputDir)
	if err != nil {
		return nil, err
	}
	if err := g.write(file); err != nil {
		return nil, err
	}

	build := &models.PluginBuild{
		SourcePath: file.FilePath,
		OutputPath: filepath.Join(outputDir, metadata.PackageName+".so"),
	}
	for _, p := range file.Proxies {
		build.Symbols = append(build.Symbols, p.Constructor)
	}

	g.diagnostics.PhaseProgress("Building plugin " + build.OutputPath)
	if _, err := g.compiler.BuildPlugin(ctx, outputDir, file.FilePath, build.OutputPath); err != nil {
		return nil, err
	}
	g.diagnostics.PhaseItem(build.OutputPath)

	if config.Load {
		p, err := g.openPlugin(build.OutputPath)
		if err != nil {
			return nil, err
		}
		for _, symbol := range build.Symbols {
			if _, err := p.Lookup(symbol); err != nil {
				return nil, err
			}
		}
		g.diagnostics.Verbose("Loaded %s", p.Path)
	}
	return build, nil
}
