package generator

import (
	"fmt"
	"go/token"
	"path/filepath"
	"strings"

	"github.com/toyz/proxygen/internal/models"
	"github.com/toyz/proxygen/internal/templates"
	"github.com/toyz/proxygen/internal/utils"
)

// RuntimeImportPath is the package generated code registers its proxies with
const RuntimeImportPath = "github.com/toyz/proxygen/pkg/proxy"

// names used as parameters inside generated constructors and init
var constructorParams = []string{"h", "t", "target"}

// Generator implements the CodeGenerator interface
type Generator struct {
	runtimePath string
}

// NewGenerator creates a new code generator instance
func NewGenerator() *Generator {
	return &Generator{runtimePath: RuntimeImportPath}
}

// NewGeneratorWithRuntime creates a generator importing the runtime from another path
func NewGeneratorWithRuntime(runtimePath string) *Generator {
	return &Generator{runtimePath: runtimePath}
}

// GenerateProxies renders autogen_proxy.go for the package the interfaces are declared in
func (g *Generator) GenerateProxies(metadata *models.PackageMetadata) (*models.GeneratedFile, error) {
	if err := g.checkMetadata(metadata); err != nil {
		return nil, err
	}
	if metadata.ImportPath != "" && metadata.ImportPath == g.runtimePath {
		return nil, packageError(metadata, "cannot generate proxies inside the runtime package %s", g.runtimePath)
	}
	if metadata.IsDeclared("any") {
		return nil, packageError(metadata, "package %s redeclares any, which generated code relies on", metadata.PackageName).
			WithSuggestion("Rename the package-level any declaration")
	}

	im := templates.NewImportManager()
	im.Reserve(metadata.Declared...)
	if err := addSignatureImports(im, metadata); err != nil {
		return nil, err
	}
	im.Reserve(constructorParams...)
	rt := im.AddFree("proxy", g.runtimePath)

	filePath := filepath.Join(metadata.PackagePath, models.GeneratedFileName)
	data := templates.FileData{
		Header:      models.GeneratedHeader,
		PackageName: metadata.PackageName,
		Imports:     im.Imports(),
	}
	return g.render(metadata, data, im, rt, filePath, false)
}

// GeneratePlugin renders a package main that re-declares the proxies of metadata outside
// their package, to be built with -buildmode=plugin
func (g *Generator) GeneratePlugin(metadata *models.PackageMetadata, outputDir string) (*models.GeneratedFile, error) {
	if err := g.checkMetadata(metadata); err != nil {
		return nil, err
	}
	if metadata.PackageName == "main" {
		return nil, packageError(metadata, "interfaces declared in package main cannot be imported by a plugin").
			WithSuggestion("Move the interface to a non-main package")
	}
	if metadata.ImportPath == "" {
		return nil, packageError(metadata, "import path of %s is unknown", metadata.PackagePath).
			WithSuggestion("Run proxygen inside a Go module or pass -module")
	}

	im := templates.NewImportManager()
	im.Reserve("main", "init")
	im.Reserve(constructorParams...)
	for _, iface := range metadata.Interfaces {
		if len(iface.Proxies) == 0 {
			continue
		}
		if !iface.Exportable() {
			return nil, interfaceError(iface, "interface %s cannot be implemented outside its package", iface.Name).
				WithContext("unexported", iface.Unexported).
				WithSuggestion("Export the interface and every type its methods use")
		}
		for _, p := range iface.Proxies {
			if !token.IsExported(p.Constructor) {
				return nil, interfaceError(iface, "plugin symbol %s is not exported", p.Constructor).
					WithSuggestion("Use an exported -Constructor name")
			}
			im.Reserve(p.TypeName, p.Constructor)
		}
	}

	if err := im.Add(metadata.PackageName, metadata.ImportPath); err != nil {
		return nil, packageError(metadata, "cannot import %s: %v", metadata.ImportPath, err)
	}
	if err := addSignatureImports(im, metadata); err != nil {
		return nil, err
	}
	rt := im.AddFree("proxy", g.runtimePath)

	filePath := filepath.Join(outputDir, models.GeneratedFileName)
	data := templates.FileData{
		Header:      models.GeneratedHeader,
		PackageName: "main",
		Imports:     im.Imports(),
		Plugin:      true,
	}
	return g.render(metadata, data, im, rt, filePath, true)
}

func (g *Generator) checkMetadata(metadata *models.PackageMetadata) error {
	if metadata == nil {
		return fmt.Errorf("metadata cannot be nil")
	}
	if !metadata.HasProxies() {
		return packageError(metadata, "no proxies requested in package %s", metadata.PackageName)
	}
	return nil
}

func (g *Generator) render(metadata *models.PackageMetadata, data templates.FileData, im *templates.ImportManager, rt, filePath string, qualified bool) (*models.GeneratedFile, error) {
	var proxies []models.ProxySpec
	for _, iface := range metadata.Interfaces {
		if len(iface.Proxies) == 0 {
			continue
		}
		ifaceData, err := buildInterfaceData(iface, im, rt, qualified)
		if err != nil {
			return nil, err
		}
		data.Interfaces = append(data.Interfaces, ifaceData)
		proxies = append(proxies, iface.Proxies...)
	}

	content, err := templates.GenerateFile(data)
	if err != nil {
		return nil, generationError(metadata, filePath, err)
	}

	formatted, err := utils.FormatGoCode(filePath, []byte(content))
	if err != nil {
		return nil, generationError(metadata, filePath, err).
			WithContext("source", content)
	}

	return &models.GeneratedFile{
		PackageName: data.PackageName,
		FilePath:    filePath,
		Content:     string(formatted),
		Proxies:     proxies,
	}, nil
}

func addSignatureImports(im *templates.ImportManager, metadata *models.PackageMetadata) error {
	for _, iface := range metadata.Interfaces {
		if len(iface.Proxies) == 0 {
			continue
		}
		for _, imp := range iface.Imports {
			if err := im.Add(imp.Name, imp.Path); err != nil {
				return interfaceError(iface, "method signatures of %s: %v", iface.Name, err).
					WithSuggestion("Give the conflicting import an explicit name in the interface's file")
			}
		}
	}
	return nil
}

// buildInterfaceData converts one interface into template data. Local names used in
// method bodies are chosen so they never shadow an import.
func buildInterfaceData(iface models.InterfaceMetadata, im *templates.ImportManager, rt string, qualified bool) (templates.InterfaceData, error) {
	data := templates.InterfaceData{
		Name:    iface.Name,
		Type:    iface.Name,
		RT:      rt,
		Recv:    freeName("p", im),
		Results: freeName("results", im),
	}
	if qualified {
		data.Type = iface.PackageName + "." + iface.Name
	}

	fields := make(map[string]bool)
	if spec, ok := iface.Proxy(models.ProxyKindHandler); ok {
		data.Handler = &templates.ProxyData{TypeName: spec.TypeName, Constructor: spec.Constructor, Register: spec.Register}
		fields["handler"], fields["methods"] = true, true
	}
	if spec, ok := iface.Proxy(models.ProxyKindTarget); ok {
		data.Target = &templates.ProxyData{TypeName: spec.TypeName, Constructor: spec.Constructor, Register: spec.Register}
		fields["target"] = true
	}

	argPrefix := argumentPrefix(im, iface.Methods)
	for i, m := range iface.Methods {
		if fields[m.Name] {
			return data, interfaceError(iface, "method %s clashes with a field of the generated proxy", m.Name).
				WithContext("method", m.Name)
		}
		data.Methods = append(data.Methods, buildMethodData(m, i, argPrefix, qualified))
	}
	return data, nil
}

func buildMethodData(m models.Method, index int, argPrefix string, qualified bool) templates.MethodData {
	md := templates.MethodData{Name: m.Name, Index: index}

	params := make([]string, len(m.Parameters))
	names := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		typ := p.Type
		if qualified {
			typ = p.QualifiedType
		}
		names[i] = fmt.Sprintf("%s%d", argPrefix, i)
		if p.Variadic {
			typ = "..." + typ
		}
		params[i] = names[i] + " " + typ
	}
	md.Params = strings.Join(params, ", ")
	md.BoxArgs = strings.Join(names, ", ")
	md.CallArgs = md.BoxArgs
	if m.Variadic() {
		md.CallArgs += "..."
	}

	for _, r := range m.Results {
		typ := r.Type
		if qualified {
			typ = r.QualifiedType
		}
		md.ResultTypes = append(md.ResultTypes, typ)
	}
	switch len(md.ResultTypes) {
	case 0:
	case 1:
		md.Results = " " + md.ResultTypes[0]
	default:
		md.Results = " (" + strings.Join(md.ResultTypes, ", ") + ")"
	}
	return md
}

func generationError(metadata *models.PackageMetadata, filePath string, cause error) *models.GeneratorError {
	return &models.GeneratorError{
		Type:    models.ErrorTypeGeneration,
		File:    filePath,
		Message: fmt.Sprintf("failed to generate proxies for package %s: %v", metadata.PackageName, cause),
		Cause:   cause,
	}
}

func packageError(metadata *models.PackageMetadata, format string, args ...any) *models.GeneratorError {
	e := &models.GeneratorError{
		Type:    models.ErrorTypeGeneration,
		Message: fmt.Sprintf(format, args...),
	}
	if metadata != nil {
		e.File = metadata.PackagePath
		e.WithContext("package", metadata.PackageName)
	}
	return e
}

func interfaceError(iface models.InterfaceMetadata, format string, args ...any) *models.GeneratorError {
	return (&models.GeneratorError{
		Type:    models.ErrorTypeGeneration,
		File:    iface.FileName,
		Line:    iface.Line,
		Message: fmt.Sprintf(format, args...),
	}).WithContext("interface", iface.Name)
}
