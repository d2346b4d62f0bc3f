package parser

import (
	"fmt"
	"go/ast"
	"go/build"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/toyz/proxygen/internal/annotations"
	"github.com/toyz/proxygen/internal/errors"
	"github.com/toyz/proxygen/internal/models"
)

// Parser extracts //proxy:: annotated interfaces from Go packages
type Parser struct {
	fileSet     *token.FileSet
	annotations *annotations.ParticipleParser
}

// NewParser creates a new interface parser
func NewParser() *Parser {
	return &Parser{
		fileSet:     token.NewFileSet(),
		annotations: annotations.NewParticipleParser(annotations.DefaultRegistry()),
	}
}

type sourceFile struct {
	name      string
	ast       *ast.File
	imports   map[string]string // package name in this file -> import path
	dotImport bool
}

type declaredInterface struct {
	spec  *ast.TypeSpec
	iface *ast.InterfaceType
	file  *sourceFile
}

type packageScope struct {
	name       string
	files      []*sourceFile
	interfaces map[string]*declaredInterface
	types      map[string]bool // package-level type names
	values     map[string]bool // package-level consts, vars and funcs
}

// flatMethod is a method of the flattened method set, with the file it was declared in
type flatMethod struct {
	name string
	ft   *ast.FuncType
	file *sourceFile
	pos  token.Pos
}

// ParseSource parses source code from a string for testing purposes
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, errors.WrapParseError(filename, err)
	}
	return p.parsePackage("./", []*sourceFile{newSourceFile(filename, file)})
}

// ParseDirectory parses the non-test Go files of the package in path. Files excluded by
// build constraints and the generated proxy file are skipped.
func (p *Parser) ParseDirectory(path string) (*models.PackageMetadata, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}

	var files []*sourceFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || name == GeneratedFileName {
			continue
		}
		if ok, err := build.Default.MatchFile(path, name); err != nil || !ok {
			continue
		}

		fileName := filepath.Join(path, name)
		file, err := parser.ParseFile(p.fileSet, fileName, nil, parser.ParseComments)
		if err != nil {
			return nil, errors.WrapParseError(fileName, err)
		}
		if isProxygenFile(file) {
			continue
		}
		files = append(files, newSourceFile(fileName, file))
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no Go files found in directory %s", path)
	}
	for _, f := range files[1:] {
		if f.ast.Name.Name != files[0].ast.Name.Name {
			return nil, fmt.Errorf("multiple packages found in directory %s: %s and %s",
				path, files[0].ast.Name.Name, f.ast.Name.Name)
		}
	}

	return p.parsePackage(path, files)
}

func newSourceFile(name string, file *ast.File) *sourceFile {
	sf := &sourceFile{name: name, ast: file, imports: make(map[string]string)}
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		pkgName := importName(path)
		if imp.Name != nil {
			pkgName = imp.Name.Name
		}
		switch pkgName {
		case "_":
		case ".":
			sf.dotImport = true
		default:
			sf.imports[pkgName] = path
		}
	}
	return sf
}

func isProxygenFile(file *ast.File) bool {
	for _, group := range file.Comments {
		if group.Pos() > file.Package {
			break
		}
		for _, c := range group.List {
			if c.Text == models.GeneratedHeader {
				return true
			}
		}
	}
	return false
}

func (p *Parser) parsePackage(path string, files []*sourceFile) (*models.PackageMetadata, error) {
	scope := &packageScope{
		name:       files[0].ast.Name.Name,
		files:      files,
		interfaces: make(map[string]*declaredInterface),
		types:      make(map[string]bool),
		values:     make(map[string]bool),
	}
	for _, f := range files {
		scope.collect(f)
	}

	metadata := &models.PackageMetadata{
		PackageName: scope.name,
		PackagePath: path,
		Declared:    scope.declared(),
	}

	for _, f := range files {
		for _, decl := range f.ast.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				comments := annotationComments(gd, ts)
				if len(comments) == 0 {
					continue
				}
				iface, err := p.buildInterface(scope, f, ts, comments)
				if err != nil {
					return nil, err
				}
				iface.PackagePath = path
				metadata.Interfaces = append(metadata.Interfaces, *iface)
			}
		}
	}

	if err := p.validateNames(scope, metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}

func (s *packageScope) declared() []string {
	names := make([]string, 0, len(s.types)+len(s.values))
	for name := range s.types {
		names = append(names, name)
	}
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *packageScope) collect(f *sourceFile) {
	for _, decl := range f.ast.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				s.values[d.Name.Name] = true
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch sp := spec.(type) {
				case *ast.TypeSpec:
					s.types[sp.Name.Name] = true
					if it, ok := sp.Type.(*ast.InterfaceType); ok && !sp.Assign.IsValid() {
						s.interfaces[sp.Name.Name] = &declaredInterface{spec: sp, iface: it, file: f}
					}
				case *ast.ValueSpec:
					for _, n := range sp.Names {
						s.values[n.Name] = true
					}
				}
			}
		}
	}
}

// annotationComments returns the //proxy:: lines documenting a type spec. The decl doc
// only counts for ungrouped declarations.
func annotationComments(gd *ast.GenDecl, ts *ast.TypeSpec) []*ast.Comment {
	var groups []*ast.CommentGroup
	if gd.Doc != nil && !gd.Lparen.IsValid() {
		groups = append(groups, gd.Doc)
	}
	if ts.Doc != nil {
		groups = append(groups, ts.Doc)
	}

	var out []*ast.Comment
	for _, g := range groups {
		for _, c := range g.List {
			if annotations.IsAnnotation(c.Text) {
				out = append(out, c)
			}
		}
	}
	return out
}

func (p *Parser) buildInterface(scope *packageScope, f *sourceFile, ts *ast.TypeSpec, comments []*ast.Comment) (*models.InterfaceMetadata, error) {
	name := ts.Name.Name
	pos := p.fileSet.Position(ts.Pos())

	iface := &models.InterfaceMetadata{
		Name:        name,
		PackageName: scope.name,
		FileName:    pos.Filename,
		Line:        pos.Line,
	}

	seen := make(map[models.ProxyKind]bool)
	for _, c := range comments {
		cpos := p.fileSet.Position(c.Slash)
		loc := annotations.SourceLocation{File: cpos.Filename, Line: cpos.Line, Column: cpos.Column}

		parsed, err := p.annotations.ParseAnnotation(name, c.Text, loc)
		if err != nil {
			return nil, annotationError(err)
		}

		kind := models.ProxyKindHandler
		if parsed.Type == annotations.TargetAnnotation {
			kind = models.ProxyKindTarget
		}
		if seen[kind] {
			return nil, declarationError(cpos, name, "%s is annotated with //proxy::%s more than once", name, kind).
				WithSuggestion("Keep a single annotation per proxy kind")
		}
		seen[kind] = true
		iface.Proxies = append(iface.Proxies, models.NewProxySpec(kind, name, parsed))
	}

	if ts.Assign.IsValid() {
		return nil, declarationError(pos, name, "%s is a type alias", name).
			WithSuggestion("Annotate the interface declaration instead of the alias")
	}
	if _, ok := ts.Type.(*ast.InterfaceType); !ok {
		return nil, notInterfaceError(pos, name)
	}
	if ts.TypeParams != nil && len(ts.TypeParams.List) > 0 {
		return nil, declarationError(pos, name, "generic interface %s cannot be proxied", name).
			WithSuggestion("Declare a non-generic interface with the concrete types you need")
	}

	methods, err := p.flatten(scope, scope.interfaces[name], make(map[string]bool))
	if err != nil {
		return nil, err
	}

	imports := make(map[string]models.Import)
	unexported := make(map[string]bool)
	for _, fm := range methods {
		m, err := p.buildMethod(scope, name, fm, imports, unexported)
		if err != nil {
			return nil, err
		}
		iface.Methods = append(iface.Methods, m)
	}

	for _, imp := range imports {
		iface.Imports = append(iface.Imports, imp)
	}
	sort.Slice(iface.Imports, func(i, j int) bool { return iface.Imports[i].Path < iface.Imports[j].Path })
	for id := range unexported {
		iface.Unexported = append(iface.Unexported, id)
	}
	sort.Strings(iface.Unexported)

	return iface, nil
}

// flatten returns the method set of di in declaration order, expanding embedded
// interfaces of the same package in place
func (p *Parser) flatten(scope *packageScope, di *declaredInterface, visiting map[string]bool) ([]flatMethod, error) {
	name := di.spec.Name.Name
	if visiting[name] {
		return nil, embeddedError(p.fileSet.Position(di.spec.Pos()), name, name, "the interface embeds itself")
	}
	visiting[name] = true
	defer delete(visiting, name)

	var out []flatMethod
	index := make(map[string]int)
	add := func(m flatMethod) error {
		if i, ok := index[m.name]; ok {
			if p.signatureKey(scope, out[i]) == p.signatureKey(scope, m) {
				return nil
			}
			return duplicateMethodError(p.fileSet.Position(m.pos), name, m.name)
		}
		index[m.name] = len(out)
		out = append(out, m)
		return nil
	}

	for _, field := range di.iface.Methods.List {
		if len(field.Names) > 0 {
			ft := field.Type.(*ast.FuncType)
			for _, n := range field.Names {
				if err := add(flatMethod{name: n.Name, ft: ft, file: di.file, pos: n.Pos()}); err != nil {
					return nil, err
				}
			}
			continue
		}

		pos := p.fileSet.Position(field.Pos())
		switch t := field.Type.(type) {
		case *ast.Ident:
			if embedded, ok := scope.interfaces[t.Name]; ok {
				if embedded.spec.TypeParams != nil && len(embedded.spec.TypeParams.List) > 0 {
					return nil, embeddedError(pos, name, t.Name, "it is generic")
				}
				inner, err := p.flatten(scope, embedded, visiting)
				if err != nil {
					return nil, err
				}
				for _, m := range inner {
					if err := add(m); err != nil {
						return nil, err
					}
				}
				continue
			}
			if t.Name == "error" && !scope.types["error"] {
				if err := add(errorMethod(di.file, field.Pos())); err != nil {
					return nil, err
				}
				continue
			}
			return nil, embeddedError(pos, name, t.Name, "it is not an interface declared in this package")
		case *ast.SelectorExpr:
			return nil, embeddedError(pos, name, fmt.Sprintf("%s.%s", t.X, t.Sel.Name), "interfaces from other packages cannot be inspected")
		default:
			return nil, embeddedError(pos, name, "type constraint", "type sets cannot be proxied")
		}
	}
	return out, nil
}

func errorMethod(file *sourceFile, pos token.Pos) flatMethod {
	return flatMethod{
		name: "Error",
		ft: &ast.FuncType{
			Params:  &ast.FieldList{},
			Results: &ast.FieldList{List: []*ast.Field{{Type: ast.NewIdent("string")}}},
		},
		file: file,
		pos:  pos,
	}
}

func (p *Parser) signatureKey(scope *packageScope, m flatMethod) string {
	w := &typeWriter{pkg: scope, file: m.file, imports: map[string]models.Import{}, unexported: map[string]bool{}}
	return w.signature(m.ft)
}

func (p *Parser) buildMethod(scope *packageScope, iface string, fm flatMethod, imports map[string]models.Import, unexported map[string]bool) (models.Method, error) {
	plain := &typeWriter{pkg: scope, file: fm.file, imports: imports, unexported: unexported}
	qualified := &typeWriter{pkg: scope, file: fm.file, qualify: true, imports: imports, unexported: unexported}

	method := models.Method{Name: fm.name}
	if !token.IsExported(fm.name) {
		unexported[fm.name] = true
	}

	if fm.ft.Params != nil {
		for _, field := range fm.ft.Params.List {
			typ := field.Type
			variadic := false
			if e, ok := typ.(*ast.Ellipsis); ok {
				typ, variadic = e.Elt, true
			}
			param := models.Parameter{Type: plain.expr(typ), QualifiedType: qualified.expr(typ), Variadic: variadic}
			if len(field.Names) == 0 {
				method.Parameters = append(method.Parameters, param)
			}
			for _, n := range field.Names {
				param.Name = n.Name
				method.Parameters = append(method.Parameters, param)
			}
		}
	}

	if fm.ft.Results != nil {
		for _, field := range fm.ft.Results.List {
			result := models.Result{Type: plain.expr(field.Type), QualifiedType: qualified.expr(field.Type)}
			if len(field.Names) == 0 {
				method.Results = append(method.Results, result)
			}
			for _, n := range field.Names {
				result.Name = n.Name
				method.Results = append(method.Results, result)
			}
		}
	}

	if err := checkImports(plain, qualified); err != nil {
		return models.Method{}, declarationError(p.fileSet.Position(fm.pos), iface, "method %s: %v", fm.name, err).
			WithSuggestion("Import the packages used by the signature with a plain import")
	}
	return method, nil
}

func checkImports(writers ...*typeWriter) error {
	for _, w := range writers {
		if w.err != nil {
			return w.err
		}
	}
	return nil
}

// validateNames rejects generated identifiers that collide with each other or with
// declarations of the package
func (p *Parser) validateNames(scope *packageScope, metadata *models.PackageMetadata) error {
	taken := make(map[string]string)
	for name := range scope.types {
		taken[name] = "type " + name
	}
	for name := range scope.values {
		taken[name] = "declaration " + name
	}

	for _, iface := range metadata.Interfaces {
		pos := token.Position{Filename: iface.FileName, Line: iface.Line}
		for _, proxy := range iface.Proxies {
			for _, id := range []string{proxy.TypeName, proxy.Constructor} {
				if other, ok := taken[id]; ok {
					return nameCollisionError(pos, iface.Name, id, other)
				}
				taken[id] = fmt.Sprintf("the %s proxy of %s", proxy.Kind, iface.Name)
			}
		}
	}
	return nil
}

// importName guesses the package name of an import path the way most packages are
// named: last element, major version suffixes and go- prefixes dropped
func importName(path string) string {
	elems := strings.Split(path, "/")
	name := elems[len(elems)-1]
	if len(elems) > 1 && isMajorVersion(name) {
		name = elems[len(elems)-2]
	}
	name = strings.TrimPrefix(name, "go-")
	name = strings.TrimSuffix(name, "-go")
	if i := strings.Index(name, "."); i > 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "-"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(s[1:])
	return err == nil
}
