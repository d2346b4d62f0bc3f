package parser

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"github.com/toyz/proxygen/internal/models"
)

// typeWriter renders type expressions back to source. With qualify set, identifiers
// declared in the package are prefixed with the package name so the result can be
// used from another package.
type typeWriter struct {
	pkg     *packageScope
	file    *sourceFile
	qualify bool

	imports    map[string]models.Import
	unexported map[string]bool
	err        error
}

func (w *typeWriter) fail(format string, args ...any) {
	if w.err == nil {
		w.err = fmt.Errorf(format, args...)
	}
}

func (w *typeWriter) expr(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Ident:
		return w.ident(t.Name)
	case *ast.StarExpr:
		return "*" + w.expr(t.X)
	case *ast.ParenExpr:
		return "(" + w.expr(t.X) + ")"
	case *ast.SelectorExpr:
		return w.selector(t)
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + w.expr(t.Elt)
		}
		return "[" + w.arrayLen(t.Len) + "]" + w.expr(t.Elt)
	case *ast.Ellipsis:
		return "..." + w.expr(t.Elt)
	case *ast.MapType:
		return "map[" + w.expr(t.Key) + "]" + w.expr(t.Value)
	case *ast.ChanType:
		return w.chanType(t)
	case *ast.FuncType:
		return "func" + w.signature(t)
	case *ast.InterfaceType:
		return w.interfaceType(t)
	case *ast.StructType:
		return w.structType(t)
	case *ast.IndexExpr:
		return w.expr(t.X) + "[" + w.expr(t.Index) + "]"
	case *ast.IndexListExpr:
		args := make([]string, len(t.Indices))
		for i, idx := range t.Indices {
			args[i] = w.expr(idx)
		}
		return w.expr(t.X) + "[" + strings.Join(args, ", ") + "]"
	default:
		w.fail("unsupported type expression %T", e)
		return ""
	}
}

func (w *typeWriter) ident(name string) string {
	if w.pkg.types[name] {
		if !token.IsExported(name) {
			w.unexported[name] = true
		}
		if w.qualify {
			return w.pkg.name + "." + name
		}
		return name
	}
	if obj := types.Universe.Lookup(name); obj != nil {
		return name
	}
	if w.file.dotImport {
		w.fail("type %s may come from a dot import, which is not supported", name)
	}
	// declared in a file excluded by build constraints
	if w.qualify {
		return w.pkg.name + "." + name
	}
	return name
}

func (w *typeWriter) selector(t *ast.SelectorExpr) string {
	pkg, ok := t.X.(*ast.Ident)
	if !ok {
		w.fail("unsupported qualified type %s", types.ExprString(t))
		return types.ExprString(t)
	}

	path, ok := w.file.imports[pkg.Name]
	if !ok {
		w.fail("unknown package %s in %s.%s", pkg.Name, pkg.Name, t.Sel.Name)
		return pkg.Name + "." + t.Sel.Name
	}
	if prev, ok := w.imports[pkg.Name]; ok && prev.Path != path {
		w.fail("package name %s refers to both %s and %s", pkg.Name, prev.Path, path)
	}
	w.imports[pkg.Name] = models.Import{Name: pkg.Name, Path: path}
	return pkg.Name + "." + t.Sel.Name
}

func (w *typeWriter) arrayLen(e ast.Expr) string {
	switch l := e.(type) {
	case *ast.BasicLit:
		return l.Value
	case *ast.Ident:
		if w.pkg.values[l.Name] && w.qualify {
			if !token.IsExported(l.Name) {
				w.unexported[l.Name] = true
			}
			return w.pkg.name + "." + l.Name
		}
		return l.Name
	case *ast.SelectorExpr:
		return w.selector(l)
	default:
		return types.ExprString(e)
	}
}

func (w *typeWriter) chanType(t *ast.ChanType) string {
	switch t.Dir {
	case ast.SEND:
		return "chan<- " + w.expr(t.Value)
	case ast.RECV:
		return "<-chan " + w.expr(t.Value)
	}
	if inner, ok := t.Value.(*ast.ChanType); ok && inner.Dir == ast.RECV {
		return "chan (" + w.expr(inner) + ")"
	}
	return "chan " + w.expr(t.Value)
}

// signature renders "(params) results" without parameter names
func (w *typeWriter) signature(ft *ast.FuncType) string {
	params := w.fieldTypes(ft.Params)
	out := "(" + strings.Join(params, ", ") + ")"

	results := w.fieldTypes(ft.Results)
	switch len(results) {
	case 0:
		return out
	case 1:
		return out + " " + results[0]
	default:
		return out + " (" + strings.Join(results, ", ") + ")"
	}
}

func (w *typeWriter) fieldTypes(fl *ast.FieldList) []string {
	if fl == nil {
		return nil
	}
	var out []string
	for _, f := range fl.List {
		typ := w.expr(f.Type)
		n := max(len(f.Names), 1)
		for range n {
			out = append(out, typ)
		}
	}
	return out
}

func (w *typeWriter) interfaceType(t *ast.InterfaceType) string {
	if t.Methods == nil || len(t.Methods.List) == 0 {
		return "interface{}"
	}
	items := make([]string, 0, len(t.Methods.List))
	for _, f := range t.Methods.List {
		if ft, ok := f.Type.(*ast.FuncType); ok && len(f.Names) > 0 {
			items = append(items, f.Names[0].Name+w.signature(ft))
			continue
		}
		items = append(items, w.expr(f.Type))
	}
	return "interface{ " + strings.Join(items, "; ") + " }"
}

func (w *typeWriter) structType(t *ast.StructType) string {
	if t.Fields == nil || len(t.Fields.List) == 0 {
		return "struct{}"
	}
	fields := make([]string, 0, len(t.Fields.List))
	for _, f := range t.Fields.List {
		var sb strings.Builder
		if len(f.Names) > 0 {
			names := make([]string, len(f.Names))
			for i, n := range f.Names {
				names[i] = n.Name
			}
			sb.WriteString(strings.Join(names, ", "))
			sb.WriteString(" ")
		}
		sb.WriteString(w.expr(f.Type))
		if f.Tag != nil {
			sb.WriteString(" ")
			sb.WriteString(f.Tag.Value)
		}
		fields = append(fields, sb.String())
	}
	return "struct{ " + strings.Join(fields, "; ") + " }"
}
