package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerFileTemplates()
	registry.registerProxyTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// Names returns every registered template name
func (tr *TemplateRegistry) Names() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	return names
}

func (tr *TemplateRegistry) registerFileTemplates() {
	tr.templates["file"] = `{{.Header}}

package {{.PackageName}}
{{if .Imports}}
import (
{{- range .Imports}}
{{- if .GroupStart}}
{{end}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)
{{end}}
{{- range .Interfaces}}
{{- if .Handler}}{{template "handler" .}}{{end}}
{{- if .Target}}{{template "target" .}}{{end}}
{{- end}}
{{- if .Registrations}}
func init() {
{{- range .Interfaces}}{{template "register" .}}{{end}}
}
{{end}}
{{- if .Plugin}}
func main() {}
{{end}}`

	tr.templates["register"] = `
{{- if and .Handler .Handler.Register}}
	{{.RT}}.RegisterHandlerProxy[{{.Type}}](func(h {{.RT}}.InvocationHandler) {{.Type}} { return {{.Handler.Constructor}}(h) })
{{- end}}
{{- if and .Target .Target.Register}}
	{{.RT}}.RegisterTargetProxy[{{.Type}}](func(t {{.Type}}) {{.Type}} { return {{.Target.Constructor}}(t) })
{{- end}}`
}

func (tr *TemplateRegistry) registerProxyTemplates() {
	tr.templates["handler"] = `
// {{.Handler.TypeName}} implements {{.Type}} by sending every call to an invocation handler.
type {{.Handler.TypeName}} struct {
	handler {{.RT}}.InvocationHandler
	methods []*{{.RT}}.Method
}

// {{.Handler.Constructor}} returns a {{.Name}} whose calls are dispatched to h.
func {{.Handler.Constructor}}(h {{.RT}}.InvocationHandler) *{{.Handler.TypeName}} {
	return &{{.Handler.TypeName}}{
		handler: h,
		methods: {{.RT}}.MustDescribe[{{.Type}}]().Lookup({{.QuotedMethodNames}}),
	}
}
{{range .Methods}}
func ({{$.Recv}} *{{$.Handler.TypeName}}) {{.Name}}({{.Params}}){{.Results}} {
	{{if .ResultTypes}}{{$.Results}} := {{end}}{{$.Recv}}.handler.Invoke({{$.Recv}}.methods[{{.Index}}], []any{ {{- .BoxArgs -}} })
{{- if .ResultTypes}}
	return {{range $i, $t := .ResultTypes}}{{if $i}}, {{end}}{{$.RT}}.Result[{{$t}}]({{$.Results}}, {{$i}}){{end}}
{{- end}}
}
{{end}}`

	tr.templates["target"] = `
// {{.Target.TypeName}} implements {{.Type}} by tracing every call and forwarding it to a wrapped {{.Name}}.
type {{.Target.TypeName}} struct {
	target {{.Type}}
}

// {{.Target.Constructor}} returns a {{.Name}} forwarding every call to target.
func {{.Target.Constructor}}(target {{.Type}}) *{{.Target.TypeName}} {
	return &{{.Target.TypeName}}{target: target}
}
{{range .Methods}}
func ({{$.Recv}} *{{$.Target.TypeName}}) {{.Name}}({{.Params}}){{.Results}} {
	{{$.RT}}.DefaultTracer().Trace({{printf "%q" $.Name}}, {{printf "%q" .Name}})
	{{if .ResultTypes}}return {{end}}{{$.Recv}}.target.{{.Name}}({{.CallArgs}})
}
{{end}}`
}
