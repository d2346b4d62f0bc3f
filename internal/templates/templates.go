package templates

import (
	"bytes"
	"sync"
	"text/template"

	"github.com/toyz/proxygen/internal/errors"
)

var (
	defaultRegistry = NewTemplateRegistry()

	proxySetOnce sync.Once
	proxySet     *template.Template
	proxySetErr  error
)

// proxyTemplates parses the file template together with the templates it includes
func proxyTemplates() (*template.Template, error) {
	proxySetOnce.Do(func() {
		root := template.New("file")
		for _, name := range []string{"file", "register", "handler", "target"} {
			tmpl := root
			if name != "file" {
				tmpl = root.New(name)
			}
			if _, err := tmpl.Parse(defaultRegistry.MustGet(name)); err != nil {
				proxySetErr = errors.WrapTemplateError(name, "parse", err)
				return
			}
		}
		proxySet = root
	})
	return proxySet, proxySetErr
}

// GenerateFile renders a complete generated file. The output is gofmt-clean for
// well-formed data but callers still format it.
func GenerateFile(data FileData) (string, error) {
	tmpl, err := proxyTemplates()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "file", data); err != nil {
		return "", errors.WrapTemplateError("file", "execute", err)
	}
	return buf.String(), nil
}

// executeTemplate executes a single Go template with the given data
func executeTemplate(name, templateStr string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return "", errors.WrapTemplateError(name, "parse", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.WrapTemplateError(name, "execute", err)
	}

	return buf.String(), nil
}

// ExecuteTemplate executes a Go template with the given data (exported version)
func ExecuteTemplate(name, templateStr string, data any) (string, error) {
	return executeTemplate(name, templateStr, data)
}
