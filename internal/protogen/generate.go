package protogen

import (
	"bytes"
	"fmt"
	"go/format"
	"path/filepath"
	"text/template"
)

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by flexgen from {{ .Source }}. DO NOT EDIT.

package {{ .Package }}

import (
	"github.com/anirudhraja/flexmsg/registry"
	"github.com/anirudhraja/flexmsg/schema"
)

const (
{{- range .File.Messages }}
	Kind{{ .ProtoName }} schema.Kind = {{ .Kind }}
{{- end }}
)
{{ range .File.Messages }}
{{ range .Comment }}// {{ . }}
{{ end -}}
type {{ .ProtoName }} struct {
{{- range .Fields }}
	{{ .GoName }} {{ .GoType }} ` + "`" + `flex:"{{ .Label }}{{ if .Char }},char{{ end }}"` + "`" + `
{{- end }}
}

func ({{ .ProtoName }}) Kind() schema.Kind { return Kind{{ .ProtoName }} }
{{ end }}
// Kinds lists every message kind declared in {{ .Source }}.
func Kinds() []schema.Kind {
	return []schema.Kind{ {{- range $i, $m := .File.Messages }}{{ if $i }}, {{ end }}Kind{{ $m.ProtoName }}{{ end -}} }
}

// Register adds every message kind declared in {{ .Source }} to reg.
func Register(reg *registry.Registry) error {
{{- range .File.Messages }}
	if _, err := reg.RegisterLayout(Kind{{ .ProtoName }}, {{ printf "%q" .DisplayName }}, {{ .ProtoName }}{}); err != nil {
		return err
	}
{{- end }}
	return nil
}
`))

// Generate renders Go source for file in package pkg. When pkg is empty the
// proto package name is used.
func Generate(file *File, pkg string) ([]byte, error) {
	if pkg == "" {
		pkg = file.Package
	}
	if pkg == "" {
		return nil, fmt.Errorf("%s: no Go package name", file.Name)
	}

	var buf bytes.Buffer
	err := fileTemplate.Execute(&buf, struct {
		Source  string
		Package string
		File    *File
	}{
		Source:  filepath.Base(file.Name),
		Package: pkg,
		File:    file,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", file.Name, err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w", err)
	}
	return src, nil
}
