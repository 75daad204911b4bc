package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"
)

// generateTemplate writes the *_hx.go file for one template.
func (g *Generator) generateTemplate(dir, pkgName string, info *TemplateInfo) error {
	outputFile := filepath.Join(dir, strings.ToLower(info.Name)+"_hx.go")
	fmt.Fprintf(g.opts.Out, "generating %s\n", outputFile)

	if g.opts.DryRun {
		return nil
	}

	code, err := g.renderTemplate(pkgName, info)
	if err != nil {
		return fmt.Errorf("render template: %w", err)
	}

	formatted, err := format.Source(code)
	if err != nil {
		// Write unformatted for debugging
		if writeErr := os.WriteFile(outputFile+".unformatted", code, 0644); writeErr == nil {
			fmt.Fprintf(g.opts.Out, "  wrote unformatted code to %s.unformatted for debugging\n", outputFile)
		}
		return fmt.Errorf("format source: %w", err)
	}
	return os.WriteFile(outputFile, formatted, 0644)
}

func (g *Generator) renderTemplate(pkgName string, info *TemplateInfo) ([]byte, error) {
	tmpl, err := template.New("hx").Funcs(template.FuncMap{
		"base": filepath.Base,
	}).Parse(hxTemplate)
	if err != nil {
		return nil, err
	}

	data := struct {
		Package  string
		Template *TemplateInfo
	}{
		Package:  pkgName,
		Template: info,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// identifier turns a template name or component path into an exported Go
// identifier: "user-list:row_item" becomes "UserListRowItem".
func identifier(s string) string {
	var sb strings.Builder
	upper := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	out := sb.String()
	if out == "" || unicode.IsDigit(rune(out[0])) {
		out = "X" + out
	}
	return out
}

const hxTemplate = `// Code generated by hxmarkup. DO NOT EDIT.
// Source: {{base .Template.SourceFile}}

package {{.Package}}

// {{.Template.TypeName}}Template is the template name of {{base .Template.SourceFile}}.
const {{.Template.TypeName}}Template = {{printf "%q" .Template.Name}}
{{if .Template.IDs}}
// Component ids declared in {{base .Template.SourceFile}}.
const (
{{- range .Template.IDs}}
	{{.Const}} = {{printf "%q" .ID}} // {{.Path}}
{{- end}}
)
{{end}}`
