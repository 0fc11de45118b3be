package docs

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

// Renderer turns a FileDoc into Markdown.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"params":      paramsTable,
		"eventParams": eventParamsTable,
	}).ParseFS(templateFiles, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render returns the Markdown document for doc.
func (r *Renderer) Render(doc FileDoc) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "file.md.tmpl", doc); err != nil {
		return "", fmt.Errorf("rendering %s: %w", doc.Name, err)
	}
	return buf.String(), nil
}

func paramsTable(params []ParamDoc) string {
	var b strings.Builder
	b.WriteString("| Name | Type | Description |\n")
	b.WriteString("| ---- | ---- | ----------- |")
	for _, p := range params {
		fmt.Fprintf(&b, "\n| %s | `%s` | %s |", cell(p.Name), p.Type, cell(p.Doc))
	}
	return b.String()
}

func eventParamsTable(params []ParamDoc) string {
	var b strings.Builder
	b.WriteString("| Name | Type | Indexed | Description |\n")
	b.WriteString("| ---- | ---- | ------- | ----------- |")
	for _, p := range params {
		indexed := "false"
		if p.Indexed != nil && *p.Indexed {
			indexed = "true"
		}
		fmt.Fprintf(&b, "\n| %s | `%s` | %s | %s |", cell(p.Name), p.Type, indexed, cell(p.Doc))
	}
	return b.String()
}

// cell escapes text for a single Markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
