package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/lenses/backend/internal/domain/document"
)

const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
<h1 class="doc-title">{{.Title}}</h1>
{{- range .Sections}}
{{- if eq .Type "heading"}}
<h2>{{.Text}}</h2>
{{- else if eq .Type "meta"}}
<table class="meta">
{{- range .Fields}}
<tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>
{{- end}}
</table>
{{- else if eq .Type "table"}}
<table class="grid">
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
{{- else if eq .Type "list"}}
<ul>
{{- range .Items}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- else if eq .Type "text"}}
<p>{{lines .Text}}</p>
{{- end}}
{{- end}}
</body>
</html>
`

const defaultCSS = `body{font-family:"Helvetica Neue",Arial,sans-serif;font-size:11pt;color:#222;margin:0}
h1.doc-title{font-size:20pt;margin:0 0 12pt}
h2{font-size:13pt;margin:16pt 0 6pt;border-bottom:1px solid #ccc;padding-bottom:2pt}
table{border-collapse:collapse;width:100%;margin:4pt 0 8pt}
table.meta th{text-align:left;width:30%;font-weight:600;padding:2pt 8pt 2pt 0;vertical-align:top}
table.meta td{padding:2pt 0}
table.grid th,table.grid td{border:1px solid #ccc;padding:4pt 6pt;text-align:left;vertical-align:top}
table.grid thead th{background:#f3f3f3}
tr{page-break-inside:avoid}
ul{margin:4pt 0 8pt;padding-left:18pt}
p{margin:4pt 0 8pt}`

// HTMLRenderer renders a section sequence as a standalone HTML document.
// All record content is escaped; line breaks in text sections are kept.
type HTMLRenderer struct {
	tmpl *template.Template
	css  template.CSS
}

// NewHTMLRenderer creates a renderer with the built-in stylesheet
func NewHTMLRenderer() *HTMLRenderer {
	return NewHTMLRendererWithCSS(defaultCSS)
}

// NewHTMLRendererWithCSS creates a renderer with a custom stylesheet. The CSS is
// trusted operator configuration and is not escaped.
func NewHTMLRendererWithCSS(css string) *HTMLRenderer {
	tmpl := template.Must(template.New("document").Funcs(template.FuncMap{
		"lines": textLines,
	}).Parse(documentTemplate))
	return &HTMLRenderer{tmpl: tmpl, css: template.CSS(css)} //nolint:gosec // operator supplied
}

// Render produces the HTML document. Sections must satisfy document.Validate.
func (r *HTMLRenderer) Render(title string, sections []document.Section) (string, error) {
	if err := document.Validate(sections); err != nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "invalid section sequence", err)
	}
	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, struct {
		Title    string
		CSS      template.CSS
		Sections []document.Section
	}{
		Title:    strings.TrimSpace(title),
		CSS:      r.css,
		Sections: sections,
	})
	if err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, fmt.Sprintf("execute template for %q", title), err)
	}
	return buf.String(), nil
}

// textLines escapes s and joins its lines with <br>
func textLines(s string) template.HTML {
	parts := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, p := range parts {
		parts[i] = template.HTMLEscapeString(p)
	}
	return template.HTML(strings.Join(parts, "<br>\n")) //nolint:gosec // every part is escaped above
}
