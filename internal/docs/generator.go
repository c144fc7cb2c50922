// Package docs renders HTML documentation for an open metadata archive.
package docs

import (
	"bytes"
	"fmt"
	"html/template"
	"path"
	"slices"
	"strings"

	"github.com/dnswlt/egeria/internal/archive"
	"github.com/dnswlt/egeria/internal/omrs"
	"github.com/dnswlt/egeria/internal/store"
	"github.com/yuin/goldmark"
)

// Properties shown in the page header rather than the property table.
var headerProperties = []string{"qualifiedName", "name", "displayName", "description"}

// Generator builds the documentation of a single archive.
type Generator struct {
	archive *archive.Archive
	byGUID  map[string]*omrs.EntityDetail
}

func NewGenerator(a *archive.Archive) *Generator {
	byGUID := make(map[string]*omrs.EntityDetail, len(a.Entities))
	for _, e := range a.Entities {
		byGUID[e.GUID] = e
	}
	return &Generator{archive: a, byGUID: byGUID}
}

type typeSummary struct {
	TypeName string
	Page     string
	Count    int
}

type property struct {
	Name  string
	Value string
}

type link struct {
	Relationship string
	Title        string
	URL          string
	Properties   []property
}

type entityDoc struct {
	GUID            string
	Title           string
	QualifiedName   string
	Description     template.HTML
	Properties      []property
	Classifications []string
	Links           []link
}

// TypePage returns the file name of the page for entities of typeName.
func TypePage(typeName string) string {
	return typeName + ".html"
}

// Generate writes index.html and one page per entity type to outputDir in st.
func (g *Generator) Generate(st store.Store, outputDir string) error {
	byType := make(map[string][]*omrs.EntityDetail)
	for _, e := range g.archive.Entities {
		byType[e.TypeName] = append(byType[e.TypeName], e)
	}
	typeNames := make([]string, 0, len(byType))
	for t := range byType {
		typeNames = append(typeNames, t)
	}
	slices.Sort(typeNames)

	var summaries []typeSummary
	for _, t := range typeNames {
		summaries = append(summaries, typeSummary{TypeName: t, Page: TypePage(t), Count: len(byType[t])})
	}
	description, err := markdown(g.archive.Header.Description)
	if err != nil {
		return err
	}
	index := struct {
		Header      archive.Header
		Description template.HTML
		Types       []typeSummary
	}{
		Header:      g.archive.Header,
		Description: description,
		Types:       summaries,
	}
	if err := g.render(st, path.Join(outputDir, "index.html"), indexTemplate, index); err != nil {
		return err
	}

	for _, t := range typeNames {
		entities := byType[t]
		slices.SortFunc(entities, func(a, b *omrs.EntityDetail) int {
			return strings.Compare(a.QualifiedName(), b.QualifiedName())
		})
		docs := make([]entityDoc, 0, len(entities))
		for _, e := range entities {
			d, err := g.entityDoc(e)
			if err != nil {
				return fmt.Errorf("entity %s: %w", e.QualifiedName(), err)
			}
			docs = append(docs, d)
		}
		page := struct {
			ArchiveName string
			TypeName    string
			Entities    []entityDoc
		}{
			ArchiveName: g.archive.Header.Name,
			TypeName:    t,
			Entities:    docs,
		}
		if err := g.render(st, path.Join(outputDir, TypePage(t)), typeTemplate, page); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) render(st store.Store, file string, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", tmpl.Name(), err)
	}
	if err := st.WriteFile(file, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	return nil
}

func title(e *omrs.EntityDetail) string {
	for _, name := range []string{"displayName", "name"} {
		if s, ok := e.Properties.GetString(name); ok && s != "" {
			return s
		}
	}
	return e.QualifiedName()
}

func properties(p *omrs.InstanceProperties, skip []string) []property {
	var result []property
	for _, name := range p.Names() {
		if slices.Contains(skip, name) {
			continue
		}
		v, _ := p.Get(name)
		result = append(result, property{Name: name, Value: v.String()})
	}
	return result
}

func (g *Generator) entityDoc(e *omrs.EntityDetail) (entityDoc, error) {
	d := entityDoc{
		GUID:          e.GUID,
		Title:         title(e),
		QualifiedName: e.QualifiedName(),
		Properties:    properties(e.Properties, headerProperties),
	}
	if desc, ok := e.Properties.GetString("description"); ok {
		html, err := markdown(desc)
		if err != nil {
			return d, err
		}
		d.Description = html
	}
	for _, c := range e.Classifications {
		d.Classifications = append(d.Classifications, c.Name)
	}
	for _, r := range g.archive.Relationships {
		if r.End1GUID != e.GUID && r.End2GUID != e.GUID {
			continue
		}
		l := link{Relationship: r.TypeName, Properties: properties(r.Properties, nil)}
		if other, ok := g.byGUID[r.OtherEnd(e.GUID)]; ok {
			l.Title = title(other)
			l.URL = TypePage(other.TypeName) + "#" + other.GUID
		} else {
			l.Title = r.OtherEnd(e.GUID)
		}
		d.Links = append(d.Links, l)
	}
	return d, nil
}

func markdown(input string) (template.HTML, error) {
	if input == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(input), &buf); err != nil {
		return "", fmt.Errorf("failed to process markdown: %v", err)
	}
	return template.HTML(buf.String()), nil
}

// Templates

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<!-- Auto-generated by egeria gen-docs. DO NOT EDIT. -->
<html>
<head><meta charset="utf-8"><title>{{ .Header.Name }}</title></head>
<body>
<h1>{{ .Header.Name }}</h1>
<p>Version {{ .Header.Version }} ({{ .Header.Type }}), created by {{ .Header.Originator }} on {{ .Header.CreationDate.Format "2006-01-02" }}.</p>
{{ .Description }}
<h2>Types</h2>
<ul>
{{ range .Types -}}
<li><a href="{{ .Page }}">{{ .TypeName }}</a> ({{ .Count }})</li>
{{ end -}}
</ul>
</body>
</html>
`))

var typeTemplate = template.Must(template.New("type").Parse(`<!DOCTYPE html>
<!-- Auto-generated by egeria gen-docs. DO NOT EDIT. -->
<html>
<head><meta charset="utf-8"><title>{{ .TypeName }} - {{ .ArchiveName }}</title></head>
<body>
<p><a href="index.html">{{ .ArchiveName }}</a></p>
<h1>{{ .TypeName }}</h1>
{{ range .Entities }}
<section id="{{ .GUID }}">
<h2>{{ .Title }}</h2>
<p><code>{{ .QualifiedName }}</code></p>
{{ .Description }}
{{- if .Classifications }}
<p>Classifications: {{ range $i, $c := .Classifications }}{{ if $i }}, {{ end }}{{ $c }}{{ end }}</p>
{{- end }}
{{- if .Properties }}
<table>
{{ range .Properties -}}
<tr><th>{{ .Name }}</th><td>{{ .Value }}</td></tr>
{{ end -}}
</table>
{{- end }}
{{- if .Links }}
<ul>
{{ range .Links -}}
<li>{{ .Relationship }}: {{ if .URL }}<a href="{{ .URL }}">{{ .Title }}</a>{{ else }}{{ .Title }}{{ end }}{{ range .Properties }} <em>{{ .Name }}={{ .Value }}</em>{{ end }}</li>
{{ end -}}
</ul>
{{- end }}
</section>
{{ end }}
</body>
</html>
`))
