// Package render turns board records into HTML fragments.
//
// Every record field passes through html/template, so markup, quotes and
// script in imported data are escaped for the context they land in.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/okian/eventboard/internal/domain/labels"
	"github.com/okian/eventboard/internal/domain/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer maps records to display fragments.
type Renderer struct {
	tmpl    *template.Template
	catalog *labels.Catalog
}

// fragmentView is what the fragment template sees.
type fragmentView struct {
	model.Record
	CategoryLabel string
	CategoryClass string
	CategoryColor string
	StatusLabel   string
	StatusClass   string
	StatusColor   string
}

// New parses the embedded templates and binds them to catalog.
func New(catalog *labels.Catalog) (*Renderer, error) {
	if catalog == nil {
		return nil, fmt.Errorf("render: nil catalog")
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("render: parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, catalog: catalog}, nil
}

// Fragment renders a single record.
func (r *Renderer) Fragment(rec model.Record) (template.HTML, error) {
	view := fragmentView{
		Record:        rec,
		CategoryLabel: r.catalog.CategoryLabel(rec.Category),
		CategoryClass: labels.CategoryClass(rec.Category),
		CategoryColor: labels.CategoryColor(rec.Category),
		StatusLabel:   r.catalog.StatusLabel(rec.Status),
		StatusClass:   labels.StatusClass(rec.Status),
		StatusColor:   labels.StatusColor(rec.Status),
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "fragment", view); err != nil {
		return "", fmt.Errorf("render: record %d: %w", rec.ID, err)
	}
	// The template escaped every field; the result is trusted markup.
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}

// Render renders records in order, one fragment each.
func (r *Renderer) Render(records []model.Record) ([]template.HTML, error) {
	out := make([]template.HTML, 0, len(records))
	for _, rec := range records {
		frag, err := r.Fragment(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, frag)
	}
	return out, nil
}
