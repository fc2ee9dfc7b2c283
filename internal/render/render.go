// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the storefront.
// Pages render to a byte slice first so the result can be stored in the
// page cache before being written to the client.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"smartcatalog/internal/models"
)

//go:embed templates/site/*.html
var siteFS embed.FS

// PageData holds all data passed to storefront templates.
type PageData struct {
	Title string         // Page title for <title> tag
	Data  map[string]any // Page-specific data
}

// Renderer handles template parsing and execution for storefront pages.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// New creates a Renderer by parsing all site templates from the embedded
// filesystem. Each page template is paired with the base layout.
func New() (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			// deref safely dereferences a string pointer for use in templates.
			"deref": func(s *string) string {
				if s == nil {
					return ""
				}
				return *s
			},
			// money formats a nullable price, or a pending marker when the
			// product has no usable price yet.
			"money": func(p decimal.NullDecimal) string {
				if !p.Valid || !p.Decimal.IsPositive() {
					return "price pending"
				}
				return p.Decimal.StringFixed(2)
			},
			// catIndent returns a category name with non-breaking space
			// indentation based on depth. Used for hierarchical listings.
			"catIndent": func(depth int, name string) string {
				if depth == 0 {
					return name
				}
				return strings.Repeat("    ", depth) + name
			},
			// cover returns the first image URL of a product, or "".
			// Range variables are not addressable, so pointer-receiver
			// methods need a helper.
			"cover": func(p models.Product) string {
				return p.CoverImage()
			},
		},
	}

	entries, err := siteFS.ReadDir("templates/site")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	// Parse each page template paired with the base layout.
	for _, e := range entries {
		if e.IsDir() || e.Name() == "base.html" {
			continue
		}
		name := e.Name()
		tmplName := strings.TrimSuffix(name, ".html")

		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(
			siteFS, "templates/site/base.html", "templates/site/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[tmplName] = tmpl
	}

	return r, nil
}

// Render executes the named page template into a byte slice. Rendering to
// memory first keeps a half-written page out of the response (and out of
// the cache) when template execution fails.
func (rn *Renderer) Render(name string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
