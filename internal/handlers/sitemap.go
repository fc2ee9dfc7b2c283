// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"smartcatalog/internal/store"
)

// Sitemap serves the storefront sitemap.xml: the homepage, every category
// page, and every product page.
type Sitemap struct {
	categories *store.CategoryStore
	products   *store.ProductStore
	siteURL    string
}

// NewSitemap creates a new Sitemap handler. siteURL is the canonical base
// URL without a trailing slash.
func NewSitemap(categories *store.CategoryStore, products *store.ProductStore, siteURL string) *Sitemap {
	return &Sitemap{
		categories: categories,
		products:   products,
		siteURL:    strings.TrimRight(siteURL, "/"),
	}
}

// sitemapURL is one <url> entry of the sitemap.
type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// urlSet is the sitemap <urlset> document root.
type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Serve writes the sitemap document.
func (s *Sitemap) Serve(w http.ResponseWriter, r *http.Request) {
	cats, err := s.categories.List()
	if err != nil {
		slog.Error("sitemap category list failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	products, err := s.products.ListAll()
	if err != nil {
		slog.Error("sitemap product list failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  []sitemapURL{{Loc: s.siteURL + "/"}},
	}
	for _, c := range cats {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     fmt.Sprintf("%s/category/%d", s.siteURL, c.ID),
			LastMod: c.UpdatedAt.Format(time.RFC3339),
		})
	}
	for _, p := range products {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     fmt.Sprintf("%s/product/%d", s.siteURL, p.ID),
			LastMod: p.UpdatedAt.Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(set); err != nil {
		slog.Error("sitemap encode failed", "error", err)
	}
}
