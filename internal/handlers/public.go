// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the catalog. Handlers
// are grouped by concern (public storefront, public API, admin API) and
// receive their dependencies through the handler struct.
package handlers

import (
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"smartcatalog/internal/cache"
	"smartcatalog/internal/catalog"
	"smartcatalog/internal/markdown"
	"smartcatalog/internal/render"
	"smartcatalog/internal/store"
)

// latestProductCount is how many products the homepage shows.
const latestProductCount = 12

// Public groups the server-rendered storefront handlers. Every page checks
// the Valkey page cache before touching the database, and stores its
// rendered result on miss.
type Public struct {
	categories *store.CategoryStore
	products   *store.ProductStore
	renderer   *render.Renderer
	pageCache  *cache.PageCache
}

// NewPublic creates a new Public handler group.
func NewPublic(categories *store.CategoryStore, products *store.ProductStore, renderer *render.Renderer, pageCache *cache.PageCache) *Public {
	return &Public{
		categories: categories,
		products:   products,
		renderer:   renderer,
		pageCache:  pageCache,
	}
}

// servePage renders the named template and writes it, caching the result
// under the request key. Cache lookups happen in the caller so handlers
// can skip their DB work entirely on a hit.
func (p *Public) servePage(w http.ResponseWriter, r *http.Request, name string, data *render.PageData) {
	out, err := p.renderer.Render(name, data)
	if err != nil {
		slog.Error("page render failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	p.pageCache.Set(r.Context(), cache.RequestKey(r.URL.Path, r.URL.RawQuery), out)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(out)
}

// serveCached writes the cached page for this request if present.
func (p *Public) serveCached(w http.ResponseWriter, r *http.Request) bool {
	cached, ok := p.pageCache.Get(r.Context(), cache.RequestKey(r.URL.Path, r.URL.RawQuery))
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(cached)
	return true
}

// loadTree fetches the category snapshot and builds the resolution tree.
// Each request gets its own snapshot; the tree is never shared or mutated
// across requests.
func (p *Public) loadTree() (*catalog.Tree, error) {
	cats, err := p.categories.List()
	if err != nil {
		return nil, err
	}
	return catalog.NewTree(cats), nil
}

// Home renders the homepage: the category forest plus either the latest
// products or, when a search term is present, search results across the
// whole catalog.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	if p.serveCached(w, r) {
		return
	}

	tree, err := p.loadTree()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Categories": tree.FlatForest(),
	}

	req := catalog.ParseListingRequest(r.URL.Query())
	if req.Search != "" {
		req.SearchEAN = true
		plan := req.Plan(tree)
		products, err := p.products.List(plan)
		if err != nil {
			slog.Error("search listing failed", "error", err, "search", req.Search)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		total, err := p.products.Count(plan)
		if err != nil {
			slog.Error("search count failed", "error", err, "search", req.Search)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		data["Search"] = req.Search
		data["Products"] = products
		data["Pagination"] = req.Paginate(total)
	} else {
		latest, err := p.products.ListLatest(latestProductCount)
		if err != nil {
			slog.Error("list latest products failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		data["Latest"] = latest
	}

	p.servePage(w, r, "home", &render.PageData{Title: "SmartCatalog", Data: data})
}

// CategoryPage renders a category listing: subcategories, then the
// products of the category and all its descendants, paginated.
func (p *Public) CategoryPage(w http.ResponseWriter, r *http.Request) {
	if p.serveCached(w, r) {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	tree, err := p.loadTree()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	cat := tree.Category(id)
	if cat == nil {
		http.NotFound(w, r)
		return
	}

	req := catalog.ParseListingRequest(r.URL.Query())
	req.CategoryID = &id
	plan := req.Plan(tree)

	products, err := p.products.List(plan)
	if err != nil {
		slog.Error("category listing failed", "error", err, "category", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	total, err := p.products.Count(plan)
	if err != nil {
		slog.Error("category count failed", "error", err, "category", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	pagination := req.Paginate(total)

	p.servePage(w, r, "category", &render.PageData{
		Title: cat.Name,
		Data: map[string]any{
			"Category":   cat,
			"Path":       tree.DisplayPath(id),
			"Children":   tree.Children(id),
			"SortBy":     req.SortBy,
			"Order":      req.Order,
			"Products":   products,
			"Pagination": pagination,
			"PrevURL":    pageURL(r.URL, req.Page-1),
			"NextURL":    pageURL(r.URL, req.Page+1),
		},
	})
}

// ProductPage renders a product detail page with its Markdown description
// converted to HTML.
func (p *Public) ProductPage(w http.ResponseWriter, r *http.Request) {
	if p.serveCached(w, r) {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	product, err := p.products.FindByID(id)
	if err != nil {
		slog.Error("find product failed", "error", err, "product", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if product == nil {
		http.NotFound(w, r)
		return
	}

	tree, err := p.loadTree()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	descHTML, err := markdown.ToHTML(product.Description)
	if err != nil {
		slog.Warn("description markdown failed", "error", err, "product", id)
		descHTML = ""
	}

	p.servePage(w, r, "product", &render.PageData{
		Title: product.Name,
		Data: map[string]any{
			"Product":         product,
			"Path":            tree.DisplayPath(product.CategoryID),
			"DescriptionHTML": template.HTML(descHTML),
		},
	})
}

// pageURL rebuilds the request URL with a different page number.
func pageURL(u *url.URL, page int) string {
	if page < 1 {
		page = 1
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	out := url.URL{Path: u.Path, RawQuery: q.Encode()}
	return out.String()
}
