// Package router sets up all HTTP routes and middleware chains for the
// catalog. It organizes routes into storefront, public API, and admin API
// groups with appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"smartcatalog/internal/handlers"
	"smartcatalog/internal/middleware"
	"smartcatalog/web"
)

// Deps carries the handler groups the router wires up.
type Deps struct {
	Public      *handlers.Public
	API         *handlers.API
	Admin       *handlers.Admin
	Print       *handlers.Print
	Import      *handlers.Import
	Sitemap     *handlers.Sitemap
	RateLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check.
	r.Get("/health", healthHandler)

	// Static assets.
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	// Server-rendered storefront.
	r.Get("/", d.Public.Home)
	r.Get("/category/{id}", d.Public.CategoryPage)
	r.Get("/product/{id}", d.Public.ProductPage)
	r.Get("/sitemap.xml", d.Sitemap.Serve)

	// Public JSON API — rate limited.
	r.Route("/api", func(r chi.Router) {
		r.Use(d.RateLimiter.Middleware)
		r.Get("/products", d.API.Products)
		r.Get("/products/{id}", d.API.Product)
		r.Get("/categories", d.API.Categories)
	})

	// Admin JSON API. Authentication is terminated upstream by the
	// deployment's reverse proxy.
	r.Route("/admin/api", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Admin.CategoryList)
			r.Post("/", d.Admin.CategoryCreate)
			r.Post("/reorder", d.Admin.CategoryReorder)
			r.Put("/{id}", d.Admin.CategoryUpdate)
			r.Delete("/{id}", d.Admin.CategoryDelete)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", d.Admin.ProductList)
			r.Post("/", d.Admin.ProductCreate)
			r.Put("/{id}", d.Admin.ProductUpdate)
			r.Delete("/{id}", d.Admin.ProductDelete)
		})

		r.Post("/upload", d.Admin.Upload)
		r.Post("/import", d.Import.Run)
		r.Get("/print", d.Print.Layout)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
