// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"smartcatalog/internal/catalog"
	"smartcatalog/internal/models"
	"smartcatalog/internal/store"
)

// API groups the public JSON endpoints consumed by the storefront's
// client-side widgets and by integrations.
type API struct {
	categories *store.CategoryStore
	products   *store.ProductStore
}

// NewAPI creates a new API handler group.
func NewAPI(categories *store.CategoryStore, products *store.ProductStore) *API {
	return &API{categories: categories, products: products}
}

// listingResponse is the single-category listing envelope.
type listingResponse struct {
	Products   []models.Product   `json:"products"`
	Pagination catalog.Pagination `json:"pagination"`
}

// catalogResponse is the bulk catalog-mode envelope.
type catalogResponse struct {
	Products   []models.Product          `json:"products"`
	Pagination catalog.CatalogPagination `json:"pagination"`
}

// Products serves product listings. With a categoryIds parameter the
// request runs in catalog mode: the listed ids are matched literally and
// the full (capped) result comes back in depth-first catalog order. All
// other requests are single-category listings with pagination; a
// categoryId filter includes the category's whole descendant set.
func (a *API) Products(w http.ResponseWriter, r *http.Request) {
	cats, err := a.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	tree := catalog.NewTree(cats)

	if r.URL.Query().Has("categoryIds") {
		a.catalogProducts(w, r, tree)
		return
	}

	req := catalog.ParseListingRequest(r.URL.Query())
	req.SearchEAN = true
	plan := req.Plan(tree)

	products, err := a.products.List(plan)
	if err != nil {
		slog.Error("product listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	total, err := a.products.Count(plan)
	if err != nil {
		slog.Error("product count failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	writeJSON(w, http.StatusOK, listingResponse{
		Products:   products,
		Pagination: req.Paginate(total),
	})
}

// catalogProducts handles the catalog-mode branch of Products.
func (a *API) catalogProducts(w http.ResponseWriter, r *http.Request, tree *catalog.Tree) {
	req := catalog.ParseCatalogRequest(r.URL.Query())

	products, err := a.products.ListByCategoryIDs(req.CategoryIDs)
	if err != nil {
		slog.Error("catalog listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	catalog.SortCatalog(products, tree)
	if products == nil {
		products = []models.Product{}
	}

	writeJSON(w, http.StatusOK, catalogResponse{
		Products: products,
		Pagination: catalog.CatalogPagination{
			IsCatalogMode: true,
			TotalProducts: len(products),
		},
	})
}

// Product serves a single product by id.
func (a *API) Product(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := a.products.FindByID(id)
	if err != nil {
		slog.Error("find product failed", "error", err, "product", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Categories serves the category forest as nested trees with product
// counts, ordered by sort order.
func (a *API) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := a.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	forest := catalog.NewTree(cats).Forest()
	if forest == nil {
		forest = []models.Category{}
	}
	writeJSON(w, http.StatusOK, forest)
}
