// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"smartcatalog/internal/catalog"
	"smartcatalog/internal/models"
	"smartcatalog/internal/store"
)

// Print serves the print-catalog layout tool. layoutCosts is configurable
// so the page budget can track the print stylesheet.
type Print struct {
	categories  *store.CategoryStore
	products    *store.ProductStore
	layoutCosts catalog.LayoutCosts
}

// NewPrint creates a new Print handler. pageCapacity <= 0 selects the
// default page budget.
func NewPrint(categories *store.CategoryStore, products *store.ProductStore, pageCapacity int) *Print {
	costs := catalog.DefaultLayoutCosts
	if pageCapacity > 0 {
		costs.PageCapacity = pageCapacity
	}
	return &Print{categories: categories, products: products, layoutCosts: costs}
}

// printResponse is the JSON reply for a print layout request.
type printResponse struct {
	Pages      []catalog.PrintPage       `json:"pages"`
	Pagination catalog.CatalogPagination `json:"pagination"`
}

// Layout builds the print catalog for an explicit category selection. The
// given ids are matched literally (the admin tool expands checkbox
// selections to descendants before calling): products come back in
// depth-first catalog order, grouped by main category and laid out into
// fixed-capacity pages.
func (p *Print) Layout(w http.ResponseWriter, r *http.Request) {
	cats, err := p.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	tree := catalog.NewTree(cats)

	costs := p.layoutCosts
	// Optional per-request page budget, so the print preview can match a
	// different paper size without a redeploy.
	if v, err := strconv.Atoi(r.URL.Query().Get("pageHeight")); err == nil && v > 0 {
		costs.PageCapacity = v
	}

	req := catalog.ParseCatalogRequest(r.URL.Query())
	products, err := p.products.ListByCategoryIDs(req.CategoryIDs)
	if err != nil {
		slog.Error("print listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	catalog.SortCatalog(products, tree)

	pages := catalog.Layout(products, tree, costs)
	if products == nil {
		products = []models.Product{}
	}

	writeJSON(w, http.StatusOK, printResponse{
		Pages: pages,
		Pagination: catalog.CatalogPagination{
			IsCatalogMode: true,
			TotalProducts: len(products),
		},
	})
}
