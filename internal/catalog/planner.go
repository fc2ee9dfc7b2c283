// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"smartcatalog/internal/models"
)

// Sort fields accepted by listing requests. Anything else falls back to
// SortUpdatedAt instead of erroring.
const (
	SortPrice     = "price"
	SortName      = "name"
	SortCreatedAt = "createdAt"
	SortUpdatedAt = "updatedAt"
)

const (
	// DefaultLimit is the page size when the request names none.
	DefaultLimit = 24

	// MaxLimit caps the page size a caller can request.
	MaxLimit = 100

	// CatalogRowCap bounds the bulk catalog-mode result set.
	CatalogRowCap = 500
)

// ListingRequest is a normalized single-category listing query: optional
// category filter, optional search, sort, and pagination.
type ListingRequest struct {
	CategoryID *int64
	Search     string
	SortBy     string
	Order      string // "asc" or "desc"
	Page       int
	Limit      int
	SearchEAN  bool // the public variant also matches ean13
}

// ParseListingRequest normalizes raw query parameters into a request.
// Invalid or missing values get defaults; nothing here returns an error.
// Page and limit are clamped so the plan can never produce a negative
// offset.
func ParseListingRequest(values url.Values) ListingRequest {
	req := ListingRequest{
		SortBy: SortUpdatedAt,
		Order:  "desc",
		Page:   1,
		Limit:  DefaultLimit,
	}

	if v := values.Get("categoryId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.CategoryID = &id
		}
	}

	req.Search = strings.TrimSpace(values.Get("search"))

	switch v := values.Get("sortBy"); v {
	case SortPrice, SortName, SortCreatedAt, SortUpdatedAt:
		req.SortBy = v
	}
	if values.Get("order") == "asc" {
		req.Order = "asc"
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page >= 1 {
		req.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit >= 1 {
		if limit > MaxLimit {
			limit = MaxLimit
		}
		req.Limit = limit
	}

	return req
}

// ListingPlan is the concrete, bounded fetch the store executes: a filter
// predicate, a whitelisted ordering, and a window. The same predicate
// drives both the row fetch and the total count.
type ListingPlan struct {
	CategoryIDs []int64 // empty means no category filter
	Search      string
	SearchEAN   bool
	SortBy      string // one of the Sort* constants
	Descending  bool
	Limit       int
	Offset      int
}

// Plan expands the category filter to its descendant-inclusive set and
// translates sort and pagination into fetch terms.
func (r ListingRequest) Plan(tree *Tree) ListingPlan {
	plan := ListingPlan{
		Search:     r.Search,
		SearchEAN:  r.SearchEAN,
		SortBy:     r.SortBy,
		Descending: r.Order != "asc",
		Limit:      r.Limit,
		Offset:     (r.Page - 1) * r.Limit,
	}
	if plan.Offset < 0 {
		plan.Offset = 0
	}
	if r.CategoryID != nil {
		plan.CategoryIDs = tree.DescendantIDs(*r.CategoryID)
	}
	return plan
}

// Pagination is the single-mode response pagination block. Totals are
// computed over the filtered set before the window is applied.
type Pagination struct {
	CurrentPage   int `json:"currentPage"`
	TotalPages    int `json:"totalPages"`
	TotalProducts int `json:"totalProducts"`
	Limit         int `json:"limit"`
}

// Paginate computes the pagination block from the pre-window total.
func (r ListingRequest) Paginate(total int) Pagination {
	pages := 0
	if total > 0 {
		pages = (total + r.Limit - 1) / r.Limit
	}
	return Pagination{
		CurrentPage:   r.Page,
		TotalPages:    pages,
		TotalProducts: total,
		Limit:         r.Limit,
	}
}

// CatalogRequest is the bulk multi-category export query. The given ids
// are matched literally: unlike single-category listings they are NOT
// expanded to their descendants, because the print tool expands checkbox
// selections client-side before calling the API.
type CatalogRequest struct {
	CategoryIDs []int64
}

// ParseCatalogRequest reads the comma-separated categoryIds parameter.
// Tokens that do not parse as integers are skipped. An empty id list is a
// valid request that yields an empty result, not an error.
func ParseCatalogRequest(values url.Values) CatalogRequest {
	var req CatalogRequest
	for _, tok := range strings.Split(values.Get("categoryIds"), ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			continue
		}
		req.CategoryIDs = append(req.CategoryIDs, id)
	}
	return req
}

// CatalogPagination tags a bulk export response. Catalog mode has no page
// window; TotalProducts is the returned (capped) count.
type CatalogPagination struct {
	IsCatalogMode bool `json:"isCatalogMode"`
	TotalProducts int  `json:"totalProducts"`
}

// SortCatalog orders catalog-mode products in depth-first catalog order:
// by the category's catalog sort key, then priced before unpriced, then
// by ascending price, with ids as the final tiebreaker.
func SortCatalog(products []models.Product, tree *Tree) {
	keys := make(map[int64]string, len(products))
	keyFor := func(p *models.Product) string {
		k, ok := keys[p.CategoryID]
		if !ok {
			k = tree.CatalogSortKey(p.CategoryID)
			keys[p.CategoryID] = k
		}
		return k
	}

	sort.SliceStable(products, func(i, j int) bool {
		a, b := &products[i], &products[j]
		if ka, kb := keyFor(a), keyFor(b); ka != kb {
			return ka < kb
		}
		if a.HasPrice() != b.HasPrice() {
			return a.HasPrice()
		}
		if a.HasPrice() && !a.Price.Decimal.Equal(b.Price.Decimal) {
			return a.Price.Decimal.LessThan(b.Price.Decimal)
		}
		return a.ID < b.ID
	})
}
