// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"smartcatalog/internal/models"
)

func TestParseListingRequestDefaults(t *testing.T) {
	req := ParseListingRequest(url.Values{})

	if req.CategoryID != nil {
		t.Errorf("CategoryID = %v, want nil", *req.CategoryID)
	}
	if req.SortBy != SortUpdatedAt {
		t.Errorf("SortBy = %q, want %q", req.SortBy, SortUpdatedAt)
	}
	if req.Order != "desc" {
		t.Errorf("Order = %q, want desc", req.Order)
	}
	if req.Page != 1 || req.Limit != DefaultLimit {
		t.Errorf("Page/Limit = %d/%d, want 1/%d", req.Page, req.Limit, DefaultLimit)
	}
}

// TestParseListingRequestInvalid verifies that junk values normalize to
// defaults instead of erroring, and can never produce a negative offset.
func TestParseListingRequestInvalid(t *testing.T) {
	values := url.Values{
		"categoryId": {"banana"},
		"sortBy":     {"DROP TABLE products"},
		"order":      {"sideways"},
		"page":       {"-3"},
		"limit":      {"0"},
	}
	req := ParseListingRequest(values)

	if req.CategoryID != nil {
		t.Errorf("CategoryID = %v, want nil", *req.CategoryID)
	}
	if req.SortBy != SortUpdatedAt || req.Order != "desc" {
		t.Errorf("sort fell through: %q %q", req.SortBy, req.Order)
	}
	if req.Page != 1 || req.Limit != DefaultLimit {
		t.Errorf("Page/Limit = %d/%d, want defaults", req.Page, req.Limit)
	}

	plan := req.Plan(NewTree(nil))
	if plan.Offset < 0 {
		t.Errorf("negative offset: %d", plan.Offset)
	}
}

func TestParseListingRequestClampsLimit(t *testing.T) {
	req := ParseListingRequest(url.Values{"limit": {"5000"}})
	if req.Limit != MaxLimit {
		t.Errorf("Limit = %d, want %d", req.Limit, MaxLimit)
	}
}

func TestParseListingRequestValid(t *testing.T) {
	values := url.Values{
		"categoryId": {"7"},
		"search":     {"  hammer "},
		"sortBy":     {"price"},
		"order":      {"asc"},
		"page":       {"3"},
		"limit":      {"12"},
	}
	req := ParseListingRequest(values)

	if req.CategoryID == nil || *req.CategoryID != 7 {
		t.Errorf("CategoryID = %v, want 7", req.CategoryID)
	}
	if req.Search != "hammer" {
		t.Errorf("Search = %q, want trimmed %q", req.Search, "hammer")
	}
	if req.SortBy != SortPrice || req.Order != "asc" {
		t.Errorf("sort = %q %q", req.SortBy, req.Order)
	}

	plan := req.Plan(NewTree(nil))
	if plan.Offset != 24 || plan.Limit != 12 {
		t.Errorf("window = limit %d offset %d, want 12/24", plan.Limit, plan.Offset)
	}
	if !reflect.DeepEqual(plan.CategoryIDs, []int64{7}) {
		t.Errorf("CategoryIDs = %v, want [7]", plan.CategoryIDs)
	}
}

// TestPlanExpandsDescendants verifies single-category mode expands the
// filter to the full descendant-inclusive set.
func TestPlanExpandsDescendants(t *testing.T) {
	tree := NewTree(sampleCategories())
	id := int64(1)
	req := ListingRequest{CategoryID: &id, SortBy: SortUpdatedAt, Order: "desc", Page: 1, Limit: 24}

	plan := req.Plan(tree)
	if got := sortedIDs(plan.CategoryIDs); !reflect.DeepEqual(got, []int64{1, 2, 3, 4}) {
		t.Errorf("expanded filter = %v, want [1 2 3 4]", got)
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		limit     int
		wantPages int
	}{
		{name: "exact fit", total: 48, limit: 24, wantPages: 2},
		{name: "partial last page", total: 49, limit: 24, wantPages: 3},
		{name: "single short page", total: 5, limit: 24, wantPages: 1},
		{name: "empty", total: 0, limit: 24, wantPages: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ListingRequest{Page: 1, Limit: tt.limit}
			p := req.Paginate(tt.total)
			if p.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages, tt.wantPages)
			}
			if p.TotalProducts != tt.total || p.Limit != tt.limit {
				t.Errorf("totals = %d/%d, want %d/%d", p.TotalProducts, p.Limit, tt.total, tt.limit)
			}
		})
	}
}

func TestParseCatalogRequest(t *testing.T) {
	req := ParseCatalogRequest(url.Values{"categoryIds": {"4, 2,junk,,9"}})
	if !reflect.DeepEqual(req.CategoryIDs, []int64{4, 2, 9}) {
		t.Errorf("CategoryIDs = %v, want [4 2 9]", req.CategoryIDs)
	}

	empty := ParseCatalogRequest(url.Values{})
	if len(empty.CategoryIDs) != 0 {
		t.Errorf("empty request parsed ids: %v", empty.CategoryIDs)
	}
}

// TestCatalogModeNoDescendantExpansion pins the asymmetry between the two
// listing modes: catalog mode matches the given ids literally and never
// expands them, because the print tool expands subtree selections
// client-side. Single-category mode on the same tree does expand.
func TestCatalogModeNoDescendantExpansion(t *testing.T) {
	tree := NewTree(sampleCategories())

	req := ParseCatalogRequest(url.Values{"categoryIds": {"1"}})
	if !reflect.DeepEqual(req.CategoryIDs, []int64{1}) {
		t.Fatalf("catalog ids = %v, want [1] exactly", req.CategoryIDs)
	}

	id := int64(1)
	single := ListingRequest{CategoryID: &id, Page: 1, Limit: 24}
	plan := single.Plan(tree)
	if len(plan.CategoryIDs) != 4 {
		t.Errorf("single mode expanded to %v, want all 4 descendants", plan.CategoryIDs)
	}
}

// priced builds a product with the given price; price 0 means unpriced.
func priced(id, categoryID int64, price float64) models.Product {
	p := models.Product{ID: id, CategoryID: categoryID}
	if price > 0 {
		p.Price = decimal.NewNullDecimal(decimal.NewFromFloat(price))
	}
	return p
}

// TestSortCatalogParentAfterChildren verifies the catalog ordering
// contract: all products under a parent's children come before products
// attached directly to the parent.
func TestSortCatalogParentAfterChildren(t *testing.T) {
	// 1 is the root; 2 has children 3 and 4.
	cats := []models.Category{
		cat(1, 0, 0, "Root"),
		cat(2, 1, 0, "Parent"),
		cat(3, 2, 0, "C1"),
		cat(4, 2, 1, "C2"),
	}
	tree := NewTree(cats)

	products := []models.Product{
		priced(1, 2, 10), // directly on the parent
		priced(2, 4, 10),
		priced(3, 2, 5), // directly on the parent
		priced(4, 3, 10),
	}
	SortCatalog(products, tree)

	var order []int64
	for _, p := range products {
		order = append(order, p.ID)
	}
	// C1 products, then C2 products, then the parent's own (price asc).
	want := []int64{4, 2, 3, 1}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("catalog order = %v, want %v", order, want)
	}
}

func TestSortCatalogUnpricedLast(t *testing.T) {
	cats := []models.Category{cat(1, 0, 0, "Root"), cat(2, 1, 0, "Leaf")}
	tree := NewTree(cats)

	products := []models.Product{
		priced(1, 2, 0),   // unpriced
		priced(2, 2, 9.5), // cheap
		priced(3, 2, 0),   // unpriced
		priced(4, 2, 20),
	}
	SortCatalog(products, tree)

	var order []int64
	for _, p := range products {
		order = append(order, p.ID)
	}
	want := []int64{2, 4, 1, 3}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("price order = %v, want %v", order, want)
	}
}

// TestSortCatalogDanglingCategory verifies that products with dangling
// category references sort to the end instead of breaking the sort.
func TestSortCatalogDanglingCategory(t *testing.T) {
	cats := []models.Category{cat(1, 0, 0, "Root"), cat(2, 1, 0, "Leaf")}
	tree := NewTree(cats)

	products := []models.Product{
		priced(1, 999, 5), // dangling
		priced(2, 2, 5),
	}
	SortCatalog(products, tree)

	if products[0].ID != 2 || products[1].ID != 1 {
		t.Errorf("dangling product did not sort last: %+v", products)
	}
}
