// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"testing"

	"smartcatalog/internal/models"
)

// layoutTree builds the standard fixture for layout tests:
//
//	1 Root
//	├── 2 Main A
//	│   └── 3 Sub A1
//	└── 4 Main B
func layoutTree() *Tree {
	return NewTree([]models.Category{
		cat(1, 0, 0, "Root"),
		cat(2, 1, 0, "Main A"),
		cat(3, 2, 0, "Sub A1"),
		cat(4, 1, 1, "Main B"),
	})
}

func product(id, categoryID int64) models.Product {
	return models.Product{ID: id, CategoryID: categoryID}
}

// collectUnits flattens all pages into one unit sequence.
func collectUnits(pages []PrintPage) []LayoutUnit {
	var units []LayoutUnit
	for _, page := range pages {
		units = append(units, page.Units...)
	}
	return units
}

// TestLayoutGrouping verifies grouping by main category in first-encounter
// order, with one heading per group and product order preserved.
func TestLayoutGrouping(t *testing.T) {
	tree := layoutTree()
	products := []models.Product{
		product(1, 3), // Main A (via Sub A1)
		product(2, 4), // Main B
		product(3, 2), // Main A
		product(4, 4), // Main B
	}

	pages := Layout(products, tree, LayoutCosts{PageCapacity: 10000, HeadingCost: 1, ProductCost: 1})
	units := collectUnits(pages)

	type step struct {
		kind    UnitKind
		heading string
		id      int64
	}
	want := []step{
		{UnitHeading, "Root - Main A", 0},
		{UnitProduct, "", 1},
		{UnitProduct, "", 3},
		{UnitHeading, "Root - Main B", 0},
		{UnitProduct, "", 2},
		{UnitProduct, "", 4},
	}

	if len(units) != len(want) {
		t.Fatalf("got %d units, want %d: %+v", len(units), len(want), units)
	}
	for i, w := range want {
		u := units[i]
		if u.Kind != w.kind {
			t.Errorf("unit %d kind = %q, want %q", i, u.Kind, w.kind)
			continue
		}
		if w.kind == UnitHeading && u.Heading != w.heading {
			t.Errorf("unit %d heading = %q, want %q", i, u.Heading, w.heading)
		}
		if w.kind == UnitProduct && u.Product.ID != w.id {
			t.Errorf("unit %d product = %d, want %d", i, u.Product.ID, w.id)
		}
	}
}

// TestLayoutUnclassifiedLast verifies that products with unresolvable
// categories land in a trailing group without a heading.
func TestLayoutUnclassifiedLast(t *testing.T) {
	tree := layoutTree()
	products := []models.Product{
		product(1, 999), // unresolvable, first in input
		product(2, 2),
	}

	units := collectUnits(Layout(products, tree, LayoutCosts{PageCapacity: 10000, HeadingCost: 1, ProductCost: 1}))

	if len(units) != 3 {
		t.Fatalf("got %d units: %+v", len(units), units)
	}
	if units[0].Kind != UnitHeading || units[1].Product.ID != 2 {
		t.Errorf("classified group not first: %+v", units)
	}
	if units[2].Kind != UnitProduct || units[2].Product.ID != 1 {
		t.Errorf("unclassified product not last: %+v", units[2])
	}
}

// TestLayoutPageOverflow verifies the capacity accumulator: a unit that
// would overflow moves alone to a fresh page, and page numbers run 1..N.
func TestLayoutPageOverflow(t *testing.T) {
	tree := layoutTree()
	products := []models.Product{
		product(1, 2),
		product(2, 2),
		product(3, 2),
	}

	// Heading 2 + product 4 each; capacity 10 fits heading + 2 products.
	pages := Layout(products, tree, LayoutCosts{PageCapacity: 10, HeadingCost: 2, ProductCost: 4})

	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if len(pages[0].Units) != 3 {
		t.Errorf("page 1 has %d units, want 3 (heading + 2 products)", len(pages[0].Units))
	}
	if len(pages[1].Units) != 1 || pages[1].Units[0].Product.ID != 3 {
		t.Errorf("page 2 = %+v, want just product 3", pages[1].Units)
	}
	for i, page := range pages {
		if page.Number != i+1 {
			t.Errorf("page %d numbered %d", i, page.Number)
		}
	}
}

// TestLayoutHeadingMovesAlone verifies that only the heading moves to the
// fresh page when it overflows, not the group before it.
func TestLayoutHeadingMovesAlone(t *testing.T) {
	tree := layoutTree()
	products := []models.Product{
		product(1, 2), // group Main A
		product(2, 4), // group Main B — its heading must overflow
	}

	// heading 3 + product 4 = 7; second heading would hit 10 > 9.
	pages := Layout(products, tree, LayoutCosts{PageCapacity: 9, HeadingCost: 3, ProductCost: 4})

	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if got := pages[0].Units; len(got) != 2 || got[1].Product.ID != 1 {
		t.Errorf("page 1 = %+v", got)
	}
	if got := pages[1].Units; len(got) != 2 || got[0].Kind != UnitHeading || got[1].Product.ID != 2 {
		t.Errorf("page 2 = %+v", got)
	}
}

// TestLayoutNeverDrops verifies that every product appears exactly once
// regardless of capacity pressure.
func TestLayoutNeverDrops(t *testing.T) {
	tree := layoutTree()
	var products []models.Product
	for i := int64(1); i <= 37; i++ {
		categoryID := int64(2 + i%3) // spread across 2, 3, 4
		products = append(products, product(i, categoryID))
	}

	pages := Layout(products, tree, LayoutCosts{PageCapacity: 7, HeadingCost: 3, ProductCost: 4})

	seen := make(map[int64]int)
	for _, u := range collectUnits(pages) {
		if u.Kind == UnitProduct {
			seen[u.Product.ID]++
		}
	}
	if len(seen) != 37 {
		t.Fatalf("placed %d distinct products, want 37", len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("product %d placed %d times", id, n)
		}
	}
}

// TestLayoutOversizedUnit verifies that a unit taller than an empty page
// still lands on a page instead of looping or vanishing.
func TestLayoutOversizedUnit(t *testing.T) {
	tree := layoutTree()
	products := []models.Product{product(1, 2)}

	pages := Layout(products, tree, LayoutCosts{PageCapacity: 1, HeadingCost: 5, ProductCost: 5})

	units := collectUnits(pages)
	if len(units) != 2 {
		t.Fatalf("got %d units, want heading + product", len(units))
	}
}

func TestLayoutFirstPageExists(t *testing.T) {
	pages := Layout(nil, layoutTree(), DefaultLayoutCosts)
	if len(pages) != 1 || pages[0].Number != 1 {
		t.Errorf("empty layout = %+v, want one empty page numbered 1", pages)
	}
}
