// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import "smartcatalog/internal/models"

// UnitKind distinguishes print layout units.
type UnitKind string

const (
	UnitHeading UnitKind = "heading"
	UnitProduct UnitKind = "product"
)

// LayoutUnit is one placed element of a print page: a group heading or a
// product card.
type LayoutUnit struct {
	Kind    UnitKind        `json:"kind"`
	Heading string          `json:"heading,omitempty"`
	Product *models.Product `json:"product,omitempty"`
}

// PrintPage is one fixed-capacity page of the print catalog.
type PrintPage struct {
	Number int          `json:"number"`
	Units  []LayoutUnit `json:"units"`
}

// LayoutCosts models page capacity in abstract height units. The print
// stylesheet renders at a fixed pixel budget per page; any monotonically
// summable metric produces the same placement decisions.
type LayoutCosts struct {
	PageCapacity int
	HeadingCost  int
	ProductCost  int
}

// DefaultLayoutCosts matches an A4 page at the storefront's card size.
var DefaultLayoutCosts = LayoutCosts{
	PageCapacity: 1100,
	HeadingCost:  60,
	ProductCost:  140,
}

// Layout lays an already-sorted catalog product list out into print pages.
// Products are grouped by main category in the order the groups are first
// encountered; products whose category cannot be resolved form a trailing
// unclassified group with no heading. Each group emits its heading and
// then its products in their existing relative order. A unit that would
// overflow the running page moves, alone, to a fresh page. No unit is ever
// dropped, and pages are numbered 1..N once placement is final.
func Layout(products []models.Product, tree *Tree, costs LayoutCosts) []PrintPage {
	if costs.PageCapacity <= 0 {
		costs = DefaultLayoutCosts
	}

	type group struct {
		heading  string
		products []models.Product
	}

	var groups []*group
	byMain := make(map[int64]*group)
	var unclassified *group

	for _, p := range products {
		main := tree.MainAncestor(p.CategoryID)
		if main == nil {
			if unclassified == nil {
				unclassified = &group{}
			}
			unclassified.products = append(unclassified.products, p)
			continue
		}
		g := byMain[main.ID]
		if g == nil {
			g = &group{heading: tree.DisplayPath(main.ID)}
			byMain[main.ID] = g
			groups = append(groups, g)
		}
		g.products = append(g.products, p)
	}
	if unclassified != nil {
		groups = append(groups, unclassified)
	}

	// The first page exists before any placement happens.
	pages := []PrintPage{{}}
	height := 0

	place := func(unit LayoutUnit, cost int) {
		// Tentatively add; on overflow move the unit to a fresh page.
		// A unit taller than an empty page still lands somewhere.
		if height+cost > costs.PageCapacity && len(pages[len(pages)-1].Units) > 0 {
			pages = append(pages, PrintPage{})
			height = 0
		}
		cur := &pages[len(pages)-1]
		cur.Units = append(cur.Units, unit)
		height += cost
	}

	for _, g := range groups {
		if g.heading != "" {
			place(LayoutUnit{Kind: UnitHeading, Heading: g.heading}, costs.HeadingCost)
		}
		for i := range g.products {
			p := g.products[i]
			place(LayoutUnit{Kind: UnitProduct, Product: &p}, costs.ProductCost)
		}
	}

	for i := range pages {
		pages[i].Number = i + 1
	}
	return pages
}
