// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog implements the category-tree resolution and product
// listing engine: descendant expansion over the category forest, the
// depth-first sort paths used to order the print catalog, listing query
// planning, and the print page layout.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"smartcatalog/internal/models"
)

// Tree is an immutable, request-scoped snapshot of the category forest,
// indexed for descendant expansion and path computation. It is rebuilt
// from the flat category list on every request; nothing is cached across
// requests.
type Tree struct {
	byID     map[int64]*models.Category
	children map[int64][]*models.Category
	roots    []*models.Category
}

// NewTree indexes a flat category list. Categories whose parent id does
// not resolve to any existing category are treated as additional roots
// rather than silently dropped.
func NewTree(categories []models.Category) *Tree {
	t := &Tree{
		byID:     make(map[int64]*models.Category, len(categories)),
		children: make(map[int64][]*models.Category),
	}

	for i := range categories {
		c := &categories[i]
		t.byID[c.ID] = c
	}

	for i := range categories {
		c := &categories[i]
		if c.IsRoot() {
			t.roots = append(t.roots, c)
			continue
		}
		if _, ok := t.byID[*c.ParentID]; !ok {
			// Dangling parent reference: promote to root.
			t.roots = append(t.roots, c)
			continue
		}
		t.children[*c.ParentID] = append(t.children[*c.ParentID], c)
	}

	sortSiblings(t.roots)
	for _, siblings := range t.children {
		sortSiblings(siblings)
	}
	return t
}

// sortSiblings orders categories by sort order, with ids breaking ties so
// the order is deterministic even when sort orders collide.
func sortSiblings(cats []*models.Category) {
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].SortOrder != cats[j].SortOrder {
			return cats[i].SortOrder < cats[j].SortOrder
		}
		return cats[i].ID < cats[j].ID
	})
}

// Category returns the category with the given id, or nil.
func (t *Tree) Category(id int64) *models.Category {
	return t.byID[id]
}

// Children returns the direct children of a category in sibling order.
func (t *Tree) Children(id int64) []models.Category {
	kids := t.children[id]
	if len(kids) == 0 {
		return nil
	}
	result := make([]models.Category, len(kids))
	for i, c := range kids {
		result[i] = *c
	}
	return result
}

// Len returns the number of categories in the snapshot.
func (t *Tree) Len() int {
	return len(t.byID)
}

// DescendantIDs returns id plus every category transitively reachable
// through child links, in breadth-first order. The result always contains
// id, even when it does not resolve to a stored category, so a dangling
// filter still matches by literal equality. Visited-set bookkeeping makes
// the walk terminate on cyclic or self-referential parent data.
func (t *Tree) DescendantIDs(id int64) []int64 {
	visited := map[int64]bool{id: true}
	ids := []int64{id}
	queue := []int64{id}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range t.children[cur] {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			ids = append(ids, child.ID)
			queue = append(queue, child.ID)
		}
	}
	return ids
}

// pathTo returns the categories from root down to id. Dangling parents
// truncate the path at the last resolvable node; a visited set stops the
// climb on cyclic data.
func (t *Tree) pathTo(id int64) []*models.Category {
	c := t.byID[id]
	if c == nil {
		return nil
	}

	visited := make(map[int64]bool)
	var rev []*models.Category
	for c != nil && !visited[c.ID] {
		visited[c.ID] = true
		rev = append(rev, c)
		if c.ParentID == nil {
			break
		}
		c = t.byID[*c.ParentID]
	}

	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// SortPath returns a lexicographically sortable key encoding the node's
// position in the forest: zero-padded sibling sort orders from the root
// down, e.g. "0002_0000". Used purely as a sort key, never displayed.
// Returns "" when id does not resolve.
func (t *Tree) SortPath(id int64) string {
	path := t.pathTo(id)
	if len(path) == 0 {
		return ""
	}
	parts := make([]string, len(path))
	for i, c := range path {
		parts[i] = fmt.Sprintf("%04d", c.SortOrder)
	}
	return strings.Join(parts, "_")
}

// CatalogSortKey orders products for the print catalog. It is the sort
// path, with a suffix sorting after any zero-padded segment appended when
// the category has children: a parent's own products then trail every
// product filed under its children. Unresolvable categories sort last.
func (t *Tree) CatalogSortKey(id int64) string {
	path := t.SortPath(id)
	if path == "" {
		return "~"
	}
	if len(t.children[id]) > 0 {
		return path + "_~"
	}
	return path
}

// MainAncestor returns the top-level category a node is grouped under in
// print and export listings: the ancestor sitting directly below a forest
// root. A root is its own main ancestor, as is a category whose parent id
// does not resolve. Returns nil only when id itself does not resolve.
func (t *Tree) MainAncestor(id int64) *models.Category {
	cur := t.byID[id]
	if cur == nil {
		return nil
	}

	visited := map[int64]bool{cur.ID: true}
	for {
		if cur.ParentID == nil {
			return cur
		}
		parent := t.byID[*cur.ParentID]
		if parent == nil {
			// Dangling parent acts as a root.
			return cur
		}
		if parent.ParentID == nil {
			return cur
		}
		if visited[parent.ID] {
			// Cyclic data: stop where we are rather than loop.
			return cur
		}
		visited[parent.ID] = true
		cur = parent
	}
}

// DisplayPath returns the root-to-node category names joined with " - ",
// e.g. "Sporting Goods - Basketballs". Used for page titles and print
// group headings.
func (t *Tree) DisplayPath(id int64) string {
	path := t.pathTo(id)
	names := make([]string, len(path))
	for i, c := range path {
		names[i] = c.Name
	}
	return strings.Join(names, " - ")
}

// Forest returns the categories as nested trees ordered by sort order,
// with Depth set on every node for indentation.
func (t *Tree) Forest() []models.Category {
	return t.buildLevel(t.roots, 0)
}

// buildLevel copies one sibling level into value nodes, recursing into
// children. Nodes on a parent cycle are unreachable from any root, so the
// recursion always terminates.
func (t *Tree) buildLevel(level []*models.Category, depth int) []models.Category {
	var result []models.Category
	for _, c := range level {
		node := *c
		node.Depth = depth
		node.Children = t.buildLevel(t.children[c.ID], depth+1)
		result = append(result, node)
	}
	return result
}

// FlatForest returns the forest flattened depth-first, with Depth set.
// Useful for hierarchical <select> dropdowns and the admin category list.
func (t *Tree) FlatForest() []models.Category {
	var result []models.Category
	flatten(t.Forest(), &result)
	return result
}

// flatten walks a category forest depth-first, appending to result.
func flatten(cats []models.Category, result *[]models.Category) {
	for _, c := range cats {
		children := c.Children
		c.Children = nil
		*result = append(*result, c)
		if len(children) > 0 {
			flatten(children, result)
		}
	}
}
