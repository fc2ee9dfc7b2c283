// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Category is one node of the catalog's category forest. A nil ParentID
// marks a root; SortOrder positions the category among siblings sharing
// the same parent.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parentId"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Virtual fields populated by catalog.Tree when building a forest.
	Children     []Category `json:"children,omitempty"`
	Depth        int        `json:"depth"`
	ProductCount int        `json:"productCount"`
}

// IsRoot reports whether the category sits at the top of its tree.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
