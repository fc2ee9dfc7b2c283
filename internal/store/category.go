// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"smartcatalog/internal/models"
)

// ErrCategoryInUse is returned when deleting a category that still has
// child categories or referencing products.
var ErrCategoryInUse = errors.New("category has children or products")

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, parent_id, sort_order, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by sort_order, with product counts.
// This is the per-request snapshot every catalog.Tree is built from.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.parent_id, c.sort_order,
		       c.created_at, c.updated_at,
		       COUNT(p.id) AS product_count
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.sort_order, c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.ParentID, &c.SortOrder,
			&c.CreatedAt, &c.UpdatedAt,
			&c.ProductCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id int64) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it. Callers assign SortOrder
// via NextSortOrder so new categories land after their siblings.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, parent_id, sort_order)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		c.Name, c.ParentID, c.SortOrder,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category (rename, reparent, reorder). The
// refreshed updated_at is scanned back into c so callers echo the stored
// timestamp, not the one they read before the write.
func (s *CategoryStore) Update(c *models.Category) error {
	err := s.db.QueryRow(`
		UPDATE categories SET
			name = $1, parent_id = $2, sort_order = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`, c.Name, c.ParentID, c.SortOrder, c.ID).Scan(&c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category by ID. It refuses with ErrCategoryInUse while
// the category still has child categories or referencing products.
func (s *CategoryStore) Delete(id int64) error {
	var children, products int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM categories WHERE parent_id = $1`, id).Scan(&children)
	if err != nil {
		return fmt.Errorf("count children: %w", err)
	}
	err = s.db.QueryRow(`SELECT COUNT(*) FROM products WHERE category_id = $1`, id).Scan(&products)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if children > 0 || products > 0 {
		return ErrCategoryInUse
	}

	_, err = s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// ReorderItem represents a single item in a reorder request.
type ReorderItem struct {
	ID       int64  `json:"id"`
	ParentID *int64 `json:"parentId"`
	Order    int    `json:"order"`
}

// Reorder updates sort_order and parent_id for multiple categories in a
// transaction.
func (s *CategoryStore) Reorder(items []ReorderItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		UPDATE categories SET parent_id = $1, sort_order = $2, updated_at = $3
		WHERE id = $4`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, item := range items {
		if _, err := stmt.Exec(item.ParentID, item.Order, now, item.ID); err != nil {
			return fmt.Errorf("reorder category %d: %w", item.ID, err)
		}
	}

	return tx.Commit()
}

// NextSortOrder returns the next sort_order value for a given parent.
func (s *CategoryStore) NextSortOrder(parentID *int64) (int, error) {
	var maxOrder sql.NullInt64
	var err error
	if parentID == nil {
		err = s.db.QueryRow(`SELECT MAX(sort_order) FROM categories WHERE parent_id IS NULL`).Scan(&maxOrder)
	} else {
		err = s.db.QueryRow(`SELECT MAX(sort_order) FROM categories WHERE parent_id = $1`, *parentID).Scan(&maxOrder)
	}
	if err != nil {
		return 0, err
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}

// DescendantIDs computes the descendant-inclusive id set with a recursive
// query. It exists so bulk operations can filter inside the database; it
// must always agree with catalog.Tree.DescendantIDs over the same data
// (TestDescendantIDsMatchTree pins this). UNION deduplicates, so cyclic
// parent data terminates here too.
func (s *CategoryStore) DescendantIDs(id int64) ([]int64, error) {
	rows, err := s.db.Query(`
		WITH RECURSIVE subtree AS (
			SELECT id FROM categories WHERE id = $1
			UNION
			SELECT c.id FROM categories c
			JOIN subtree s ON c.parent_id = s.id
		)
		SELECT id FROM subtree
	`, id)
	if err != nil {
		return nil, fmt.Errorf("descendant ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	found := false
	for rows.Next() {
		var cur int64
		if err := rows.Scan(&cur); err != nil {
			return nil, fmt.Errorf("scan descendant id: %w", err)
		}
		if cur == id {
			found = true
		}
		ids = append(ids, cur)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// A dangling id still matches itself by literal equality.
	if !found {
		ids = append(ids, id)
	}
	return ids, nil
}
