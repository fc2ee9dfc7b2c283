// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"smartcatalog/internal/catalog"
	"smartcatalog/internal/models"
)

// ProductStore handles all product-related database operations. Rows are
// projected into models.Product at this boundary: the serialized image
// list is decoded on load and encoded on save, so downstream code never
// touches raw storage text.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore creates a new ProductStore with the given database
// connection.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, sku, name, ean13, price, description, images,
	category_id, created_at, updated_at`

// scanProduct scans a product row, decoding the stored image list.
// Malformed image data degrades to an empty list inside DecodeImageList.
func scanProduct(scanner interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	var rawImages string
	err := scanner.Scan(
		&p.ID, &p.SKU, &p.Name, &p.EAN13, &p.Price, &p.Description,
		&rawImages, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Images = models.DecodeImageList(rawImages)
	return &p, nil
}

// FindByID retrieves a single product. Returns nil if not found.
func (s *ProductStore) FindByID(id int64) (*models.Product, error) {
	row := s.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return p, nil
}

// Create inserts a new product and returns it with the generated ID and
// timestamps.
func (s *ProductStore) Create(p *models.Product) (*models.Product, error) {
	row := s.db.QueryRow(`
		INSERT INTO products (sku, name, ean13, price, description, images, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+productColumns,
		p.SKU, p.Name, p.EAN13, p.Price, p.Description,
		models.EncodeImageList(p.Images), p.CategoryID,
	)
	result, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return result, nil
}

// Update replaces a product's mutable fields in place. The refreshed
// updated_at is scanned back into p so callers echo the stored timestamp.
func (s *ProductStore) Update(p *models.Product) error {
	err := s.db.QueryRow(`
		UPDATE products SET
			sku = $1, name = $2, ean13 = $3, price = $4, description = $5,
			images = $6, category_id = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`, p.SKU, p.Name, p.EAN13, p.Price, p.Description,
		models.EncodeImageList(p.Images), p.CategoryID, p.ID).Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete removes a product and returns it so the caller can clean up its
// stored images. Returns nil if not found.
func (s *ProductStore) Delete(id int64) (*models.Product, error) {
	row := s.db.QueryRow(`
		DELETE FROM products WHERE id = $1
		RETURNING `+productColumns, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}
	return p, nil
}

// escapeLike neutralizes LIKE metacharacters in user search input so a
// search term is always a literal substring match.
var escapeLike = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildListingWhere translates a listing plan's predicate into SQL. The
// same clause drives both List and Count so totals always match the rows.
func buildListingWhere(plan catalog.ListingPlan) (string, []any) {
	var conds []string
	var args []any

	if len(plan.CategoryIDs) > 0 {
		args = append(args, plan.CategoryIDs)
		conds = append(conds, fmt.Sprintf("category_id = ANY($%d)", len(args)))
	}
	if plan.Search != "" {
		args = append(args, "%"+escapeLike.Replace(plan.Search)+"%")
		n := len(args)
		cond := fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d", n, n)
		if plan.SearchEAN {
			cond += fmt.Sprintf(" OR ean13 ILIKE $%d", n)
		}
		cond += ")"
		conds = append(conds, cond)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderClause maps a plan's whitelisted sort onto SQL. Ids break ties so
// pagination windows never overlap or skip rows. Sorting by price keeps
// unpriced products (null or non-positive) last in either direction.
func orderClause(plan catalog.ListingPlan) string {
	dir := "ASC"
	if plan.Descending {
		dir = "DESC"
	}
	switch plan.SortBy {
	case catalog.SortPrice:
		return fmt.Sprintf(" ORDER BY (price IS NULL OR price <= 0), price %s, id", dir)
	case catalog.SortName:
		return fmt.Sprintf(" ORDER BY name %s, id", dir)
	case catalog.SortCreatedAt:
		return fmt.Sprintf(" ORDER BY created_at %s, id", dir)
	default:
		return fmt.Sprintf(" ORDER BY updated_at %s, id", dir)
	}
}

// List executes a listing plan and returns the windowed product slice.
func (s *ProductStore) List(plan catalog.ListingPlan) ([]models.Product, error) {
	where, args := buildListingWhere(plan)
	args = append(args, plan.Limit, plan.Offset)
	query := `SELECT ` + productColumns + ` FROM products` + where + orderClause(plan) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// Count returns the size of a plan's filtered set before the window is
// applied.
func (s *ProductStore) Count(plan catalog.ListingPlan) (int, error) {
	where, args := buildListingWhere(plan)
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM products`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// ListByCategoryIDs returns products whose category is exactly one of the
// given ids, capped at the catalog-mode row limit. Ordering here is just
// a stable fetch order; the caller applies the hierarchical catalog sort
// in memory via catalog.SortCatalog.
func (s *ProductStore) ListByCategoryIDs(ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(`
		SELECT `+productColumns+` FROM products
		WHERE category_id = ANY($1)
		ORDER BY id
		LIMIT $2
	`, ids, catalog.CatalogRowCap)
	if err != nil {
		return nil, fmt.Errorf("list products by categories: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// ListLatest returns the most recently updated products, for the
// storefront home page.
func (s *ProductStore) ListLatest(limit int) ([]models.Product, error) {
	rows, err := s.db.Query(`
		SELECT `+productColumns+` FROM products
		ORDER BY updated_at DESC, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list latest products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// ListAll returns every product ordered by id, for the sitemap and batch
// export paths.
func (s *ProductStore) ListAll() ([]models.Product, error) {
	rows, err := s.db.Query(`
		SELECT ` + productColumns + ` FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// CountAll returns the total number of products.
func (s *ProductStore) CountAll() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count all products: %w", err)
	}
	return count, nil
}

// collectProducts drains a result set into a product slice.
func collectProducts(rows *sql.Rows) ([]models.Product, error) {
	var items []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}
