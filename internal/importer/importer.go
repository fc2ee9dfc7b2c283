// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package importer implements the batch product import workflow: rows are
// validated and written one at a time, and a bad row is reported but never
// aborts the rest of the batch.
package importer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"smartcatalog/internal/catalog"
	"smartcatalog/internal/models"
	"smartcatalog/internal/store"
)

// Row is one product of an import batch. Price is the raw text from the
// upload; blank means no price.
type Row struct {
	SKU         string   `json:"sku"`
	Name        string   `json:"name"`
	EAN13       string   `json:"ean13"`
	Price       string   `json:"price"`
	Description string   `json:"description"`
	CategoryID  int64    `json:"categoryId"`
	ImageURLs   []string `json:"imageUrls"`
}

// RowError records why one row was rejected. Line is 1-based.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Report summarises a finished import job.
type Report struct {
	JobID    string     `json:"jobId"`
	Imported int        `json:"imported"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors"`
}

// Importer writes import batches through the product store.
type Importer struct {
	categories *store.CategoryStore
	products   *store.ProductStore
}

// New creates an Importer.
func New(categories *store.CategoryStore, products *store.ProductStore) *Importer {
	return &Importer{categories: categories, products: products}
}

// Run imports a batch of rows. Rows are processed in order; a failing row
// is recorded in the report and the batch continues. The category set is
// snapshotted once at the start, so categories created mid-import are not
// visible to later rows of the same batch.
func (im *Importer) Run(rows []Row) (*Report, error) {
	cats, err := im.categories.List()
	if err != nil {
		return nil, fmt.Errorf("import: list categories: %w", err)
	}
	tree := catalog.NewTree(cats)

	report := &Report{JobID: uuid.New().String()}
	slog.Info("import started", "job", report.JobID, "rows", len(rows))

	for i, row := range rows {
		line := i + 1
		product, msg := buildProduct(row, tree)
		if msg != "" {
			report.Failed++
			report.Errors = append(report.Errors, RowError{Line: line, Message: msg})
			continue
		}
		if _, err := im.products.Create(product); err != nil {
			slog.Warn("import row failed", "job", report.JobID, "line", line, "error", err)
			report.Failed++
			report.Errors = append(report.Errors, RowError{Line: line, Message: "Database write failed."})
			continue
		}
		report.Imported++
	}

	slog.Info("import finished",
		"job", report.JobID, "imported", report.Imported, "failed", report.Failed)
	return report, nil
}

// buildProduct validates one row and converts it to a product. Returns a
// non-empty message when the row is rejected.
func buildProduct(row Row, tree *catalog.Tree) (*models.Product, string) {
	name := strings.TrimSpace(row.Name)
	if name == "" {
		return nil, "Name is required."
	}
	if tree.Category(row.CategoryID) == nil {
		return nil, fmt.Sprintf("Category %d does not exist.", row.CategoryID)
	}

	var price decimal.NullDecimal
	if raw := strings.TrimSpace(row.Price); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Sprintf("Price %q is not a number.", raw)
		}
		price = decimal.NullDecimal{Decimal: d, Valid: true}
	}

	ean := strings.TrimSpace(row.EAN13)
	var eanPtr *string
	if ean != "" {
		if len(ean) != 13 || !allDigits(ean) {
			return nil, "EAN must be 13 digits."
		}
		eanPtr = &ean
	}

	var images []models.ProductImage
	for _, u := range row.ImageURLs {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		images = append(images, models.ProductImage{URL: u, Size: 100})
	}

	return &models.Product{
		SKU:         models.NormalizeSKU(row.SKU),
		Name:        name,
		EAN13:       eanPtr,
		Price:       price,
		Description: row.Description,
		Images:      images,
		CategoryID:  row.CategoryID,
	}, ""
}

// allDigits reports whether s consists only of ASCII digits.
func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
