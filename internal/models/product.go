// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProductImage is one entry of a product's ordered image list. The first
// entry is the cover image shown on listing pages. Size is the display
// width percentage used by the storefront gallery.
type ProductImage struct {
	URL  string `json:"url"`
	Size int    `json:"size"`
}

// Product represents a catalog product. Every product belongs to exactly
// one category. Price is nullable; null, zero and negative values all mean
// "no price yet" and render as a price-pending marker.
type Product struct {
	ID          int64               `json:"id"`
	SKU         *string             `json:"sku"`
	Name        string              `json:"name"`
	EAN13       *string             `json:"ean13"`
	Price       decimal.NullDecimal `json:"price"`
	Description string              `json:"description"`
	Images      []ProductImage      `json:"imageUrls"`
	CategoryID  int64               `json:"categoryId"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// HasPrice reports whether the product carries a usable price. Unpriced
// products sort after priced ones and display a pending marker.
func (p *Product) HasPrice() bool {
	return p.Price.Valid && p.Price.Decimal.IsPositive()
}

// CoverImage returns the URL of the primary image, or "" when the product
// has no images.
func (p *Product) CoverImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// DecodeImageList parses the serialized image list stored in the products
// table. Malformed stored data degrades to an empty list so one broken row
// can never take a listing page down.
func DecodeImageList(raw string) []ProductImage {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var images []ProductImage
	if err := json.Unmarshal([]byte(raw), &images); err != nil {
		slog.Warn("malformed image list, treating as empty", "error", err)
		return nil
	}
	return images
}

// EncodeImageList serializes an image list back to its stored text form.
// An empty or nil list encodes as "[]".
func EncodeImageList(images []ProductImage) string {
	if len(images) == 0 {
		return "[]"
	}
	data, err := json.Marshal(images)
	if err != nil {
		// ProductImage contains no unmarshalable types; this cannot
		// happen in practice.
		slog.Error("encode image list failed", "error", err)
		return "[]"
	}
	return string(data)
}

// NormalizeSKU maps a blank SKU to nil so the unique index on sku applies
// only to real values, never to empty strings.
func NormalizeSKU(sku string) *string {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil
	}
	return &sku
}

// OrphanedImageURLs returns the URLs present in old but absent from the
// new list. These are candidates for deletion from object storage once the
// product write has committed.
func OrphanedImageURLs(old, updated []ProductImage) []string {
	keep := make(map[string]struct{}, len(updated))
	for _, img := range updated {
		keep[img.URL] = struct{}{}
	}
	var orphans []string
	for _, img := range old {
		if _, ok := keep[img.URL]; !ok {
			orphans = append(orphans, img.URL)
		}
	}
	return orphans
}
