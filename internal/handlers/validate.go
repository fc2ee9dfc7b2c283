package handlers

import (
	"strings"
	"unicode/utf8"

	"smartcatalog/internal/models"
)

// Validation limits for product and category fields.
const (
	maxNameLen        = 300
	maxSKULen         = 100
	maxEANLen         = 13
	maxDescriptionLen = 100_000
	maxImageCount     = 24
	maxImageURLLen    = 2_000
)

// validateCategory checks category inputs and returns the first error found.
func validateCategory(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Category name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Category name is too long (max 300 characters)."
	}
	return ""
}

// validateProduct checks product inputs and returns the first error found.
func validateProduct(name, sku, ean13, description string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Product name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Product name is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(sku) > maxSKULen {
		return "SKU is too long (max 100 characters)."
	}
	if ean13 != "" {
		if len(ean13) != maxEANLen || !allDigits(ean13) {
			return "EAN must be 13 digits."
		}
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 100,000 characters)."
	}
	return ""
}

// validateImages checks a product image list.
func validateImages(images []models.ProductImage) string {
	if len(images) > maxImageCount {
		return "Too many images (max 24)."
	}
	for _, img := range images {
		if strings.TrimSpace(img.URL) == "" {
			return "Image URL is required."
		}
		if len(img.URL) > maxImageURLLen {
			return "Image URL is too long (max 2,000 characters)."
		}
	}
	return ""
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
