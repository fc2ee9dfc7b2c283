// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"smartcatalog/internal/models"
)

func TestPageURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		page int
		want string
	}{
		{
			name: "adds page to bare url",
			url:  "/category/5",
			page: 2,
			want: "/category/5?page=2",
		},
		{
			name: "replaces existing page",
			url:  "/category/5?page=3&sortBy=price",
			page: 4,
			want: "/category/5?page=4&sortBy=price",
		},
		{
			name: "clamps below one",
			url:  "/category/5",
			page: 0,
			want: "/category/5?page=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.url)
			if err != nil {
				t.Fatalf("parse url: %v", err)
			}
			if got := pageURL(u, tt.page); got != tt.want {
				t.Errorf("pageURL(%q, %d) = %q, want %q", tt.url, tt.page, got, tt.want)
			}
		})
	}
}

func TestUploadKey(t *testing.T) {
	key := uploadKey("My Product Photo.PNG")
	if !strings.HasPrefix(key, "products/") {
		t.Errorf("key %q missing products/ prefix", key)
	}
	if !strings.HasSuffix(key, "-my-product-photo.jpg") {
		t.Errorf("key %q missing slugged basename", key)
	}

	// Unsluggable filenames fall back to a generic name.
	key = uploadKey("%%%.jpg")
	if !strings.HasSuffix(key, "-image.jpg") {
		t.Errorf("key %q missing fallback basename", key)
	}

	// Keys are unique per call.
	if uploadKey("a.jpg") == uploadKey("a.jpg") {
		t.Error("uploadKey produced identical keys for two calls")
	}
}

func TestValidateCategory(t *testing.T) {
	if msg := validateCategory("Tools"); msg != "" {
		t.Errorf("valid name rejected: %s", msg)
	}
	if msg := validateCategory("   "); msg == "" {
		t.Error("blank name accepted")
	}
	if msg := validateCategory(strings.Repeat("x", maxNameLen+1)); msg == "" {
		t.Error("overlong name accepted")
	}
}

func TestValidateProduct(t *testing.T) {
	tests := []struct {
		name   string
		n      string
		sku    string
		ean    string
		desc   string
		wantOK bool
	}{
		{"valid", "Hammer", "HMR-1", "4006381333931", "desc", true},
		{"blank name", " ", "", "", "", false},
		{"blank ean allowed", "Hammer", "", "", "", true},
		{"short ean", "Hammer", "", "123", "", false},
		{"alpha ean", "Hammer", "", "40063813339ab", "", false},
		{"overlong sku", "Hammer", strings.Repeat("s", maxSKULen+1), "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateProduct(tt.n, tt.sku, tt.ean, tt.desc)
			if ok := msg == ""; ok != tt.wantOK {
				t.Errorf("validateProduct() = %q, want ok=%v", msg, tt.wantOK)
			}
		})
	}
}

func TestValidateImages(t *testing.T) {
	ok := []models.ProductImage{{URL: "https://cdn.example.com/a.jpg", Size: 100}}
	if msg := validateImages(ok); msg != "" {
		t.Errorf("valid images rejected: %s", msg)
	}

	blank := []models.ProductImage{{URL: "  "}}
	if msg := validateImages(blank); msg == "" {
		t.Error("blank image URL accepted")
	}

	many := make([]models.ProductImage, maxImageCount+1)
	for i := range many {
		many[i].URL = "https://cdn.example.com/a.jpg"
	}
	if msg := validateImages(many); msg == "" {
		t.Error("oversized image list accepted")
	}
}

func TestNormalizeEAN(t *testing.T) {
	if got := normalizeEAN("  "); got != nil {
		t.Errorf("normalizeEAN(blank) = %v, want nil", got)
	}
	if got := normalizeEAN(" 4006381333931 "); got == nil || *got != "4006381333931" {
		t.Errorf("normalizeEAN trimmed = %v, want 4006381333931", got)
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, 422, "Name is required.")

	if rec.Code != 422 {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Error != "Name is required." {
		t.Errorf("error message = %q", body.Error)
	}
}
