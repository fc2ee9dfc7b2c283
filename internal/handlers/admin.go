// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"smartcatalog/internal/cache"
	"smartcatalog/internal/catalog"
	"smartcatalog/internal/models"
	"smartcatalog/internal/storage"
	"smartcatalog/internal/store"
)

// Admin groups the back-office JSON API handlers. storageClient may be nil
// when S3 is not configured; image cleanup is then skipped.
type Admin struct {
	categories    *store.CategoryStore
	products      *store.ProductStore
	storageClient *storage.Client
	pageCache     *cache.PageCache
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(categories *store.CategoryStore, products *store.ProductStore, storageClient *storage.Client, pageCache *cache.PageCache) *Admin {
	return &Admin{
		categories:    categories,
		products:      products,
		storageClient: storageClient,
		pageCache:     pageCache,
	}
}

// invalidatePages clears the storefront page cache after a write. A single
// category move can reshape any listing page, so everything goes.
func (a *Admin) invalidatePages(ctx context.Context) {
	a.pageCache.InvalidateAll(ctx)
}

// ---------------------------------------------------------------------------
// Categories

// categoryRequest is the JSON body for category create and update.
type categoryRequest struct {
	Name      string `json:"name"`
	ParentID  *int64 `json:"parentId"`
	SortOrder *int   `json:"sortOrder"`
}

// CategoryList returns the category forest flattened depth-first, with
// depth and product counts, for the admin tree view.
func (a *Admin) CategoryList(w http.ResponseWriter, r *http.Request) {
	cats, err := a.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	flat := catalog.NewTree(cats).FlatForest()
	if flat == nil {
		flat = []models.Category{}
	}
	writeJSON(w, http.StatusOK, flat)
}

// CategoryCreate creates a category. A new category without an explicit
// sort order is appended after its siblings.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := validateCategory(req.Name); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if req.ParentID != nil {
		parent, err := a.categories.FindByID(*req.ParentID)
		if err != nil {
			slog.Error("find parent category failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if parent == nil {
			writeError(w, http.StatusUnprocessableEntity, "Parent category does not exist.")
			return
		}
	}

	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	} else {
		next, err := a.categories.NextSortOrder(req.ParentID)
		if err != nil {
			slog.Error("next sort order failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		sortOrder = next
	}

	created, err := a.categories.Create(&models.Category{
		Name:      strings.TrimSpace(req.Name),
		ParentID:  req.ParentID,
		SortOrder: sortOrder,
	})
	if err != nil {
		slog.Error("create category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	a.invalidatePages(r.Context())
	writeJSON(w, http.StatusCreated, created)
}

// CategoryUpdate renames, reparents, or reorders a category. Reparenting
// onto itself or any of its own descendants is rejected, keeping the
// forest free of cycles.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	existing, err := a.categories.FindByID(id)
	if err != nil {
		slog.Error("find category failed", "error", err, "category", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := validateCategory(req.Name); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if req.ParentID != nil {
		if *req.ParentID == id {
			writeError(w, http.StatusUnprocessableEntity, "A category cannot be its own parent.")
			return
		}
		cats, err := a.categories.List()
		if err != nil {
			slog.Error("list categories failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		tree := catalog.NewTree(cats)
		for _, desc := range tree.DescendantIDs(id) {
			if desc == *req.ParentID {
				writeError(w, http.StatusUnprocessableEntity, "A category cannot be moved under its own descendant.")
				return
			}
		}
	}

	existing.Name = strings.TrimSpace(req.Name)
	existing.ParentID = req.ParentID
	if req.SortOrder != nil {
		existing.SortOrder = *req.SortOrder
	}

	if err := a.categories.Update(existing); err != nil {
		slog.Error("update category failed", "error", err, "category", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	a.invalidatePages(r.Context())
	writeJSON(w, http.StatusOK, existing)
}

// CategoryDelete removes a category. Deletion is refused while the
// category still has child categories or referencing products.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := a.categories.Delete(id); err != nil {
		if errors.Is(err, store.ErrCategoryInUse) {
			writeError(w, http.StatusConflict, "Category still has subcategories or products.")
			return
		}
		slog.Error("delete category failed", "error", err, "category", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	a.invalidatePages(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// CategoryReorder applies a batch of parent/sort-order moves in one
// transaction, as sent by the admin drag-and-drop tree.
func (a *Admin) CategoryReorder(w http.ResponseWriter, r *http.Request) {
	var items []store.ReorderItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(items) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "Nothing to reorder.")
		return
	}

	if err := a.categories.Reorder(items); err != nil {
		slog.Error("reorder categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	a.invalidatePages(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Products

// productRequest is the JSON body for product create and update. Price
// accepts a JSON number, a quoted decimal string, or null.
type productRequest struct {
	SKU         string                `json:"sku"`
	Name        string                `json:"name"`
	EAN13       string                `json:"ean13"`
	Price       decimal.NullDecimal   `json:"price"`
	Description string                `json:"description"`
	Images      []models.ProductImage `json:"imageUrls"`
	CategoryID  int64                 `json:"categoryId"`
}

// validate runs all product field checks and returns the first error.
func (req *productRequest) validate() string {
	if msg := validateProduct(req.Name, req.SKU, req.EAN13, req.Description); msg != "" {
		return msg
	}
	return validateImages(req.Images)
}

// ProductList serves the admin product listing. Unlike the public API,
// search here matches name and sku only.
func (a *Admin) ProductList(w http.ResponseWriter, r *http.Request) {
	cats, err := a.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	tree := catalog.NewTree(cats)

	req := catalog.ParseListingRequest(r.URL.Query())
	plan := req.Plan(tree)

	products, err := a.products.List(plan)
	if err != nil {
		slog.Error("admin product listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	total, err := a.products.Count(plan)
	if err != nil {
		slog.Error("admin product count failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	writeJSON(w, http.StatusOK, listingResponse{
		Products:   products,
		Pagination: req.Paginate(total),
	})
}

// ProductCreate creates a product.
func (a *Admin) ProductCreate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	cat, err := a.categories.FindByID(req.CategoryID)
	if err != nil {
		slog.Error("find category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if cat == nil {
		writeError(w, http.StatusUnprocessableEntity, "Category does not exist.")
		return
	}

	created, err := a.products.Create(&models.Product{
		SKU:         models.NormalizeSKU(req.SKU),
		Name:        strings.TrimSpace(req.Name),
		EAN13:       normalizeEAN(req.EAN13),
		Price:       req.Price,
		Description: req.Description,
		Images:      req.Images,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		slog.Error("create product failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	a.invalidatePages(r.Context())
	writeJSON(w, http.StatusCreated, created)
}

// ProductUpdate replaces a product's fields. Images dropped from the list
// are deleted from object storage after the row write succeeds; a failed
// storage delete is logged and never fails the request.
func (a *Admin) ProductUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	existing, err := a.products.FindByID(id)
	if err != nil {
		slog.Error("find product failed", "error", err, "product", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	cat, err := a.categories.FindByID(req.CategoryID)
	if err != nil {
		slog.Error("find category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if cat == nil {
		writeError(w, http.StatusUnprocessableEntity, "Category does not exist.")
		return
	}

	oldImages := existing.Images

	existing.SKU = models.NormalizeSKU(req.SKU)
	existing.Name = strings.TrimSpace(req.Name)
	existing.EAN13 = normalizeEAN(req.EAN13)
	existing.Price = req.Price
	existing.Description = req.Description
	existing.Images = req.Images
	existing.CategoryID = req.CategoryID

	if err := a.products.Update(existing); err != nil {
		slog.Error("update product failed", "error", err, "product", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	a.cleanupImages(r.Context(), models.OrphanedImageURLs(oldImages, req.Images))
	a.invalidatePages(r.Context())
	writeJSON(w, http.StatusOK, existing)
}

// ProductDelete removes a product and cleans up its stored images.
func (a *Admin) ProductDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	deleted, err := a.products.Delete(id)
	if err != nil {
		slog.Error("delete product failed", "error", err, "product", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if deleted == nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	a.cleanupImages(r.Context(), models.OrphanedImageURLs(deleted.Images, nil))
	a.invalidatePages(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// cleanupImages best-effort deletes no-longer-referenced images from
// object storage. Runs after the DB write has committed; failures leave
// the object behind, which is harmless.
func (a *Admin) cleanupImages(ctx context.Context, urls []string) {
	if a.storageClient == nil {
		return
	}
	for _, u := range urls {
		key, ok := a.storageClient.ExtractS3Key(u)
		if !ok {
			continue
		}
		if err := a.storageClient.Delete(ctx, key); err != nil {
			slog.Warn("orphaned image delete failed", "key", key, "error", err)
		}
	}
}

// normalizeEAN maps a blank EAN to nil.
func normalizeEAN(ean string) *string {
	ean = strings.TrimSpace(ean)
	if ean == "" {
		return nil
	}
	return &ean
}
