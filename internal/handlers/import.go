// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"smartcatalog/internal/cache"
	"smartcatalog/internal/importer"
)

// maxImportRows bounds one import batch.
const maxImportRows = 5_000

// Import runs a batch product import. The admin front end parses the CSV
// client-side and posts rows as JSON.
type Import struct {
	importer  *importer.Importer
	pageCache *cache.PageCache
}

// NewImport creates a new Import handler.
func NewImport(im *importer.Importer, pageCache *cache.PageCache) *Import {
	return &Import{importer: im, pageCache: pageCache}
}

// Run executes an import batch and replies with the per-row report.
func (h *Import) Run(w http.ResponseWriter, r *http.Request) {
	var rows []importer.Row
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(rows) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "Nothing to import.")
		return
	}
	if len(rows) > maxImportRows {
		writeError(w, http.StatusUnprocessableEntity, "Too many rows (max 5,000 per batch).")
		return
	}

	report, err := h.importer.Run(rows)
	if err != nil {
		slog.Error("import failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if report.Imported > 0 {
		h.pageCache.InvalidateAll(r.Context())
	}
	writeJSON(w, http.StatusOK, report)
}
