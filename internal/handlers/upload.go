// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"smartcatalog/internal/imaging"
	"smartcatalog/internal/slug"
)

// maxUploadSize is the maximum allowed image upload size (20 MB).
const maxUploadSize = 20 << 20

// allowedImageTypes defines MIME types accepted for product image upload.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// uploadResponse is the JSON reply for a successful image upload.
type uploadResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// Upload accepts a multipart product image, normalises it (downscale and
// re-encode), and stores it in the public bucket under a unique key
// derived from the original filename.
func (a *Admin) Upload(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Upload too large (max 20 MB).")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("read upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		writeError(w, http.StatusUnsupportedMediaType, "Only JPEG, PNG, and WebP images are accepted.")
		return
	}

	processed, err := imaging.Normalize(data)
	if err != nil {
		slog.Warn("image normalise failed", "error", err, "filename", header.Filename)
		writeError(w, http.StatusUnprocessableEntity, "File is not a decodable image.")
		return
	}

	key := uploadKey(header.Filename)
	if err := a.storageClient.Upload(r.Context(), key, processed.ContentType,
		bytes.NewReader(processed.Data), int64(len(processed.Data))); err != nil {
		slog.Error("image upload failed", "error", err, "key", key)
		writeError(w, http.StatusBadGateway, "Storing the image failed.")
		return
	}

	slog.Info("image uploaded", "key", key, "width", processed.Width, "height", processed.Height)
	writeJSON(w, http.StatusCreated, uploadResponse{
		URL: a.storageClient.FileURL(key),
		Key: key,
	})
}

// uploadKey builds a unique object key from the original filename: a UUID
// prefix so collisions cannot happen, a slugged basename so the key stays
// readable in the bucket.
func uploadKey(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	s := slug.Generate(base)
	if s == "" {
		s = "image"
	}
	return fmt.Sprintf("products/%s-%s.jpg", uuid.New().String(), s)
}
