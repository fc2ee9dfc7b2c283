// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging normalises uploaded product images before storage.
// Images are decoded (JPEG, PNG, or WebP), downscaled when wider than the
// catalog maximum, and re-encoded as JPEG. Smaller images pass through the
// resize untouched to avoid upscaling.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/png" // register PNG decoder

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// MaxWidth is the widest an uploaded image is stored at.
	MaxWidth = 1600

	// jpegQuality balances catalog photo fidelity against page weight.
	jpegQuality = 85
)

// Processed holds a normalised image ready for upload.
type Processed struct {
	Data        []byte
	Width       int
	Height      int
	ContentType string // always "image/jpeg"
}

// Normalize decodes an uploaded image and returns it as JPEG, downscaled
// to MaxWidth when the source is wider. The source format is detected from
// the registered decoders.
func Normalize(original []byte) (*Processed, error) {
	src, format, err := image.Decode(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > MaxWidth {
		scaled := image.NewRGBA(image.Rect(0, 0, MaxWidth, height*MaxWidth/width))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)
		src = scaled
		width = scaled.Bounds().Dx()
		height = scaled.Bounds().Dy()
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("imaging: encode %s source: %w", format, err)
	}

	return &Processed{
		Data:        buf.Bytes(),
		Width:       width,
		Height:      height,
		ContentType: "image/jpeg",
	}, nil
}
