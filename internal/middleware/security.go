// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// catalogCSP allows product images from any https origin, since image URLs
// point at the object storage or a CDN in front of it. Inline style
// attributes stay allowed for the per-image width set in product galleries.
const catalogCSP = "default-src 'self'; img-src 'self' https: data:; style-src 'self' 'unsafe-inline'"

// SecureHeaders sets the response headers served on every page. The
// storefront is never embedded in frames, so framing is denied outright.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", catalogCSP)
		next.ServeHTTP(w, r)
	})
}
