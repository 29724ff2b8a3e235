package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/leca/image-cdn/internal/api"
	"github.com/rs/zerolog/hlog"
)

// ImageIndex handles GET / on the image host.
func (h *Handler) ImageIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte("Image Database")); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("failed to write response")
	}
}

// ServeGallery handles GET /gallery/{filename}?size={spec}. Non-canonical
// filenames are redirected; otherwise the image is returned raw, or wrapped
// in an HTML page when the client accepts HTML.
func (h *Handler) ServeGallery(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	size := r.URL.Query().Get("size")

	out, err := h.Gallery.Retrieve(r.Context(), filename, size)
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch image from database.")
		return
	}

	if out.Redirect != "" {
		location := out.Redirect
		if r.URL.RawQuery != "" {
			location += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, location, http.StatusFound)
		return
	}

	w.Header().Set("Vary", "Accept")

	if api.AcceptsHTML(r, false) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(out.HTML)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(out.HTML)); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("failed to write image wrapper")
		}
		return
	}

	w.Header().Set("Content-Type", out.Image.MIMEType)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Image.Data)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	// Scripts embedded in SVG uploads must not run on the CDN origin.
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Image.Data); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("failed to write image")
	}
}
