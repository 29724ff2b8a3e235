package handler

import (
	_ "embed"
	"errors"
	"net/http"

	"github.com/leca/image-cdn/internal/api"
	"github.com/leca/image-cdn/internal/gallery"
	"github.com/rs/zerolog/hlog"
)

//go:embed templates/404.html
var notFoundPage []byte

// NotFound is the catch-all for unmatched routes. Browsers get the HTML
// error page; everything else gets the JSON error body.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, r, "Not Found")
}

// MethodNotAllowed answers with the JSON error body.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	api.StatusError(w, r, http.StatusMethodNotAllowed)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, msg string) {
	if api.AcceptsHTML(r, true) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		if _, err := w.Write(notFoundPage); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("failed to write 404 page")
		}
		return
	}
	api.NotFound(w, r, msg)
}

// writeError maps a pipeline error onto a response. storageMsg is the
// generic message shown for storage failures, whose details stay in logs.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, storageMsg string) {
	switch {
	case gallery.IsValidation(err):
		api.BadRequest(w, r, err.Error())
	case errors.Is(err, gallery.ErrNotFound):
		h.notFound(w, r, err.Error())
	case errors.Is(err, gallery.ErrStorage):
		api.InternalError(w, r, storageMsg)
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("unexpected error")
		api.InternalError(w, r, http.StatusText(http.StatusInternalServerError))
	}
}
