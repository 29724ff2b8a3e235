package handler

import (
	"net/http"

	"github.com/leca/image-cdn/internal/api"
	"github.com/leca/image-cdn/internal/model"
)

// DeleteImage handles DELETE /delete?id={id}. Any extension on the id is
// ignored, and deleting an unknown id still succeeds.
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	requested := r.URL.Query().Get("id")
	if requested == "" {
		api.BadRequest(w, r, "missing required query parameter: id")
		return
	}

	id, err := h.Gallery.Delete(r.Context(), requested)
	if err != nil {
		h.writeError(w, r, err, "Failed to delete image from database.")
		return
	}

	api.WriteJSON(w, r, http.StatusOK, model.Deleted{ID: id})
}
