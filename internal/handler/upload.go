package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/leca/image-cdn/internal/api"
	"github.com/leca/image-cdn/internal/gallery"
	"github.com/rs/zerolog/hlog"
)

// UploadImage handles POST /upload -- multipart upload of a single "file" field.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	limit := h.Config.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		if isTooLarge(err) {
			api.TooLarge(w, r, fmt.Sprintf("upload exceeds the %d byte limit", limit))
			return
		}
		api.BadRequest(w, r, "invalid multipart form: "+err.Error())
		return
	}
	// Parts spilled to temporary files are removed on every exit path.
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("failed to remove multipart temp files")
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		api.BadRequest(w, r, "missing required field: file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		api.BadRequest(w, r, "failed to read upload: "+err.Error())
		return
	}

	res, err := h.Gallery.Ingest(r.Context(), gallery.Upload{Data: data, Filename: header.Filename})
	if err != nil {
		h.writeError(w, r, err, "Failed to insert image into database.")
		return
	}

	api.WriteJSON(w, r, http.StatusOK, res)
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
