package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// Page returns a handler serving a single file below the static directory,
// e.g. Page("templates", "index.html").
func (h *Handler) Page(elem ...string) http.HandlerFunc {
	rel := filepath.Join(elem...)
	return func(w http.ResponseWriter, r *http.Request) {
		h.serveStatic(w, r, filepath.Join(h.Config.StaticDir, rel))
	}
}

// StaticDir returns a handler for a wildcard route ("/templates/*") serving
// files from the given directory below the static directory. Directory
// listings are not served.
func (h *Handler) StaticDir(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Cleaning against "/" keeps the path inside dir.
		name := path.Clean("/" + chi.URLParam(r, "*"))
		h.serveStatic(w, r, filepath.Join(h.Config.StaticDir, dir, filepath.FromSlash(name)))
	}
}

func (h *Handler) serveStatic(w http.ResponseWriter, r *http.Request, file string) {
	f, err := os.Open(file)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		h.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
