package handler

import (
	"github.com/leca/image-cdn/internal/config"
	"github.com/leca/image-cdn/internal/gallery"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	Gallery *gallery.Service
	Config  *config.Config
}
