package router

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/leca/image-cdn/internal/api"
	"github.com/leca/image-cdn/internal/config"
	"github.com/leca/image-cdn/internal/database"
	"github.com/leca/image-cdn/internal/gallery"
	"github.com/leca/image-cdn/internal/handler"
	"github.com/leca/image-cdn/internal/hosts"
	"github.com/rs/zerolog"
)

const healthTimeout = 2 * time.Second

// Server holds the application dependencies and HTTP router.
type Server struct {
	DB     database.Database
	Config *config.Config
	Router http.Handler
}

// New creates a Server whose router dispatches on the Host header: image
// hosts get the CDN API, web hosts get the static site, and everything
// else gets 404s. A nil classify builds one from cfg.
func New(db database.Database, cfg *config.Config, classify hosts.Classifier, logger zerolog.Logger) *Server {
	s := &Server{DB: db, Config: cfg}

	if classify == nil {
		classify = hosts.NewClassifier(cfg.ImageHosts, cfg.WebHosts)
	}

	h := &handler.Handler{
		Gallery: gallery.New(db, cfg.PublicBaseURL),
		Config:  cfg,
	}

	sw := &hosts.Switch{
		Classify: classify,
		Handlers: map[hosts.Class]http.Handler{
			hosts.Image:   s.imageRoutes(h),
			hosts.Web:     s.webRoutes(h),
			hosts.Default: s.defaultRoutes(h),
		},
		BadRequest: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			api.StatusError(w, r, http.StatusBadRequest)
		}),
	}

	// Outermost first: real client IP, request logging, panic recovery.
	var root http.Handler = sw
	root = middleware.Recoverer(root)
	root = api.Logging(logger)(root)
	root = middleware.RealIP(root)

	s.Router = root
	return s
}

func newHostRouter(h *handler.Handler) chi.Router {
	r := chi.NewRouter()
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)
	return r
}

// imageRoutes serves the CDN: uploads, gallery delivery and deletes.
func (s *Server) imageRoutes(h *handler.Handler) http.Handler {
	r := newHostRouter(h)

	// CORS runs first so preflight OPTIONS requests never reach auth.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "HEAD", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type", api.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.GetHead)

	r.Get("/", h.ImageIndex)
	r.Get("/health", s.Health)
	r.Get("/gallery/{filename}", h.ServeGallery)

	r.Group(func(r chi.Router) {
		r.Use(api.AuthMiddleware(s.Config.AuthKey))
		r.Post("/upload", h.UploadImage)
		r.Delete("/delete", h.DeleteImage)
	})

	return r
}

// webRoutes serves the static website.
func (s *Server) webRoutes(h *handler.Handler) http.Handler {
	r := newHostRouter(h)
	r.Use(middleware.GetHead)

	r.Get("/", h.Page("templates", "index.html"))
	r.Get("/projects", h.Page("templates", "projects.html"))
	r.Get("/favicon.ico", h.Page("static", "img", "favicon.ico"))
	r.Get("/health", s.Health)
	r.Get("/templates/*", h.StaticDir("templates"))
	r.Get("/static/img/*", h.StaticDir(filepath.Join("static", "img")))

	return r
}

// defaultRoutes answers every unknown host with 404.
func (s *Server) defaultRoutes(h *handler.Handler) http.Handler {
	r := newHostRouter(h)
	r.Get("/health", s.Health)
	return r
}

// Health returns a simple health-check response after pinging the store.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := s.DB.Ping(ctx); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("health check failed")
		api.Error(w, r, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	api.WriteJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
