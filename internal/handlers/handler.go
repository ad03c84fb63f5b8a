package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"project-editor/backend/internal/filetree"
	"project-editor/backend/internal/middleware"
	"project-editor/backend/internal/ws"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the HTTP handler dependencies.
type Handler struct {
	files *filetree.Service
	hub   *ws.Hub
	store Pinger
}

func New(files *filetree.Service, hub *ws.Hub, store Pinger) *Handler {
	return &Handler{files: files, hub: hub, store: store}
}

// NewRouter wires every route. The file routes are served both at the
// root and under /api, where the editor UI calls them.
func NewRouter(h *Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)
	r.Get("/ws", h.ServeWs)

	routes := func(r chi.Router) {
		r.Get("/files", h.ListFiles)
		r.Post("/files", h.CreateFile)
		r.Get("/files/tree", h.GetFileTree)
		r.Get("/files/{id}", h.GetFile)
		r.Put("/files/{id}", h.UpdateFile)
		r.Delete("/files/{id}", h.DeleteFile)
		r.Post("/terminal", h.RunTerminalCommand)
	}
	routes(r)
	r.Route("/api", routes)

	return r
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		logError(r, err, "Health check failed")
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
