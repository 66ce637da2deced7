package ui

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"datagraph/app"
	"datagraph/internal/registry"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AdminApp serves health, registry status and profiling endpoints on a
// separate listener
type AdminApp struct {
	router   *chi.Mux
	holder   *registry.Holder
	loader   *registry.Loader
	sessions *app.SessionStore
	started  time.Time
}

// NewAdminApp creates the admin router. loader may be nil, which disables
// POST /registry/reload.
func NewAdminApp(holder *registry.Holder, loader *registry.Loader, sessions *app.SessionStore) *AdminApp {
	a := &AdminApp{
		router:   chi.NewRouter(),
		holder:   holder,
		loader:   loader,
		sessions: sessions,
		started:  time.Now(),
	}

	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// ServeHTTP implements http.Handler
func (a *AdminApp) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// setupMiddleware configures HTTP middleware
func (a *AdminApp) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
}

// setupRoutes configures the admin routes
func (a *AdminApp) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)
	a.router.Get("/registry", a.handleRegistry)
	a.router.Post("/registry/reload", a.handleReload)
	a.router.Handle("/metrics", promhttp.Handler())
	a.router.Mount("/debug", middleware.Profiler())
}

func (a *AdminApp) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"uptime":   time.Since(a.started).Round(time.Second).String(),
		"sessions": a.sessions.Len(),
	})
}

func (a *AdminApp) handleRegistry(w http.ResponseWriter, r *http.Request) {
	reg := a.holder.Registry()
	counts := make(map[string]int)
	for shape, n := range reg.CountByShape() {
		counts[string(shape)] = n
	}

	var sources []string
	if a.loader != nil {
		sources = a.loader.Sources()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version":   reg.Version().String(),
		"entries":   reg.Len(),
		"shapes":    counts,
		"sources":   sources,
		"loaded_at": a.holder.LoadedAt().UTC().Format(time.RFC3339),
	})
}

func (a *AdminApp) handleReload(w http.ResponseWriter, r *http.Request) {
	if a.loader == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "reload is not configured"})
		return
	}

	reg, err := a.holder.Reload(r.Context(), a.loader)
	if err != nil {
		log.Printf("[Admin] Registry reload failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version": reg.Version().String(),
		"entries": reg.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[Admin] Failed to encode response: %v", err)
	}
}
