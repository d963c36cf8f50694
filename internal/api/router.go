package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/micro-nova/msiec-go/internal/auth"
)

// NewRouter creates and returns the main HTTP router.
func NewRouter(ctrl Controller, authSvc *auth.Service, bus EventBus) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware)
	r.Use(middleware.CleanPath)

	h := &Handlers{ctrl: ctrl, events: bus}

	r.Group(func(r chi.Router) {
		r.Use(authSvc.Middleware)

		r.Get("/api", h.getState)
		r.Get("/api/", h.getState)
		r.Get("/api/info", h.getInfo)
		r.Get("/api/config", h.getConfig)

		r.Get("/api/features", h.listFeatures)
		r.Patch("/api/features", h.applyFeatures)
		r.Get("/api/features/*", h.getFeature)
		r.Put("/api/features/*", h.setFeature)

		r.Get("/api/dump", h.getDump)
		r.Get("/api/subscribe", h.sseEvents)
	})

	return r
}

// corsMiddleware adds permissive CORS headers for local network access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Api-Key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
