package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type APIV1Config struct {
	Renderer Renderer
	Defaults Defaults
	Logger   Logger
	DevMode  bool
}

// NewRouter builds the HTTP handler: the render API under /api/v1.
func NewRouter(cfg APIV1Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLog(cfg.Logger))
	if cfg.DevMode {
		r.Use(WithDevCORS)
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, "not_found", "no such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	r.Route("/api/v1", func(r chi.Router) {
		registerAPIV1(r, cfg)
	})
	return r
}

func requestLog(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Infof("web", "%s %s -> %d (%d bytes, %s)", r.Method, r.URL.RequestURI(), ww.Status(), ww.BytesWritten(), time.Since(start).Round(time.Millisecond))
		})
	}
}
