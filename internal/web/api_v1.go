package web

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rook-computer/hubcrest/internal/errors"
	"github.com/rook-computer/hubcrest/internal/render"
)

// Renderer produces the images served by the API.
type Renderer interface {
	RenderLogo(size int, extra ...render.Option) (render.ImageBuffer, error)
	RenderBanner(width, height int, extra ...render.Option) (render.ImageBuffer, error)
	RenderInvite(url string, size int, extra ...render.Option) (render.ImageBuffer, error)
}

// Defaults fill in query parameters the client leaves out.
type Defaults struct {
	LogoSize     int
	BannerWidth  int
	BannerHeight int
	InviteSize   int
	InviteURL    string
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type healthResponse struct {
	OK bool `json:"ok"`
}

func registerAPIV1(r chi.Router, cfg APIV1Config) {
	h := apiV1{renderer: cfg.Renderer, defaults: cfg.Defaults, logger: cfg.Logger}
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{OK: true})
	})
	r.Get("/logo.png", h.handleLogo)
	r.Get("/banner.png", h.handleBanner)
	r.Get("/invite.png", h.handleInvite)
}

type apiV1 struct {
	renderer Renderer
	defaults Defaults
	logger   Logger
}

func (h apiV1) handleLogo(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	size, ok := intParam(w, q, "size", h.defaults.LogoSize)
	if !ok {
		return
	}
	opts, ok := seedOption(w, q)
	if !ok {
		return
	}
	buf, err := h.renderer.RenderLogo(size, opts...)
	h.writeImage(w, buf, err)
}

func (h apiV1) handleBanner(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	width, ok := intParam(w, q, "width", h.defaults.BannerWidth)
	if !ok {
		return
	}
	height, ok := intParam(w, q, "height", h.defaults.BannerHeight)
	if !ok {
		return
	}
	opts, ok := seedOption(w, q)
	if !ok {
		return
	}
	buf, err := h.renderer.RenderBanner(width, height, opts...)
	h.writeImage(w, buf, err)
}

func (h apiV1) handleInvite(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	size, ok := intParam(w, q, "size", h.defaults.InviteSize)
	if !ok {
		return
	}
	target := q.Get("url")
	if target == "" {
		target = h.defaults.InviteURL
	}
	if target == "" {
		writeAPIError(w, http.StatusBadRequest, "missing_url", "url query parameter is required")
		return
	}
	opts, ok := seedOption(w, q)
	if !ok {
		return
	}
	buf, err := h.renderer.RenderInvite(target, size, opts...)
	h.writeImage(w, buf, err)
}

func (h apiV1) writeImage(w http.ResponseWriter, buf render.ImageBuffer, err error) {
	if err != nil {
		if errors.Is(err, errors.ErrCodeInvalidInput) {
			writeAPIError(w, http.StatusBadRequest, "invalid_input", errors.UserMessage(err))
			return
		}
		h.logger.Errorf("web", "render failed: %v", err)
		writeAPIError(w, http.StatusInternalServerError, "render_failed", "render failed")
		return
	}
	w.Header().Set("Content-Type", buf.MediaType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Render-ID", uuid.NewString())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func intParam(w http.ResponseWriter, q url.Values, name string, def int) (int, bool) {
	raw := q.Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_"+name, name+" must be an integer")
		return 0, false
	}
	return v, true
}

func seedOption(w http.ResponseWriter, q url.Values) ([]render.Option, bool) {
	raw := q.Get("seed")
	if raw == "" {
		return nil, true
	}
	seed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_seed", "seed must be an unsigned integer")
		return nil, false
	}
	return []render.Option{render.WithSeed(seed)}, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
