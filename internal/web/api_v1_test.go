package web

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rook-computer/hubcrest/internal/render"
)

type coreRenderer struct{}

func (coreRenderer) RenderLogo(size int, extra ...render.Option) (render.ImageBuffer, error) {
	return render.RenderLogo(size, extra...)
}

func (coreRenderer) RenderBanner(w, h int, extra ...render.Option) (render.ImageBuffer, error) {
	return render.RenderBanner(w, h, extra...)
}

func (coreRenderer) RenderInvite(url string, size int, extra ...render.Option) (render.ImageBuffer, error) {
	return render.RenderInviteCard(url, size, extra...)
}

func newTestRouter(dev bool) http.Handler {
	return NewRouter(APIV1Config{
		Renderer: coreRenderer{},
		Defaults: Defaults{LogoSize: 32, BannerWidth: 120, BannerHeight: 30, InviteSize: 96},
		DevMode:  dev,
	})
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestImageEndpoints(t *testing.T) {
	h := newTestRouter(false)
	tests := []struct {
		name   string
		target string
		w, ht  int
	}{
		{"logo default", "/api/v1/logo.png", 32, 32},
		{"logo sized", "/api/v1/logo.png?size=48&seed=3", 48, 48},
		{"banner default", "/api/v1/banner.png", 120, 30},
		{"banner sized", "/api/v1/banner.png?width=200&height=50", 200, 50},
		{"invite", "/api/v1/invite.png?url=https://discord.gg/hub", 96, 96},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
				t.Errorf("Content-Type = %q", ct)
			}
			if rec.Header().Get("X-Render-ID") == "" {
				t.Error("missing X-Render-ID")
			}
			img, err := png.Decode(rec.Body)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if b := img.Bounds(); b.Dx() != tt.w || b.Dy() != tt.ht {
				t.Errorf("bounds = %v, want %dx%d", b, tt.w, tt.ht)
			}
		})
	}
}

func TestSeedMakesResponsesReproducible(t *testing.T) {
	h := newTestRouter(false)
	a := get(t, h, "/api/v1/logo.png?seed=9").Body.Bytes()
	b := get(t, h, "/api/v1/logo.png?seed=9").Body.Bytes()
	if !bytes.Equal(a, b) {
		t.Error("same seed produced different responses")
	}
}

func TestBadRequests(t *testing.T) {
	h := newTestRouter(false)
	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"zero size", "/api/v1/logo.png?size=0", http.StatusBadRequest, "invalid_input"},
		{"negative height", "/api/v1/banner.png?height=-4", http.StatusBadRequest, "invalid_input"},
		{"non-numeric size", "/api/v1/logo.png?size=big", http.StatusBadRequest, "invalid_size"},
		{"bad seed", "/api/v1/logo.png?seed=-1", http.StatusBadRequest, "invalid_seed"},
		{"missing invite url", "/api/v1/invite.png", http.StatusBadRequest, "missing_url"},
		{"unknown route", "/api/v1/nope", http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var body apiError
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Error != tt.code {
				t.Errorf("error = %q, want %q", body.Error, tt.code)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(false).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/logo.png", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestDevCORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/logo.png", nil)
	req.Header.Set("Origin", "http://localhost:5173")

	rec := httptest.NewRecorder()
	newTestRouter(true).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}

	rec = get(t, newTestRouter(false), "/api/v1/healthz")
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("CORS headers set outside dev mode")
	}
}

func TestHTTPServerLifecycle(t *testing.T) {
	s := NewHTTPServer("127.0.0.1:0", newTestRouter(false))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	resp, err := http.Get("http://" + s.ListenAddr() + "/api/v1/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}

	if err := s.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := s.Start(ctx); err == nil {
		t.Error("Start after Stop should fail")
	}
}
