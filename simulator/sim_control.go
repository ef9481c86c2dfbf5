package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

const (
	scenarioBoosted   = "boosted"
	scenarioUnboosted = "unboosted"
	scenarioOffline   = "offline"

	simGuildID = "100000000000000001"
	simToken   = "sim-token"
)

type SimFaults struct {
	IconFail   bool `json:"iconFail"`
	RenameFail bool `json:"renameFail"`
}

type simGuild struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Icon     string   `json:"icon,omitempty"`
	Banner   string   `json:"banner,omitempty"`
	Features []string `json:"features"`
}

// SimControl is an in-memory guild that accepts the artwork patches a bot
// would send and writes the received images to a directory.
type SimControl struct {
	dir             string
	startupScenario string

	mu       sync.Mutex
	scenario string
	guild    simGuild
	faults   SimFaults
	saved    []string
}

func NewSimControl(dir, startupScenario string) *SimControl {
	c := &SimControl{dir: filepath.Clean(dir), startupScenario: strings.TrimSpace(startupScenario)}
	if c.startupScenario == "" {
		c.startupScenario = scenarioBoosted
	}
	return c
}

func (c *SimControl) ApplyScenario(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.startupScenario
	}
	g := simGuild{ID: simGuildID, Name: "Sim Guild", Features: []string{}}
	switch name {
	case scenarioBoosted:
		g.Features = []string{"BANNER", "ANIMATED_ICON"}
	case scenarioUnboosted, scenarioOffline:
	default:
		return fmt.Errorf("unknown scenario %q", name)
	}
	c.mu.Lock()
	c.scenario = name
	c.guild = g
	c.saved = nil
	c.mu.Unlock()
	return nil
}

func (c *SimControl) Reset() error {
	c.SetFaults(SimFaults{})
	return c.ApplyScenario(c.startupScenario)
}

func (c *SimControl) Scenario() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scenario
}

func (c *SimControl) Faults() SimFaults {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.faults
}

func (c *SimControl) SetFaults(v SimFaults) {
	c.mu.Lock()
	c.faults = v
	c.mu.Unlock()
}

// Handler serves the guild endpoints the provisioning client uses plus the
// /sim control endpoints.
func (c *SimControl) Handler() http.Handler {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(c.platform)
		r.Get("/users/@me/guilds", c.handleGuilds)
		r.Get("/guilds/{id}", c.handleGuild)
		r.Patch("/guilds/{id}", c.handlePatch)
	})
	r.Route("/sim", func(r chi.Router) {
		r.Post("/reset", func(w http.ResponseWriter, r *http.Request) {
			if err := c.Reset(); err != nil {
				writeSimError(w, http.StatusInternalServerError, 0, err.Error())
				return
			}
			writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "scenario": c.Scenario()})
		})
		r.Post("/scenario/{name}", func(w http.ResponseWriter, r *http.Request) {
			if err := c.ApplyScenario(chi.URLParam(r, "name")); err != nil {
				writeSimError(w, http.StatusBadRequest, 0, err.Error())
				return
			}
			writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "scenario": c.Scenario()})
		})
		r.Get("/faults", func(w http.ResponseWriter, r *http.Request) {
			writeSimJSON(w, http.StatusOK, c.Faults())
		})
		r.Post("/faults", c.handleFaults)
		r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
			c.mu.Lock()
			defer c.mu.Unlock()
			writeSimJSON(w, http.StatusOK, map[string]any{"scenario": c.scenario, "guild": c.guild, "saved": c.saved})
		})
	})
	return r
}

// platform rejects requests the way the real API would for the current
// scenario and token.
func (c *SimControl) platform(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c.Scenario() == scenarioOffline {
			writeSimError(w, http.StatusServiceUnavailable, 0, "service unavailable")
			return
		}
		if r.Header.Get("Authorization") != "Bot "+simToken {
			writeSimError(w, http.StatusUnauthorized, 0, "401: Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (c *SimControl) handleGuilds(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	g := c.guild
	c.mu.Unlock()
	writeSimJSON(w, http.StatusOK, []simGuild{g})
}

func (c *SimControl) handleGuild(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	g := c.guild
	c.mu.Unlock()
	if chi.URLParam(r, "id") != g.ID {
		writeSimError(w, http.StatusNotFound, 10004, "Unknown Guild")
		return
	}
	writeSimJSON(w, http.StatusOK, g)
}

func (c *SimControl) handlePatch(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeSimError(w, http.StatusBadRequest, 50109, "The request body contains invalid JSON.")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if chi.URLParam(r, "id") != c.guild.ID {
		writeSimError(w, http.StatusNotFound, 10004, "Unknown Guild")
		return
	}

	if name, ok := body["name"]; ok {
		if c.faults.RenameFail || len(name) < 2 || len(name) > 100 {
			writeSimError(w, http.StatusBadRequest, 50035, "Invalid Form Body")
			return
		}
		c.guild.Name = name
	}
	if icon, ok := body["icon"]; ok {
		if c.faults.IconFail {
			writeSimError(w, http.StatusBadRequest, 50035, "Invalid Form Body")
			return
		}
		if err := c.save("icon", icon); err != nil {
			writeSimError(w, http.StatusBadRequest, 50035, err.Error())
			return
		}
		c.guild.Icon = "sim-icon"
	}
	if banner, ok := body["banner"]; ok {
		if !c.hasFeature("BANNER") {
			writeSimError(w, http.StatusBadRequest, 50035, "Invalid Form Body")
			return
		}
		if err := c.save("banner", banner); err != nil {
			writeSimError(w, http.StatusBadRequest, 50035, err.Error())
			return
		}
		c.guild.Banner = "sim-banner"
	}
	writeSimJSON(w, http.StatusOK, c.guild)
}

func (c *SimControl) handleFaults(w http.ResponseWriter, r *http.Request) {
	var patch struct {
		IconFail   *bool `json:"iconFail"`
		RenameFail *bool `json:"renameFail"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeSimError(w, http.StatusBadRequest, 0, "invalid json")
		return
	}
	current := c.Faults()
	if patch.IconFail != nil {
		current.IconFail = *patch.IconFail
	}
	if patch.RenameFail != nil {
		current.RenameFail = *patch.RenameFail
	}
	c.SetFaults(current)
	writeSimJSON(w, http.StatusOK, current)
}

func (c *SimControl) hasFeature(name string) bool {
	for _, f := range c.guild.Features {
		if f == name {
			return true
		}
	}
	return false
}

// save decodes a PNG data URI and writes it under dir. Callers hold mu.
func (c *SimControl) save(kind, uri string) error {
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(uri, prefix) {
		return fmt.Errorf("%s is not a png data uri", kind)
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(c.dir, kind+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	c.saved = append(c.saved, fmt.Sprintf("%s %dx%d", path, cfg.Width, cfg.Height))
	return nil
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status, code int, message string) {
	writeSimJSON(w, status, map[string]any{"message": message, "code": code})
}
