// Package provision pushes rendered artwork to a Discord guild.
package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rook-computer/hubcrest/internal/errors"
	"github.com/rook-computer/hubcrest/internal/render"
)

// Guild is the subset of guild fields provisioning needs.
type Guild struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Uploader applies guild settings.
type Uploader interface {
	SetName(ctx context.Context, guildID, name string) error
	SetIcon(ctx context.Context, guildID string, img render.ImageBuffer) error
	SetBanner(ctx context.Context, guildID string, img render.ImageBuffer) error
}

// GuildLister looks guilds up.
type GuildLister interface {
	Guild(ctx context.Context, id string) (Guild, error)
	Guilds(ctx context.Context) ([]Guild, error)
}

// API is a full guild client.
type API interface {
	Uploader
	GuildLister
}

// Client talks to the Discord REST API with a bot token.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// NewClient returns a client with a 30 second timeout.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Guild(ctx context.Context, id string) (Guild, error) {
	var g Guild
	err := c.do(ctx, http.MethodGet, "/guilds/"+url.PathEscape(id), nil, &g)
	return g, err
}

// Guilds lists the guilds the bot belongs to.
func (c *Client) Guilds(ctx context.Context) ([]Guild, error) {
	var gs []Guild
	err := c.do(ctx, http.MethodGet, "/users/@me/guilds", nil, &gs)
	return gs, err
}

func (c *Client) SetName(ctx context.Context, guildID, name string) error {
	return c.patchGuild(ctx, guildID, map[string]string{"name": name})
}

func (c *Client) SetIcon(ctx context.Context, guildID string, img render.ImageBuffer) error {
	return c.patchGuild(ctx, guildID, map[string]string{"icon": img.DataURI()})
}

// SetBanner fails with ErrCodeRejected on guilds without the banner feature.
func (c *Client) SetBanner(ctx context.Context, guildID string, img render.ImageBuffer) error {
	return c.patchGuild(ctx, guildID, map[string]string{"banner": img.DataURI()})
}

func (c *Client) patchGuild(ctx context.Context, guildID string, fields map[string]string) error {
	return c.do(ctx, http.MethodPatch, "/guilds/"+url.PathEscape(guildID), fields, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "marshal %s body", path)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "build %s %s", method, path)
	}
	req.Header.Set("Authorization", "Bot "+c.Token)
	req.Header.Set("User-Agent", "hubcrest (https://github.com/rook-computer/hubcrest, 1)")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, method+" "+path); err != nil {
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "decode %s response", path)
	}
	return nil
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// checkStatus maps non-2xx responses to error codes. The platform's own
// message is kept when the body carries one.
func checkStatus(resp *http.Response, prefix string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(snippet))
	var ae apiError
	if json.Unmarshal(snippet, &ae) == nil && ae.Message != "" {
		msg = fmt.Sprintf("%s (code %d)", ae.Message, ae.Code)
	}

	code := errors.ErrCodeRejected
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		code = errors.ErrCodeUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		code = errors.ErrCodeNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		code = errors.ErrCodeNetwork
	}
	return errors.New(code, "%s: status %d: %s", prefix, resp.StatusCode, msg)
}
