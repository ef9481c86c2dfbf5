// Package config loads hubcrest settings from a TOML file and the
// environment. Every field has a default, so an empty file is valid.
package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/rook-computer/hubcrest/internal/errors"
	"github.com/rook-computer/hubcrest/internal/fonts"
	"github.com/rook-computer/hubcrest/internal/render"
)

const (
	EnvListenAddr   = "HUBCREST_LISTEN"
	EnvDevMode      = "HUBCREST_DEV"
	EnvDiscordToken = "DISCORD_TOKEN"
	EnvGuildID      = "GUILD_ID"
)

const DefaultListenAddr = ":8080"

// Config is the whole settings tree.
type Config struct {
	Brand   BrandConfig   `toml:"brand"`
	Palette PaletteConfig `toml:"palette"`
	Logo    LogoConfig    `toml:"logo"`
	Banner  BannerConfig  `toml:"banner"`
	Invite  InviteConfig  `toml:"invite"`
	Noise   NoiseConfig   `toml:"noise"`
	Fonts   FontsConfig   `toml:"fonts"`
	Server  ServerConfig  `toml:"server"`
	Discord DiscordConfig `toml:"discord"`
}

type BrandConfig struct {
	Name        string   `toml:"name"`
	TitleLines  []string `toml:"title_lines"`
	BannerTitle string   `toml:"banner_title"`
	Subtitle    string   `toml:"subtitle"`
}

type PaletteConfig struct {
	Background string `toml:"background"`
	Accent     string `toml:"accent"`
}

type LogoConfig struct {
	Size int `toml:"size"`
}

type BannerConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type InviteConfig struct {
	URL  string `toml:"url"`
	Size int    `toml:"size"`
}

type NoiseConfig struct {
	Iterations int     `toml:"iterations"`
	MaxRadius  float64 `toml:"max_radius"`
	Opacity    float64 `toml:"opacity"`
	// Seed fixes the texture; zero means a fresh seed per render.
	Seed uint64 `toml:"seed"`
}

type FontsConfig struct {
	Title    []string               `toml:"title"`
	Subtitle []string               `toml:"subtitle"`
	Files    map[string]fonts.Files `toml:"files"`
	// Discover searches system font directories for the listed families.
	Discover bool `toml:"discover"`
}

// ServerConfig contains settings for running the HTTP server.
type ServerConfig struct {
	ListenAddr string `toml:"listen"`
	DevMode    bool   `toml:"dev"`
}

type DiscordConfig struct {
	APIBase string `toml:"api_base"`
	GuildID string `toml:"guild_id"`
	// Token is only read from the environment.
	Token string `toml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Brand: BrandConfig{
			Name:        "Muslim Creators Hub",
			TitleLines:  append([]string(nil), render.DefaultBrand.TitleLines...),
			BannerTitle: render.DefaultBrand.BannerTitle,
			Subtitle:    render.DefaultBrand.Subtitle,
		},
		Palette: PaletteConfig{Background: "#0d3d2b", Accent: "#d4af37"},
		Logo:    LogoConfig{Size: render.DefaultLogoSize},
		Banner:  BannerConfig{Width: render.DefaultBannerWidth, Height: render.DefaultBannerHeight},
		Invite:  InviteConfig{Size: render.DefaultInviteSize},
		Noise: NoiseConfig{
			Iterations: render.DefaultNoise.Iterations,
			MaxRadius:  render.DefaultNoise.MaxRadius,
			Opacity:    render.DefaultNoise.Opacity,
		},
		Fonts: FontsConfig{
			Title:    append([]string(nil), render.DefaultBrand.TitleFamilies...),
			Subtitle: append([]string(nil), render.DefaultBrand.SubtitleFamilies...),
			Discover: true,
		},
		Server:  ServerConfig{ListenAddr: DefaultListenAddr},
		Discord: DiscordConfig{APIBase: "https://discord.com/api/v10"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvListenAddr); ok && v != "" {
		c.Server.ListenAddr = v
	}
	if raw, ok := lookup(EnvDevMode); ok && raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s must be a boolean (got %q)", EnvDevMode, raw)
		}
		c.Server.DevMode = parsed
	}
	if v, ok := lookup(EnvDiscordToken); ok {
		c.Discord.Token = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvGuildID); ok && v != "" {
		c.Discord.GuildID = strings.TrimSpace(v)
	}
	return nil
}

// Validate checks sizes, colours and noise parameters.
func (c Config) Validate() error {
	if _, err := c.RenderPalette(); err != nil {
		return err
	}
	sizes := []struct {
		name string
		v    int
	}{
		{"logo.size", c.Logo.Size},
		{"banner.width", c.Banner.Width},
		{"banner.height", c.Banner.Height},
		{"invite.size", c.Invite.Size},
	}
	for _, s := range sizes {
		if s.v <= 0 || s.v > render.MaxDimension {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be in 1..%d, got %d", s.name, render.MaxDimension, s.v)
		}
	}
	if n := len(c.Brand.TitleLines); n > render.MaxTitleLines {
		return errors.New(errors.ErrCodeInvalidConfig, "brand.title_lines takes at most %d lines, got %d", render.MaxTitleLines, n)
	}
	if c.Noise.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "noise.iterations must not be negative")
	}
	if c.Noise.Opacity < 0 || c.Noise.Opacity > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "noise.opacity must be in 0..1, got %v", c.Noise.Opacity)
	}
	if c.Noise.MaxRadius < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "noise.max_radius must not be negative")
	}
	return nil
}

// RenderPalette parses the hex colours.
func (c Config) RenderPalette() (render.Palette, error) {
	bg, err := parseHex("palette.background", c.Palette.Background)
	if err != nil {
		return render.Palette{}, err
	}
	accent, err := parseHex("palette.accent", c.Palette.Accent)
	if err != nil {
		return render.Palette{}, err
	}
	return render.Palette{Background: bg, Accent: accent}, nil
}

func parseHex(field, s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s is not a hex colour", field)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// RenderNoise converts the noise section.
func (c Config) RenderNoise() render.NoiseSpec {
	n := render.DefaultNoise
	n.Iterations = c.Noise.Iterations
	n.MaxRadius = c.Noise.MaxRadius
	n.Opacity = c.Noise.Opacity
	return n
}

// RenderBrand converts the brand and fonts sections.
func (c Config) RenderBrand() render.Brand {
	return render.Brand{
		TitleLines:       c.Brand.TitleLines,
		BannerTitle:      c.Brand.BannerTitle,
		Subtitle:         c.Brand.Subtitle,
		TitleFamilies:    c.Fonts.Title,
		SubtitleFamilies: c.Fonts.Subtitle,
	}
}

// RenderOptions builds render options from the config. book may be nil.
func (c Config) RenderOptions(book *fonts.Book) ([]render.Option, error) {
	p, err := c.RenderPalette()
	if err != nil {
		return nil, err
	}
	opts := []render.Option{
		render.WithPalette(p),
		render.WithNoise(c.RenderNoise()),
		render.WithBrand(c.RenderBrand()),
	}
	if c.Noise.Seed != 0 {
		opts = append(opts, render.WithSeed(c.Noise.Seed))
	}
	if book != nil {
		opts = append(opts, render.WithFonts(book))
	}
	return opts, nil
}

// AllFamilies lists every configured family, title first.
func (c Config) AllFamilies() []string {
	return append(append([]string(nil), c.Fonts.Title...), c.Fonts.Subtitle...)
}

func (c Config) String() string {
	return fmt.Sprintf("logo=%d banner=%dx%d listen=%s guild=%q", c.Logo.Size, c.Banner.Width, c.Banner.Height, c.Server.ListenAddr, c.Discord.GuildID)
}
