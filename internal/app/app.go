package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rook-computer/hubcrest/internal/config"
	"github.com/rook-computer/hubcrest/internal/fonts"
	"github.com/rook-computer/hubcrest/internal/provision"
	"github.com/rook-computer/hubcrest/internal/render"
)

// App ties configuration, fonts and the renderer together for the CLI, the
// HTTP service and provisioning.
type App struct {
	Config config.Config
	Fonts  *fonts.Book
	Logger Logger

	// Finder locates font files; nil means the system search.
	Finder fonts.Finder
}

func New(cfg config.Config) *App {
	return &App{Config: cfg, Fonts: fonts.NewBook(), Logger: NoopLogger{}}
}

// LoadFonts registers configured font files and, when enabled, searches the
// system for the configured families. Missing fonts are logged, not fatal.
func (app *App) LoadFonts() {
	find := app.Finder
	if find == nil {
		find = fonts.SystemFinder
	}
	for _, m := range fonts.LoadFiles(app.Fonts, app.Config.Fonts.Files, find) {
		app.Logger.Errorf("fonts", "load %s", m)
	}
	if app.Config.Fonts.Discover {
		for _, m := range fonts.Discover(app.Fonts, app.Config.AllFamilies(), find) {
			app.Logger.Debugf("fonts", "not installed: %s", m)
		}
	}
	app.Logger.Debugf("fonts", "families: %v", app.Fonts.Families())
}

// Options returns fresh render options. Each render needs its own set since
// the random source is not shared between renders.
func (app *App) Options(extra ...render.Option) ([]render.Option, error) {
	opts, err := app.Config.RenderOptions(app.Fonts)
	if err != nil {
		return nil, err
	}
	return append(opts, extra...), nil
}

func (app *App) RenderLogo(size int, extra ...render.Option) (render.ImageBuffer, error) {
	opts, err := app.Options(extra...)
	if err != nil {
		return render.ImageBuffer{}, err
	}
	start := time.Now()
	buf, err := render.RenderLogo(size, opts...)
	if err != nil {
		return buf, err
	}
	app.Logger.Debugf("render", "logo %dpx, %d bytes in %s", size, buf.Len(), time.Since(start).Round(time.Millisecond))
	return buf, nil
}

func (app *App) RenderBanner(width, height int, extra ...render.Option) (render.ImageBuffer, error) {
	opts, err := app.Options(extra...)
	if err != nil {
		return render.ImageBuffer{}, err
	}
	start := time.Now()
	buf, err := render.RenderBanner(width, height, opts...)
	if err != nil {
		return buf, err
	}
	app.Logger.Debugf("render", "banner %dx%d, %d bytes in %s", width, height, buf.Len(), time.Since(start).Round(time.Millisecond))
	return buf, nil
}

func (app *App) RenderInvite(url string, size int, extra ...render.Option) (render.ImageBuffer, error) {
	opts, err := app.Options(extra...)
	if err != nil {
		return render.ImageBuffer{}, err
	}
	return render.RenderInviteCard(url, size, opts...)
}

// Artwork is a rendered logo and banner pair.
type Artwork struct {
	Logo   render.ImageBuffer
	Banner render.ImageBuffer
}

// RenderAll renders the configured logo and banner concurrently.
func (app *App) RenderAll(ctx context.Context) (Artwork, error) {
	var art Artwork
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		buf, err := app.RenderLogo(app.Config.Logo.Size)
		art.Logo = buf
		return err
	})
	g.Go(func() error {
		buf, err := app.RenderBanner(app.Config.Banner.Width, app.Config.Banner.Height)
		art.Banner = buf
		return err
	})
	if err := g.Wait(); err != nil {
		return Artwork{}, err
	}
	return art, nil
}

// Provision renders the artwork and applies it to the configured guild.
func (app *App) Provision(ctx context.Context, api provision.API) (provision.Report, error) {
	guild, err := provision.ResolveGuild(ctx, api, app.Config.Discord.GuildID)
	if err != nil {
		return provision.Report{}, err
	}
	app.Logger.Infof("provision", "target guild %s (%s)", guild.ID, guild.Name)

	art, err := app.RenderAll(ctx)
	if err != nil {
		return provision.Report{}, err
	}
	return provision.Apply(ctx, api, guild, provision.Assets{
		Name:   app.Config.Brand.Name,
		Icon:   art.Logo,
		Banner: art.Banner,
	}, app.Logger)
}
