package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rook-computer/hubcrest/internal/app"
	"github.com/rook-computer/hubcrest/internal/errors"
	"github.com/rook-computer/hubcrest/internal/render"
)

const (
	targetLogo   = "logo"
	targetBanner = "banner"
	targetInvite = "invite"
	targetAll    = "all"
)

// renderOpts holds the flags shared by render and preview. Zero values
// fall back to the config.
type renderOpts struct {
	size   int
	width  int
	height int
	seed   uint64
	url    string
}

func (o *renderOpts) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.size, "size", 0, "logo or invite card edge in pixels (default from config)")
	cmd.Flags().IntVar(&o.width, "width", 0, "banner width in pixels (default from config)")
	cmd.Flags().IntVar(&o.height, "height", 0, "banner height in pixels (default from config)")
	cmd.Flags().Uint64Var(&o.seed, "seed", 0, "noise seed for reproducible output (0 picks one per render)")
	cmd.Flags().StringVar(&o.url, "url", "", "invite link encoded on the invite card (default from config)")
}

func (o renderOpts) extra() []render.Option {
	if o.seed == 0 {
		return nil
	}
	return []render.Option{render.WithSeed(o.seed)}
}

// render produces one target with flag overrides applied.
func (o renderOpts) render(a *app.App, target string) (render.ImageBuffer, error) {
	cfg := a.Config
	switch target {
	case targetLogo:
		return a.RenderLogo(pick(o.size, cfg.Logo.Size), o.extra()...)
	case targetBanner:
		return a.RenderBanner(pick(o.width, cfg.Banner.Width), pick(o.height, cfg.Banner.Height), o.extra()...)
	case targetInvite:
		url := o.url
		if url == "" {
			url = cfg.Invite.URL
		}
		if url == "" {
			return render.ImageBuffer{}, errors.New(errors.ErrCodeInvalidInput, "invite card needs --url or invite.url in the config")
		}
		return a.RenderInvite(url, pick(o.size, cfg.Invite.Size), o.extra()...)
	}
	return render.ImageBuffer{}, errors.New(errors.ErrCodeInvalidInput, "unknown target %q", target)
}

func pick(flag, fallback int) int {
	if flag != 0 {
		return flag
	}
	return fallback
}

func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts renderOpts
		out  string
	)
	cmd := &cobra.Command{
		Use:       "render [logo|banner|invite|all]",
		Short:     "Render artwork to PNG files",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{targetLogo, targetBanner, targetInvite, targetAll},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.loadApp()
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), a, args[0], out, opts)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", ".", "output directory")
	opts.bind(cmd)
	return cmd
}

func (c *CLI) runRender(ctx context.Context, a *app.App, target, dir string, opts renderOpts) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", dir)
	}

	outputs := map[string]render.ImageBuffer{}
	switch target {
	case targetAll:
		if opts.size == 0 && opts.width == 0 && opts.height == 0 && opts.seed == 0 {
			art, err := a.RenderAll(ctx)
			if err != nil {
				return err
			}
			outputs[targetLogo], outputs[targetBanner] = art.Logo, art.Banner
		} else {
			for _, t := range []string{targetLogo, targetBanner} {
				buf, err := opts.render(a, t)
				if err != nil {
					return err
				}
				outputs[t] = buf
			}
		}
		if opts.url != "" || a.Config.Invite.URL != "" {
			buf, err := opts.render(a, targetInvite)
			if err != nil {
				return err
			}
			outputs[targetInvite] = buf
		}
	default:
		buf, err := opts.render(a, target)
		if err != nil {
			return err
		}
		outputs[target] = buf
	}

	printSuccess(c.Out, "Rendered %d image(s)", len(outputs))
	for _, t := range []string{targetLogo, targetBanner, targetInvite} {
		buf, ok := outputs[t]
		if !ok {
			continue
		}
		path := filepath.Join(dir, t+".png")
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		printFile(c.Out, path, buf)
	}
	return nil
}
