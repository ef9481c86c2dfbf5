package cli

import (
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/rook-computer/hubcrest/internal/errors"
	"github.com/rook-computer/hubcrest/internal/preview"
)

func (c *CLI) previewCommand() *cobra.Command {
	var (
		opts     renderOpts
		device   string
		duration time.Duration
		console  bool
	)
	cmd := &cobra.Command{
		Use:       "preview [logo|banner|invite]",
		Short:     "Show artwork on the Linux framebuffer",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{targetLogo, targetBanner, targetInvite},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.loadApp()
			if err != nil {
				return err
			}
			buf, err := opts.render(a, args[0])
			if err != nil {
				return err
			}
			img, err := imaging.Decode(buf.Reader())
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "decode %s", args[0])
			}
			pal, err := a.Config.RenderPalette()
			if err != nil {
				return err
			}
			printInfo(c.Out, "Showing %s on %s", args[0], device)
			return preview.Show(cmd.Context(), img, preview.Options{
				Device:     device,
				Background: pal.Background,
				Duration:   duration,
				Console:    console,
				Logger:     a.Logger,
			})
		},
	}
	cmd.Flags().StringVar(&device, "device", preview.DefaultDevice, "framebuffer device")
	cmd.Flags().DurationVar(&duration, "duration", 0, "how long to show the image (0 waits for Ctrl-C)")
	cmd.Flags().BoolVar(&console, "console", false, "switch the console to graphics mode while showing")
	opts.bind(cmd)
	return cmd
}
