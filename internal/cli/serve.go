package cli

import (
	"github.com/spf13/cobra"

	"github.com/rook-computer/hubcrest/internal/web"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen string
		dev    bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered artwork over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.loadApp()
			if err != nil {
				return err
			}
			cfg := a.Config
			if listen != "" {
				cfg.Server.ListenAddr = listen
			}
			if cmd.Flags().Changed("dev") {
				cfg.Server.DevMode = dev
			}

			router := web.NewRouter(web.APIV1Config{
				Renderer: a,
				Defaults: web.Defaults{
					LogoSize:     cfg.Logo.Size,
					BannerWidth:  cfg.Banner.Width,
					BannerHeight: cfg.Banner.Height,
					InviteSize:   cfg.Invite.Size,
					InviteURL:    cfg.Invite.URL,
				},
				Logger:  a.Logger,
				DevMode: cfg.Server.DevMode,
			})
			srv := web.NewHTTPServer(cfg.Server.ListenAddr, router)
			srv.Logger = a.Logger

			ctx := cmd.Context()
			if err := srv.Start(ctx); err != nil {
				return err
			}
			printInfo(c.Out, "Serving on http://%s/api/v1/", srv.ListenAddr())
			<-ctx.Done()
			a.Logger.Infof("web", "shutting down")
			return srv.Stop()
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&dev, "dev", false, "enable permissive CORS for local development")
	return cmd
}
