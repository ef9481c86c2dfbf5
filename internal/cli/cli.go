// Package cli implements the hubcrest command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rook-computer/hubcrest/internal/app"
	"github.com/rook-computer/hubcrest/internal/config"
)

const appName = "hubcrest"

// Version is reported by --version; main may override it at link time.
var Version = "dev"

// CLI holds state shared by all commands.
type CLI struct {
	// Out receives command output, Err receives logs.
	Out io.Writer
	Err io.Writer

	// RedirectStdIO moves the process stdout and stderr to a file. It is
	// only called when --stdio-log is set.
	RedirectStdIO func(path string) error

	configPath string
	verbose    bool
	stdioLog   string
	logger     app.Logger
}

func New(out, errOut io.Writer) *CLI {
	return &CLI{Out: out, Err: errOut, logger: app.NoopLogger{}}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Hubcrest renders community logo and banner artwork",
		Long:          `Hubcrest procedurally renders the community logo, banner and invite card, serves them over HTTP and applies them to a Discord guild.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.stdioLog == "" {
				c.stdioLog = os.Getenv("HUBCREST_STDIO_LOG")
			}
			if c.stdioLog != "" && c.RedirectStdIO != nil {
				if err := c.RedirectStdIO(c.stdioLog); err != nil {
					fmt.Fprintln(c.Err, "stdio log redirect error:", err)
				}
			}
			c.logger = app.NewLogger(c.Err, c.verbose)
			return nil
		},
	}
	root.SetOut(c.Out)
	root.SetErr(c.Err)

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML config file (defaults apply when omitted)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.stdioLog, "stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via HUBCREST_STDIO_LOG")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.applyCommand())
	root.AddCommand(c.previewCommand())

	return root
}

// loadApp reads the config and prepares fonts.
func (c *CLI) loadApp() (*app.App, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	a := app.New(cfg)
	a.Logger = c.logger
	a.Logger.Debugf("config", "%s", cfg)
	a.LoadFonts()
	return a, nil
}
