package cli

import (
	"github.com/spf13/cobra"

	"github.com/rook-computer/hubcrest/internal/config"
	"github.com/rook-computer/hubcrest/internal/errors"
	"github.com/rook-computer/hubcrest/internal/provision"
)

func (c *CLI) applyCommand() *cobra.Command {
	var (
		guildID string
		apiBase string
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Render artwork and apply it to a Discord guild",
		Long:  `Apply renders the logo and banner, then sets them as the guild icon and banner. The bot token is read from ` + config.EnvDiscordToken + `.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.loadApp()
			if err != nil {
				return err
			}
			if guildID != "" {
				a.Config.Discord.GuildID = guildID
			}
			if apiBase != "" {
				a.Config.Discord.APIBase = apiBase
			}
			if a.Config.Discord.Token == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "%s is not set", config.EnvDiscordToken)
			}

			client := provision.NewClient(a.Config.Discord.APIBase, a.Config.Discord.Token)
			rep, err := a.Provision(cmd.Context(), client)
			if err != nil {
				return err
			}

			printSuccess(c.Out, "Applied artwork to %s", rep.Guild.Name)
			printKeyValue(c.Out, "guild", rep.Guild.ID)
			printKeyValue(c.Out, "renamed", yesNo(rep.Renamed))
			printKeyValue(c.Out, "icon", yesNo(rep.IconApplied))
			printKeyValue(c.Out, "banner", yesNo(rep.BannerApplied))
			if rep.BannerErr != nil {
				printWarning(c.Out, "banner not applied: %s", errors.UserMessage(rep.BannerErr))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&guildID, "guild", "", "guild id (default from config or "+config.EnvGuildID+")")
	cmd.Flags().StringVar(&apiBase, "api-base", "", "Discord API base URL (default from config)")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
