package provision

import (
	"context"

	"github.com/rook-computer/hubcrest/internal/errors"
	"github.com/rook-computer/hubcrest/internal/render"
)

// Logger is the component-tagged logger provisioning reports through.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Assets is what Apply pushes. An empty Name leaves the guild name alone.
type Assets struct {
	Name   string
	Icon   render.ImageBuffer
	Banner render.ImageBuffer
}

// Report says what Apply changed.
type Report struct {
	Guild         Guild
	Renamed       bool
	IconApplied   bool
	BannerApplied bool
	// BannerErr is why the banner was not applied, if it was attempted.
	BannerErr error
}

// ResolveGuild picks the target guild. With no id the bot must belong to
// exactly one guild.
func ResolveGuild(ctx context.Context, api GuildLister, id string) (Guild, error) {
	if id != "" {
		return api.Guild(ctx, id)
	}
	all, err := api.Guilds(ctx)
	if err != nil {
		return Guild{}, err
	}
	if len(all) != 1 {
		return Guild{}, errors.New(errors.ErrCodeInvalidInput, "guild id required: bot is in %d guilds", len(all))
	}
	return api.Guild(ctx, all[0].ID)
}

// Apply renames the guild, sets its icon and tries its banner. A failed
// rename or banner is logged and reported; a failed icon is returned.
func Apply(ctx context.Context, up Uploader, guild Guild, a Assets, log Logger) (Report, error) {
	rep := Report{Guild: guild}

	if a.Name != "" && guild.Name != a.Name {
		if err := up.SetName(ctx, guild.ID, a.Name); err != nil {
			log.Errorf("provision", "rename %s to %q failed: %v", guild.ID, a.Name, err)
		} else {
			rep.Renamed = true
			log.Infof("provision", "renamed %s to %q", guild.ID, a.Name)
		}
	}

	if a.Icon.Len() > 0 {
		if err := up.SetIcon(ctx, guild.ID, a.Icon); err != nil {
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeNetwork
			}
			return rep, errors.Wrap(code, err, "set icon on %s", guild.ID)
		}
		rep.IconApplied = true
		log.Infof("provision", "icon applied (%d bytes)", a.Icon.Len())
	}

	if a.Banner.Len() > 0 {
		if err := up.SetBanner(ctx, guild.ID, a.Banner); err != nil {
			rep.BannerErr = err
			log.Infof("provision", "banner not applied: %v", err)
		} else {
			rep.BannerApplied = true
			log.Infof("provision", "banner applied (%d bytes)", a.Banner.Len())
		}
	}
	return rep, nil
}
