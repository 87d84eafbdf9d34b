package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/seberle/plume/internal/config"
	"github.com/seberle/plume/internal/feed"
	"github.com/seberle/plume/internal/masto"
	"github.com/seberle/plume/internal/prefs"
	"github.com/seberle/plume/internal/profile"
	"github.com/seberle/plume/internal/ui"
)

// Options configure the plume application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/plume/prefs.toml
	Server     string // overrides the configured instance
	Account    string // handle or id of the profile to open
}

// Run boots the plume TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load plume config: %w", err)
	}
	if opts.Server != "" {
		cfg.Server = opts.Server
	}
	if opts.Account != "" {
		cfg.Account = opts.Account
	}
	if strings.TrimSpace(cfg.Server) == "" {
		return fmt.Errorf("no server configured: set server in the config or pass -server")
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := masto.NewClient(cfg.Server, cfg.AccessToken)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	// Identify the viewer so the stores can tell "own profile" from a
	// foreign one. Anonymous viewing still works for public profiles.
	var me *masto.Account
	if cfg.AccessToken != "" {
		me, err = client.VerifyCredentials(ctx)
		if err != nil {
			log.Printf("verify credentials failed: %v", err)
			me = nil
		}
	}
	currentUserID := ""
	if me != nil {
		currentUserID = me.ID
	}

	source, accountID, err := accountSource(cfg.Account, me)
	if err != nil {
		return err
	}

	store := profile.NewStore(client, source, currentUserID)
	statuses := feed.NewFeed(client, accountID,
		accountID != "" && accountID == currentUserID, cfg.PageSize,
		userPrefs.ExcludeReplies)

	uiOpts := ui.Options{
		Context:   ctx,
		Profile:   store,
		Feed:      statuses,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}

// accountSource picks the profile source: an explicit id or handle when one
// was given, else the viewer's own account seeded from verify_credentials.
// The returned id is empty when it only becomes known after resolution.
func accountSource(account string, me *masto.Account) (profile.Source, string, error) {
	account = strings.TrimSpace(account)
	if account == "" {
		if me == nil {
			return profile.Source{}, "", fmt.Errorf("no account given: pass -account or configure an access token")
		}
		return profile.Known(*me), me.ID, nil
	}
	if isAccountID(account) {
		return profile.ByID(account), account, nil
	}
	return profile.ByAcct(account), "", nil
}

// isAccountID reports whether the value looks like a numeric server id
// rather than a handle.
func isAccountID(account string) bool {
	for _, r := range account {
		if r < '0' || r > '9' {
			return false
		}
	}
	return account != ""
}
