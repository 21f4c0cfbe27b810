package app

import (
	"context"
	"fmt"
	"time"

	"github.com/flickcards/flick/internal/api"
	"github.com/flickcards/flick/internal/auth"
	"github.com/flickcards/flick/internal/config"
	"github.com/flickcards/flick/internal/localdata"
	"github.com/flickcards/flick/internal/notify"
	"github.com/flickcards/flick/internal/prefs"
	"github.com/flickcards/flick/internal/store"
	"github.com/flickcards/flick/internal/ui"
)

// Options configure the flick application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/flick/prefs.toml
}

// Run boots the flick TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := api.NewClient(cfg.APIBaseURL)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	data := localdata.New(cfg.DataDir)
	notifier := notify.New()
	session := auth.NewManager(client, data, notifier)

	// Restore a persisted session before the UI starts: a stale access
	// token is useless, so mint a fresh one from the stored refresh token.
	// Failure demotes the session and the UI opens on the login screen.
	if session.NeedsRefresh(time.Minute) {
		restoreCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		_ = session.RefreshAccess(restoreCtx)
		cancel()
	}

	decks := store.NewDeckStore(session, data, notifier)
	cards := store.NewCardStore(session, data, notifier)
	due := store.NewPracticeStore(session, notifier)
	languages := store.NewLanguageStore(session, notifier)

	StartRefresher(ctx, session, defaultRefreshCheck)

	uiOpts := ui.Options{
		Context:   ctx,
		Session:   session,
		Decks:     decks,
		Cards:     cards,
		Practice:  due,
		Languages: languages,
		Notifier:  notifier,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}
