package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/five82/packetdesk/internal/api"
	"github.com/five82/packetdesk/internal/auth"
	"github.com/five82/packetdesk/internal/config"
	"github.com/five82/packetdesk/internal/logging"
	"github.com/five82/packetdesk/internal/packets"
	"github.com/five82/packetdesk/internal/prefs"
	"github.com/five82/packetdesk/internal/session"
	"github.com/five82/packetdesk/internal/state"
	"github.com/five82/packetdesk/internal/ui"
)

// Options configure the packetdesk application.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/packetdesk/prefs.toml
	PollEvery  time.Duration // stats interval; zero uses the config value
}

// Run boots the packetdesk TUI until the context is cancelled or the user
// quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, logCloser, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logCloser.Close()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	sessions, sessionCloser, err := openSessionStore(ctx, cfg.Session)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer sessionCloser.Close()

	manager := session.NewManager(sessions, logger)
	if err := manager.Init(ctx); err != nil {
		// A broken session file only means signing in again.
		logger.Warn().Err(err).Msg("could not restore session")
	}

	client, err := api.NewClient(cfg.APIURL, manager,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	authSvc := auth.NewService(client, manager, logger)
	packetSvc := packets.NewService(client, logger)
	store := &state.Store{}

	if manager.IsAuthenticated() {
		checkCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
		if err := authSvc.Revalidate(checkCtx); err != nil {
			logger.Debug().Err(err).Msg("could not revalidate restored session")
		}
		cancel()
	}

	interval := cfg.StatsInterval
	if opts.PollEvery > 0 {
		interval = opts.PollEvery
	}
	poller := StartPoller(ctx, store, packetSvc, manager, interval, logger)

	logger.Info().
		Str("api", client.BaseURL()).
		Str("session_backend", cfg.Session.Backend).
		Msg("packetdesk started")

	return ui.Run(ctx, ui.Options{
		Auth:      authSvc,
		Packets:   packetSvc,
		Session:   manager,
		Store:     store,
		Stats:     poller,
		Config:    cfg,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		Logger:    logger,
	})
}

func openSessionStore(ctx context.Context, cfg config.SessionConfig) (session.Store, io.Closer, error) {
	switch cfg.Backend {
	case config.SessionBackendRedis:
		store, err := session.DialRedis(ctx, session.RedisOptions{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
			Key:  cfg.RedisKey,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case config.SessionBackendMemory:
		return &session.MemoryStore{}, noopCloser{}, nil
	default:
		return session.NewFileStore(cfg.Path), noopCloser{}, nil
	}
}

type noopCloser struct{}

func (noopCloser) Close() error { return nil }

var _ Authenticator = (*session.Manager)(nil)
