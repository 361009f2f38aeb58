package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/packetdesk/internal/packets"
	"github.com/five82/packetdesk/internal/state"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 30 * time.Second
)

// StatsFetcher is the slice of packets.Service the poller needs.
type StatsFetcher interface {
	Stats(ctx context.Context) (packets.Stats, error)
}

// Authenticator reports whether a session is signed in.
type Authenticator interface {
	IsAuthenticated() bool
}

var (
	_ StatsFetcher = (*packets.Service)(nil)
)

// Poller refreshes the dashboard counters in the background.
type Poller struct {
	store    *state.Store
	fetcher  StatsFetcher
	auth     Authenticator
	interval time.Duration
	log      zerolog.Logger
	nudge    chan struct{}
}

// NewPoller builds a Poller. A non-positive interval uses the default.
func NewPoller(store *state.Store, fetcher StatsFetcher, auth Authenticator, interval time.Duration, logger zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		store:    store,
		fetcher:  fetcher,
		auth:     auth,
		interval: interval,
		log:      logger,
		nudge:    make(chan struct{}, 1),
	}
}

// StartPoller launches a Poller on its own goroutine and returns it.
func StartPoller(ctx context.Context, store *state.Store, fetcher StatsFetcher, auth Authenticator, interval time.Duration, logger zerolog.Logger) *Poller {
	p := NewPoller(store, fetcher, auth, interval, logger)
	go p.Run(ctx)
	return p
}

// Refresh asks for an immediate poll. It never blocks; a pending request
// absorbs later ones.
func (p *Poller) Refresh() {
	select {
	case p.nudge <- struct{}{}:
	default:
	}
}

// Run polls until ctx is cancelled. Nothing is fetched while signed out.
// Consecutive failures stretch the wait between polls.
func (p *Poller) Run(ctx context.Context) {
	failures := 0
	for {
		if p.auth.IsAuthenticated() {
			if p.refresh(ctx) {
				failures = 0
			} else {
				failures++
			}
		}

		timer := time.NewTimer(calculateBackoff(failures, p.interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-p.nudge:
			timer.Stop()
		case <-timer.C:
		}
	}
}

func (p *Poller) refresh(ctx context.Context) bool {
	stats, err := p.fetcher.Stats(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		p.store.UpdateStats(nil, err)
		p.log.Error().Err(err).Msg("stats poll failed")
		return false
	}
	p.store.UpdateStats(&stats, nil)
	return true
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff. A base already above the cap is used as is.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures < 0 {
		failures = 0
	}
	limit := maxBackoff
	if base > limit {
		limit = base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= limit {
			return limit
		}
	}
	return wait
}
