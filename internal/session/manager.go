package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const storeTimeout = 5 * time.Second

// Manager holds the current session in memory and mirrors every change to
// its Store. It satisfies api.Credentials.
type Manager struct {
	mu      sync.RWMutex
	store   Store
	current Session
	log     zerolog.Logger
	now     func() time.Time
}

// NewManager returns a Manager backed by store. Call Init before use.
func NewManager(store Store, logger zerolog.Logger) *Manager {
	if store == nil {
		store = &MemoryStore{}
	}
	return &Manager{store: store, log: logger, now: time.Now}
}

// Init loads the persisted session once. A session missing its token or its
// user, or whose token exp claim has passed, is discarded.
func (m *Manager) Init(ctx context.Context) error {
	s, ok, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil
	}
	switch {
	case s.Token == "" || s.User == nil:
		m.log.Info().Msg("stored session incomplete")
	case s.Expired(m.now()):
		m.log.Info().Msg("stored session expired")
	default:
		m.mu.Lock()
		m.current = s.clone()
		m.mu.Unlock()
		m.log.Info().Str("user", s.User.Username).Msg("session restored")
		return nil
	}
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear stale session: %w", err)
	}
	return nil
}

// Begin replaces the session after a successful login.
func (m *Manager) Begin(ctx context.Context, s Session) error {
	m.mu.Lock()
	m.current = s.clone()
	m.mu.Unlock()

	if err := m.store.Save(ctx, s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if s.User != nil {
		m.log.Info().Str("user", s.User.Username).Str("role", s.User.Role).Msg("signed in")
	}
	return nil
}

// Token returns the bearer token, or "".
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Token
}

// User returns a copy of the signed-in user, or nil.
func (m *Manager) User() *User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current.User == nil {
		return nil
	}
	u := *m.current.User
	return &u
}

// IsAuthenticated reports whether a user is present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.User != nil
}

// Current returns a copy of the whole session.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.clone()
}

// Clear drops the session in memory and in the store.
func (m *Manager) Clear() error {
	m.mu.Lock()
	m.current = Session{}
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
