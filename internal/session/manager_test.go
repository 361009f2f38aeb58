package session

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestManager_InitRestoresStoredSession(t *testing.T) {
	ctx := context.Background()
	store := &MemoryStore{}
	_ = store.Save(ctx, Session{Token: "tok", User: &User{ID: "u1", Username: "asha"}})

	m := NewManager(store, zerolog.Nop())
	if m.IsAuthenticated() {
		t.Fatalf("IsAuthenticated = true before Init")
	}
	if err := m.Init(ctx); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if !m.IsAuthenticated() || m.Token() != "tok" || m.User().Username != "asha" {
		t.Fatalf("session = %+v, want restored", m.Current())
	}
}

func TestManager_InitDropsExpiredToken(t *testing.T) {
	ctx := context.Background()
	store := &MemoryStore{}
	token := signedToken(t, time.Now().Add(-time.Minute))
	_ = store.Save(ctx, Session{Token: token, User: &User{ID: "u1"}})

	m := NewManager(store, zerolog.Nop())
	if err := m.Init(ctx); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if m.IsAuthenticated() || m.Token() != "" {
		t.Fatalf("expired session was restored: %+v", m.Current())
	}
	if _, ok, _ := store.Load(ctx); ok {
		t.Fatalf("expired session left in store")
	}
}

func TestManager_InitDropsIncompleteSession(t *testing.T) {
	tests := []struct {
		name string
		s    Session
	}{
		{"user without token", Session{User: &User{ID: "u1", Username: "asha"}}},
		{"token without user", Session{Token: "tok"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := &MemoryStore{}
			if err := store.Save(ctx, tt.s); err != nil {
				t.Fatalf("Save: %v", err)
			}

			m := NewManager(store, zerolog.Nop())
			if err := m.Init(ctx); err != nil {
				t.Fatalf("Init returned error: %v", err)
			}
			if m.IsAuthenticated() || m.Token() != "" {
				t.Fatalf("incomplete session was restored: %+v", m.Current())
			}
			if _, ok, _ := store.Load(ctx); ok {
				t.Fatalf("incomplete session left in store")
			}
		})
	}
}

func TestManager_BeginAndClear(t *testing.T) {
	ctx := context.Background()
	store := &MemoryStore{}
	m := NewManager(store, zerolog.Nop())

	if err := m.Begin(ctx, Session{Token: "tok", User: &User{ID: "u1", Username: "ravi"}}); err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	if !m.IsAuthenticated() {
		t.Fatalf("IsAuthenticated = false after Begin")
	}
	if stored, ok, _ := store.Load(ctx); !ok || stored.Token != "tok" {
		t.Fatalf("store = %+v, want token mirrored", stored)
	}

	u := m.User()
	u.Username = "changed"
	if m.User().Username != "ravi" {
		t.Fatalf("User() returned shared pointer")
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if m.IsAuthenticated() || m.Token() != "" || m.User() != nil {
		t.Fatalf("session survived Clear: %+v", m.Current())
	}
	if _, ok, _ := store.Load(ctx); ok {
		t.Fatalf("store still holds a session after Clear")
	}
}

