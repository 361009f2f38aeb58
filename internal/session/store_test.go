package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.toml")
	store := NewFileStore(path)

	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("Load on missing file = ok %v, err %v; want nothing", ok, err)
	}

	want := Session{Token: "tok-1", User: &User{ID: "u1", Username: "asha", Role: "admin"}}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("session file mode = %o, want 600", perm)
	}

	got, ok, err := store.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load = ok %v, err %v; want session", ok, err)
	}
	if got.Token != want.Token || got.User == nil || *got.User != *want.User {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if _, ok, _ := store.Load(ctx); ok {
		t.Fatalf("Load after Clear found a session")
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear returned error: %v", err)
	}
}

func TestFileStore_CorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := os.WriteFile(path, []byte("token = [\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, _, err := NewFileStore(path).Load(context.Background()); err == nil {
		t.Fatalf("Load returned nil error for corrupt file")
	}
}

func TestMemoryStore_CopiesOnSave(t *testing.T) {
	ctx := context.Background()
	var store MemoryStore
	user := &User{ID: "u1", Username: "asha"}
	if err := store.Save(ctx, Session{Token: "t", User: user}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	user.Username = "mutated"

	got, ok, _ := store.Load(ctx)
	if !ok || got.User.Username != "asha" {
		t.Fatalf("Load = %+v, want stored copy unaffected by caller", got)
	}
	_ = store.Clear(ctx)
	if _, ok, _ := store.Load(ctx); ok {
		t.Fatalf("Load after Clear found a session")
	}
}
