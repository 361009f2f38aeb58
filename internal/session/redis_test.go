package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisStore_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	store, err := DialRedis(ctx, RedisOptions{Addr: mr.Addr(), Key: "desk:test"})
	if err != nil {
		t.Fatalf("DialRedis returned error: %v", err)
	}
	defer store.Close()

	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("Load on empty redis = ok %v, err %v; want nothing", ok, err)
	}

	want := Session{Token: "tok-9", User: &User{ID: "u9", Username: "meera", Role: "staff"}}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if got := mr.HGet("desk:test", fieldToken); got != "tok-9" {
		t.Fatalf("redis token = %q, want tok-9", got)
	}

	got, ok, err := store.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load = ok %v, err %v; want session", ok, err)
	}
	if got.Token != want.Token || got.User == nil || *got.User != *want.User {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}

	if err := store.Save(ctx, Session{Token: "tok-10"}); err != nil {
		t.Fatalf("Save without user returned error: %v", err)
	}
	got, _, _ = store.Load(ctx)
	if got.User != nil {
		t.Fatalf("User = %+v after saving a token-only session, want nil", got.User)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if mr.Exists("desk:test") {
		t.Fatalf("session key still present after Clear")
	}
}

func TestDialRedis_UnreachableFails(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := DialRedis(context.Background(), RedisOptions{Addr: addr}); err == nil {
		t.Fatalf("DialRedis returned nil error for a closed server")
	}
}
