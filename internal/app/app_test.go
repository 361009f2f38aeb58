package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/five82/packetdesk/internal/config"
	"github.com/five82/packetdesk/internal/session"
)

func TestOpenSessionStore(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  config.SessionConfig
		want string
	}{
		{"file", config.SessionConfig{Backend: config.SessionBackendFile, Path: filepath.Join(t.TempDir(), "session.toml")}, "*session.FileStore"},
		{"memory", config.SessionConfig{Backend: config.SessionBackendMemory}, "*session.MemoryStore"},
		{"redis", config.SessionConfig{Backend: config.SessionBackendRedis, RedisAddr: mr.Addr(), RedisKey: "k"}, "*session.RedisStore"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, closer, err := openSessionStore(context.Background(), tt.cfg)
			if err != nil {
				t.Fatalf("openSessionStore: %v", err)
			}
			defer closer.Close()

			var got string
			switch store.(type) {
			case *session.FileStore:
				got = "*session.FileStore"
			case *session.MemoryStore:
				got = "*session.MemoryStore"
			case *session.RedisStore:
				got = "*session.RedisStore"
			}
			if got != tt.want {
				t.Fatalf("store = %T, want %s", store, tt.want)
			}
		})
	}
}

func TestOpenSessionStore_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, _, err := openSessionStore(context.Background(), config.SessionConfig{Backend: config.SessionBackendRedis, RedisAddr: addr})
	if err == nil {
		t.Fatalf("openSessionStore with redis down returned nil error")
	}
}
