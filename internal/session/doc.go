// Package session owns the signed-in identity.
//
// A Session is the bearer token plus the user returned at login. Manager keeps
// it in memory behind a RWMutex, because Bubble Tea commands run on their own
// goroutines, and writes every change through to a Store:
//
//   - FileStore: TOML file, mode 0600 (default)
//   - RedisStore: a redis hash, for terminals that share one sign-in
//   - MemoryStore: nothing survives the process
//
// Manager implements api.Credentials, so the API client reads the token from
// it and clears it on a 401.
package session
