package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldToken = "token"
	fieldUser  = "user"
)

// RedisStore keeps the session in a redis hash so several terminals at one
// counter can share a sign-in.
type RedisStore struct {
	client *redis.Client
	key    string
}

// RedisOptions configure DialRedis.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// DialRedis connects and pings redis before returning a store.
func DialRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStore(client, opts.Key), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "packetdesk:session"
	}
	return &RedisStore{client: client, key: key}
}

func (r *RedisStore) Load(ctx context.Context) (Session, bool, error) {
	values, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return Session{}, false, fmt.Errorf("redis load session: %w", err)
	}
	s := Session{Token: values[fieldToken]}
	if raw := values[fieldUser]; raw != "" {
		var u User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			return Session{}, false, fmt.Errorf("decode session user: %w", err)
		}
		s.User = &u
	}
	if s.empty() {
		return Session{}, false, nil
	}
	return s, true, nil
}

func (r *RedisStore) Save(ctx context.Context, s Session) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.key)
	fields := map[string]any{fieldToken: s.Token}
	if s.User != nil {
		raw, err := json.Marshal(s.User)
		if err != nil {
			return fmt.Errorf("encode session user: %w", err)
		}
		fields[fieldUser] = string(raw)
	}
	pipe.HSet(ctx, r.key, fields)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis clear session: %w", err)
	}
	return nil
}

// Close releases the redis connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
