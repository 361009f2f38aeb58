package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Session backends understood by Load.
const (
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

// Config is the resolved packetdesk configuration.
type Config struct {
	APIURL         string
	PageSize       int
	SearchDebounce time.Duration
	RequestTimeout time.Duration
	StatsInterval  time.Duration
	DownloadDir    string
	LogFile        string
	LogLevel       string
	Session        SessionConfig
}

// SessionConfig selects where the signed-in session is persisted.
type SessionConfig struct {
	Backend   string
	Path      string
	RedisAddr string
	RedisDB   int
	RedisKey  string
}

const (
	defaultConfigPath     = "~/.config/packetdesk/config.toml"
	defaultAPIURL         = "http://127.0.0.1:5000/api"
	defaultPageSize       = 10
	defaultSearchDebounce = 500 * time.Millisecond
	defaultRequestTimeout = 15 * time.Second
	defaultStatsInterval  = 30 * time.Second
	defaultDownloadDir    = "~/Downloads"
	defaultLogFile        = "~/.local/state/packetdesk/packetdesk.log"
	defaultLogLevel       = "info"
	defaultSessionPath    = "~/.config/packetdesk/session.toml"
	defaultRedisAddr      = "127.0.0.1:6379"
	defaultRedisKey       = "packetdesk:session"
)

// Environment variables that override file values.
const (
	EnvAPIURL         = "PACKETDESK_API_URL"
	EnvLogLevel       = "PACKETDESK_LOG_LEVEL"
	EnvSessionBackend = "PACKETDESK_SESSION_BACKEND"
	EnvRedisAddr      = "PACKETDESK_REDIS_ADDR"
)

type rawConfig struct {
	APIURL         string     `toml:"api_url"`
	PageSize       int        `toml:"page_size"`
	SearchDebounce string     `toml:"search_debounce"`
	RequestTimeout string     `toml:"request_timeout"`
	StatsInterval  string     `toml:"stats_interval"`
	DownloadDir    string     `toml:"download_dir"`
	LogFile        string     `toml:"log_file"`
	LogLevel       string     `toml:"log_level"`
	Session        rawSession `toml:"session"`
}

type rawSession struct {
	Backend   string `toml:"backend"`
	Path      string `toml:"path"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
	RedisKey  string `toml:"redis_key"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		PageSize:       defaultPageSize,
		SearchDebounce: defaultSearchDebounce,
		RequestTimeout: defaultRequestTimeout,
		StatsInterval:  defaultStatsInterval,
		DownloadDir:    mustExpand(defaultDownloadDir),
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		Session: SessionConfig{
			Backend:   SessionBackendFile,
			Path:      mustExpand(defaultSessionPath),
			RedisAddr: defaultRedisAddr,
			RedisKey:  defaultRedisKey,
		},
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
// Environment overrides are applied last.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			if err := applyEnv(&cfg); err != nil {
				return Config{}, err
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg, err := fromRaw(raw)
	if err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func fromRaw(raw rawConfig) (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}

	var err error
	if cfg.SearchDebounce, err = parseDuration("search_debounce", raw.SearchDebounce, defaultSearchDebounce); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout, defaultRequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.StatsInterval, err = parseDuration("stats_interval", raw.StatsInterval, defaultStatsInterval); err != nil {
		return Config{}, err
	}

	if v := strings.TrimSpace(raw.DownloadDir); v != "" {
		cfg.DownloadDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	if v := strings.TrimSpace(raw.Session.Backend); v != "" {
		cfg.Session.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.Session.Path); v != "" {
		cfg.Session.Path = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.Session.RedisAddr); v != "" {
		cfg.Session.RedisAddr = v
	}
	if raw.Session.RedisDB > 0 {
		cfg.Session.RedisDB = raw.Session.RedisDB
	}
	if v := strings.TrimSpace(raw.Session.RedisKey); v != "" {
		cfg.Session.RedisKey = v
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvSessionBackend)); v != "" {
		cfg.Session.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisAddr)); v != "" {
		cfg.Session.RedisAddr = v
	}
	return cfg.validate()
}

func (c Config) validate() error {
	switch c.Session.Backend {
	case SessionBackendFile, SessionBackendRedis, SessionBackendMemory:
	default:
		return fmt.Errorf("session backend %q: want file, redis or memory", c.Session.Backend)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	return nil
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", field, err)
	}
	if d <= 0 {
		return fallback, nil
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ to the home directory and makes path
// absolute.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
