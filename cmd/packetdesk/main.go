package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/five82/packetdesk/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (optional, defaults to ~/.config/packetdesk/config.toml)")
	prefsPath := flag.String("prefs", "", "preferences file path (optional)")
	poll := flag.Duration("poll", 0, "stats refresh interval (optional, defaults to stats_interval)")
	envFile := flag.String("env", "", "dotenv file with PACKETDESK_* overrides (optional, .env is read when present)")
	flag.Parse()

	if err := loadEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "packetdesk: %v\n", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath, PrefsPath: *prefsPath}
	if *poll > 0 {
		opts.PollEvery = max(*poll, time.Second)
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "packetdesk: %v\n", err)
		return 1
	}
	return 0
}

// loadEnv reads a dotenv file into the process environment. Variables that
// are already set win. A missing default .env is not an error.
func loadEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
