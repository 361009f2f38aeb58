// Package prefs persists the few settings the console changes at runtime:
// the color theme and the status filter the packet list opens with. They
// live in ~/.config/packetdesk/prefs.toml, apart from the operator-edited
// config file.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/packetdesk/internal/config"
)

type Prefs struct {
	Theme         string `toml:"theme"`
	DefaultStatus string `toml:"default_status"`
}

const (
	defaultPrefsPath = "~/.config/packetdesk/prefs.toml"
	defaultTheme     = "Nightfox"
	defaultStatus    = "all"
)

var knownStatuses = map[string]bool{
	"all":      true,
	"pending":  true,
	"approved": true,
	"rejected": true,
}

// DefaultPath is where prefs are kept when no path is configured.
func DefaultPath() string {
	return defaultPrefsPath
}

// Defaults are the prefs used when nothing valid is stored.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme, DefaultStatus: defaultStatus}
}

// Load reads prefs from path, or the default location when path is blank.
// A missing or unreadable file gives the defaults, and so does each field
// that is empty or unknown; prefs never block startup.
func Load(path string) (Prefs, error) {
	file, err := locate(path)
	if err != nil {
		return Defaults(), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return Defaults(), nil
	}

	var stored Prefs
	if err := toml.Unmarshal(data, &stored); err != nil {
		return Defaults(), nil
	}
	return stored.normalized(), nil
}

func (p Prefs) normalized() Prefs {
	out := Defaults()
	if theme := strings.TrimSpace(p.Theme); theme != "" {
		out.Theme = theme
	}
	if status := strings.ToLower(strings.TrimSpace(p.DefaultStatus)); knownStatuses[status] {
		out.DefaultStatus = status
	}
	return out
}

// Save writes p to path through a temp file and rename, so a crash never
// leaves a half-written prefs file behind.
func Save(path string, p Prefs) error {
	file, err := locate(path)
	if err != nil {
		return fmt.Errorf("resolve prefs path: %w", err)
	}
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("create temp prefs: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), file); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

func locate(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return config.ExpandPath(path)
}
