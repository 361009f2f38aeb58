package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func writePrefs(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p != Defaults() {
		t.Fatalf("Load = %+v, want %+v", p, Defaults())
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writePrefs(t, filepath.Join(home, ".config", "packetdesk", "prefs.toml"),
		"theme = \"Slate\"\ndefault_status = \"Pending\"\n")

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" || p.DefaultStatus != "pending" {
		t.Fatalf("Load = %+v, want Slate/pending", p)
	}
}

func TestSave_RoundTripCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	if err := Save(path, Prefs{Theme: "Bullion", DefaultStatus: "approved"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Theme != "Bullion" || loaded.DefaultStatus != "approved" {
		t.Fatalf("Load = %+v, want Bullion/approved", loaded)
	}
}

func TestLoad_FallsBackPerField(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Prefs
	}{
		{"empty theme", "theme = \"\"\ndefault_status = \"rejected\"\n", Prefs{Theme: defaultTheme, DefaultStatus: "rejected"}},
		{"unknown status", "theme = \"Slate\"\ndefault_status = \"lifted\"\n", Prefs{Theme: "Slate", DefaultStatus: defaultStatus}},
		{"invalid toml", "not valid toml {{{\n", Defaults()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prefs.toml")
			writePrefs(t, path, tt.content)

			p, err := Load(path)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if p != tt.want {
				t.Fatalf("Load = %+v, want %+v", p, tt.want)
			}
		})
	}
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.toml")

	for _, theme := range []string{"Slate", "Nightfox"} {
		if err := Save(path, Prefs{Theme: theme, DefaultStatus: "all"}); err != nil {
			t.Fatalf("Save(%s) returned error: %v", theme, err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "prefs.toml" {
		t.Fatalf("dir entries = %v, want only prefs.toml", entries)
	}
	if p, _ := Load(path); p.Theme != "Nightfox" {
		t.Fatalf("Theme = %q, want Nightfox (last save wins)", p.Theme)
	}
}
