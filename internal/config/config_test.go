package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestConfigDirEnv(t *testing.T) {
	t.Setenv("MULTISEL_CONFIG_HOME", "/tmp/multisel-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/multisel-config" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/multisel-config")
	}

	t.Setenv("MULTISEL_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg/multisel" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/xdg/multisel")
	}
}

func TestLoadMissingUsesDefaults(t *testing.T) {
	t.Setenv("MULTISEL_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Selection.AbortOnError {
		t.Fatalf("AbortOnError = false, want true")
	}
	if cfg.Selection.Marker != "z" {
		t.Fatalf("Marker = %q, want %q", cfg.Selection.Marker, "z")
	}
	if cfg.Keymap.Normal["+"] != "selection_add" {
		t.Fatalf("keymap + = %q, want %q", cfg.Keymap.Normal["+"], "selection_add")
	}
}

func TestLoadWithThemeAndOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MULTISEL_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "test.toml"), `
foreground = "#111111"
background = "#222222"
multiselect-background = "#333333"
`)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[editor]
tab-width = 8
shift-width = 2
line-numbers = "relative"

[selection]
abort-on-error = false
stop-on-error = true
marker = "q"

[theme]
theme = "test"
commandline-background = "#123456"

[keymap.normal]
x = "quit"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.TabWidth != 8 {
		t.Fatalf("TabWidth = %d, want 8", cfg.Editor.TabWidth)
	}
	if cfg.Editor.ShiftWidth != 2 {
		t.Fatalf("ShiftWidth = %d, want 2", cfg.Editor.ShiftWidth)
	}
	if cfg.Editor.LineNumbers != "relative" {
		t.Fatalf("LineNumbers = %q, want %q", cfg.Editor.LineNumbers, "relative")
	}
	if cfg.Selection.AbortOnError {
		t.Fatalf("AbortOnError = true, want false")
	}
	if !cfg.Selection.StopOnError {
		t.Fatalf("StopOnError = false, want true")
	}
	if cfg.Selection.Marker != "q" {
		t.Fatalf("Marker = %q, want %q", cfg.Selection.Marker, "q")
	}
	if cfg.Theme.Foreground != "#111111" {
		t.Fatalf("Foreground = %q, want %q", cfg.Theme.Foreground, "#111111")
	}
	if cfg.Theme.MultiselectBackground != "#333333" {
		t.Fatalf("MultiselectBackground = %q, want %q", cfg.Theme.MultiselectBackground, "#333333")
	}
	if cfg.Theme.CommandlineBackground != "#123456" {
		t.Fatalf("CommandlineBackground = %q, want %q", cfg.Theme.CommandlineBackground, "#123456")
	}
	if cfg.Keymap.Normal["x"] != "quit" {
		t.Fatalf("keymap x = %q, want %q", cfg.Keymap.Normal["x"], "quit")
	}
	if cfg.Keymap.Normal["j"] != "move_down" {
		t.Fatalf("keymap j = %q, want %q", cfg.Keymap.Normal["j"], "move_down")
	}
}

func TestLoadThemeWrapped(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MULTISEL_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "wrapped.toml"), `
[theme]
foreground = "#aaaaaa"
background = "#bbbbbb"
`)

	theme, err := LoadTheme("wrapped")
	if err != nil {
		t.Fatalf("LoadTheme error: %v", err)
	}
	if theme.Foreground != "#aaaaaa" {
		t.Fatalf("Foreground = %q, want %q", theme.Foreground, "#aaaaaa")
	}
	if theme.Background != "#bbbbbb" {
		t.Fatalf("Background = %q, want %q", theme.Background, "#bbbbbb")
	}
}
