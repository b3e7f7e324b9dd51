package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "multisel.log")
	t.Setenv("MULTISEL_LOG_FILE", path)

	if err := Init(true); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	Debug("selection added", "start", 3, "end", 7)
	Close()
	defer Nop()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "logger initialized") {
		t.Fatalf("log missing init line:\n%s", out)
	}
	if !strings.Contains(out, "selection added") || !strings.Contains(out, "DEBUG") {
		t.Fatalf("log missing debug entry:\n%s", out)
	}
}

func TestHelpersBeforeInit(t *testing.T) {
	L, S = nil, nil
	// must not panic
	Debug("x")
	Info("x")
	Warn("x")
	Error("x")
}

func TestComponentNamesEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multisel.log")
	t.Setenv("MULTISEL_LOG_FILE", path)

	if err := Init(false); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	sel := Component("selection")
	sel.Debug("hidden at info level")
	sel.Warn("skipping stale interval", "interval", "[9,9]")
	Close()
	defer Nop()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden at info level") {
		t.Fatalf("debug entry written at info level:\n%s", out)
	}
	for _, want := range []string{"WARN", "selection", "skipping stale interval", "logger_test.go"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log missing %q:\n%s", want, out)
		}
	}
}

func TestComponentBeforeInit(t *testing.T) {
	L, S = nil, nil
	defer Nop()
	Component("editor").Info("x")
}
