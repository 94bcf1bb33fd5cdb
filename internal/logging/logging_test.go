package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_EmptyFileIsNop(t *testing.T) {
	log, sync, err := New("info", "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if log == nil || sync == nil {
		t.Fatal("New() returned nil logger or sync func")
	}
	log.Infow("dropped")
	sync()
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, _, err := New("loud", ""); err == nil {
		t.Fatal("New(invalid level) should return error")
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contactbus.log")

	log, sync, err := New("debug", path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	log.Named("bus").Debugw("Registered", "topic", "contact.available")
	sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	out := string(data)
	for _, want := range []string{"contactbus.bus", "Registered", "contact.available"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contactbus.log")

	log, sync, err := New("warn", path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	log.Debugw("hidden")
	log.Warnw("shown")
	sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Errorf("debug entry written at warn level:\n%s", data)
	}
	if !strings.Contains(string(data), "shown") {
		t.Errorf("warn entry missing:\n%s", data)
	}
}
