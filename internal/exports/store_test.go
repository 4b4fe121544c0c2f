package exports

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSanitizeClientName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Rossi", "Rossi"},
		{"keeps allowed chars", "Rossi_Mario-2", "Rossi_Mario-2"},
		{"spaces become underscores", "Rossi Mario", "Rossi_Mario"},
		{"path traversal", "../etc/passwd", "___etc_passwd"},
		{"accents replaced", "Cliènte", "Cli_nte"},
		{"empty falls back", "", DefaultClient},
		{"only junk falls back", "///", DefaultClient},
		{"truncated to bound", strings.Repeat("a", 80), strings.Repeat("a", maxClientLen)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeClientName(tt.in); got != tt.want {
				t.Errorf("SanitizeClientName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("Rossi Mario"); got != "Rossi_Mario.xlsx" {
		t.Errorf("Filename() = %q", got)
	}
}

func TestPathRejectsTraversal(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	got := store.Path("../../escape.xlsx")
	if filepath.Dir(got) != store.Dir() {
		t.Errorf("Path() escaped the store dir: %q", got)
	}
}

func TestOpenNotFound(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	_, _, err = store.Open("missing.xlsx")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Open() error = %v, want ErrNotFound", err)
	}
}

func TestReap(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	oldFile := filepath.Join(dir, "old.xlsx")
	freshFile := filepath.Join(dir, "fresh.xlsx")
	otherFile := filepath.Join(dir, "ignored.txt")
	for _, p := range []string{oldFile, freshFile, otherFile} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	stale := time.Now().Add(-2 * time.Minute)
	if err := os.Chtimes(oldFile, stale, stale); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(otherFile, stale, stale); err != nil {
		t.Fatal(err)
	}

	removed := store.Reap(time.Minute)
	if removed != 1 {
		t.Errorf("Reap() = %d, want 1", removed)
	}
	if _, err := os.Stat(oldFile); !errors.Is(err, os.ErrNotExist) {
		t.Error("stale export still present")
	}
	if _, err := os.Stat(freshFile); err != nil {
		t.Errorf("fresh export removed: %v", err)
	}
	if _, err := os.Stat(otherFile); err != nil {
		t.Errorf("non-xlsx file touched: %v", err)
	}
}
