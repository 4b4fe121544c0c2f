// Package exports manages the directory of generated XLSX files: filename
// derivation from client names, lookup for downloads, and the best-effort
// time-to-live reaper.
package exports

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is reported when a download references a file the reaper (or a
// concurrent overwrite) already removed.
var ErrNotFound = errors.New("export file not found")

// maxClientLen bounds the sanitized client identifier used as filename base.
const maxClientLen = 50

// DefaultClient is used when sanitizing leaves nothing of the client name.
const DefaultClient = "Cliente"

type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// SanitizeClientName reduces a client identifier to a filename-safe string:
// letters, digits, underscore and hyphen only, bounded length. Anything else
// becomes an underscore, matching what users see in the saved filename.
func SanitizeClientName(name string) string {
	name = strings.TrimSpace(name)
	if len(name) > maxClientLen {
		name = name[:maxClientLen]
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if strings.Trim(out, "_") == "" {
		return DefaultClient
	}
	return out
}

// Filename derives the deterministic export filename for a client. Two
// requests for the same client overwrite each other; last writer wins.
func Filename(client string) string {
	return SanitizeClientName(client) + ".xlsx"
}

// Path resolves a filename inside the store, rejecting any path component
// smuggled into it.
func (s *Store) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// Open returns the saved export for streaming, or ErrNotFound when it no
// longer exists.
func (s *Store) Open(filename string) (*os.File, os.FileInfo, error) {
	path := s.Path(filename)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("open export %s: %w", filename, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat export %s: %w", filename, err)
	}
	return f, info, nil
}

// Reap deletes exports older than ttl and returns how many were removed.
// Failures on individual files are logged and skipped: cleanup is best
// effort, a lost race with a download just surfaces as not-found there.
func (s *Store) Reap(ttl time.Duration) int {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.xlsx"))
	if err != nil {
		slog.Warn("Export reap glob failed", "dir", s.dir, "error", err)
		return 0
	}

	cutoff := time.Now().Add(-ttl)
	removed := 0
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			slog.Warn("Export reap remove failed", "file", path, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		slog.Debug("Export reap completed", "removed", removed, "dir", s.dir)
	}
	return removed
}

// Run reaps on a fixed interval until the context is cancelled.
func (s *Store) Run(ctx context.Context, interval, ttl time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Reap(ttl)
		}
	}
}
