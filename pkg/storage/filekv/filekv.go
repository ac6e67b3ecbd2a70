// Package filekv persists client state as one JSON file per key under a
// state directory, the CLI analog of browser local storage.
package filekv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store writes each key to <dir>/<key>.json atomically via rename.
type Store struct {
	dir string
}

// New ensures the state directory exists and returns the store. A leading
// "~/" in dir expands to the user home directory.
func New(dir string) (*Store, error) {
	expanded, err := expandHome(dir)
	if err != nil {
		return nil, err
	}
	if expanded == "" {
		return nil, errors.New("state directory is required")
	}
	if err := os.MkdirAll(expanded, 0o700); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}
	return &Store{dir: expanded}, nil
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return string(raw), true, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("committing %s: %w", key, err)
	}
	return nil
}

func (s *Store) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", key, err)
		}
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func expandHome(dir string) (string, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home dir: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(trimmed, "~")), nil
	}
	return trimmed, nil
}
