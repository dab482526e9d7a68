// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists the identifiers of papers already handled by a
// previous run so they are never recommended twice.
//
// The store is a single YAML file read fully at the start of a run and
// rewritten fully at the end. Only one run may use a given file at a time;
// this is assumed, not enforced.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.yaml.in/yaml/v3"
)

// Store reads and writes the processed-ID file.
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path. The file and its
// parent directory are created on the first Append.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// Load returns the set of processed identifiers. A missing or empty file
// yields an empty set.
func (s *Store) Load() (map[string]struct{}, error) {
	ids, err := s.read()
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// Append adds ids to the stored set and rewrites the file. Duplicates,
// both within ids and against the stored set, are written once.
func (s *Store) Append(ids []string) error {
	set, err := s.Load()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)

	return s.write(out)
}

func (s *Store) read() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading processed IDs %s: %w", s.path, err)
	}

	var ids []string
	if err := yaml.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("parsing processed IDs %s: %w", s.path, err)
	}
	return ids, nil
}

// write replaces the file through a temp file and rename so a crash never
// leaves a truncated store behind.
func (s *Store) write(ids []string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshaling processed IDs: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".processed-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp state file: %w", err)
	}
	// CreateTemp uses 0600; match the other files a run writes.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("setting state file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}
