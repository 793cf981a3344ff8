// SPDX-License-Identifier: EPL-2.0

package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// JSONStore keeps the library in a JSON object file and rewrites the whole
// file after every change.
type JSONStore struct {
	mu     sync.Mutex
	path   string
	tracks map[string]string
}

// OpenJSON loads path. A missing file is an empty library that is created
// on the first change.
func OpenJSON(path string) (*JSONStore, error) {
	s := &JSONStore{path: path, tracks: make(map[string]string)}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("%w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.tracks); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return s, nil
}

// save must be called with s.mu held. The file is replaced atomically.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.tracks, "", "  ")
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".library-*.json")
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (s *JSONStore) Add(name, path string) error {
	if name == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tracks[name]; ok {
		return fmt.Errorf("%q: %w", name, ErrDuplicate)
	}
	s.tracks[name] = path
	if err := s.save(); err != nil {
		delete(s.tracks, name)
		return err
	}

	return nil
}

func (s *JSONStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, ok := s.tracks[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	delete(s.tracks, name)
	if err := s.save(); err != nil {
		s.tracks[name] = path
		return err
	}

	return nil
}

func (s *JSONStore) Path(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, ok := s.tracks[name]
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return path, nil
}

// List reports the file modification time as Added, since the JSON format
// stores no dates.
func (s *JSONStore) List() ([]Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added time.Time
	if st, err := os.Stat(s.path); err == nil {
		added = st.ModTime()
	}

	out := make([]Track, 0, len(s.tracks))
	for name, path := range s.tracks {
		out = append(out, Track{Name: name, Path: path, Added: added})
	}
	slices.SortFunc(out, func(a, b Track) int { return strings.Compare(a.Name, b.Name) })

	return out, nil
}

func (s *JSONStore) Close() error { return nil }
