// SPDX-License-Identifier: EPL-2.0

// Package library keeps the named track list the player offers for
// selection. Names are unique; each maps to a file path.
//
// JSONStore reads and writes a flat {"name": "path"} object, the format of
// mp3_library.json. SQLStore keeps the same data in SQLite through
// modernc.org/sqlite, which needs no cgo.
package library

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

var (
	ErrNotFound  = errors.New("track not found")
	ErrDuplicate = errors.New("track already in library")
	ErrEmptyName = errors.New("empty track name")
)

type Track struct {
	Name  string
	Path  string
	Added time.Time
}

// Store is a persistent track list. List returns tracks sorted by name.
type Store interface {
	Add(name, path string) error
	Remove(name string) error
	Path(name string) (string, error)
	List() ([]Track, error)
	Close() error
}

// Import adds path under its base file name. A name that is already known
// is left alone and reported with added == false.
func Import(s Store, path string) (name string, added bool, err error) {
	name = filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return "", false, fmt.Errorf("import %q: %w", path, ErrEmptyName)
	}

	err = s.Add(name, path)
	switch {
	case errors.Is(err, ErrDuplicate):
		return name, false, nil
	case err != nil:
		return name, false, err
	}

	return name, true, nil
}

// Copy adds every track of src to dst, skipping names dst already has, and
// returns how many were added.
func Copy(dst, src Store) (int, error) {
	tracks, err := src.List()
	if err != nil {
		return 0, err
	}

	n := 0
	for _, t := range tracks {
		err := dst.Add(t.Name, t.Path)
		switch {
		case errors.Is(err, ErrDuplicate):
		case err != nil:
			return n, err
		default:
			n++
		}
	}

	return n, nil
}
