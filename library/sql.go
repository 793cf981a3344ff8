// SPDX-License-Identifier: EPL-2.0

package library

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS tracks (
	name TEXT PRIMARY KEY,
	path TEXT NOT NULL,
	added INTEGER NOT NULL
);`

// SQLStore keeps the library in a SQLite table.
type SQLStore struct {
	db *sql.DB
}

// OpenSQL opens or creates the database at path and its tracks table.
func OpenSQL(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// one connection keeps ":memory:" databases shared and writes ordered
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Add(name, path string) error {
	if name == "" {
		return ErrEmptyName
	}

	res, err := s.db.Exec(
		`INSERT INTO tracks (name, path, added) VALUES (?, ?, ?) ON CONFLICT(name) DO NOTHING`,
		name, path, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("add %q: %w", name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%q: %w", name, ErrDuplicate)
	}

	return nil
}

func (s *SQLStore) Remove(name string) error {
	res, err := s.db.Exec(`DELETE FROM tracks WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("remove %q: %w", name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}

	return nil
}

func (s *SQLStore) Path(name string) (string, error) {
	var path string
	err := s.db.QueryRow(`SELECT path FROM tracks WHERE name = ?`, name).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("lookup %q: %w", name, err)
	}

	return path, nil
}

func (s *SQLStore) List() ([]Track, error) {
	rows, err := s.db.Query(`SELECT name, path, added FROM tracks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	var out []Track
	for rows.Next() {
		var (
			t     Track
			added int64
		)
		if err := rows.Scan(&t.Name, &t.Path, &added); err != nil {
			return nil, fmt.Errorf("list: %w", err)
		}
		t.Added = time.Unix(added, 0)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	return out, nil
}

func (s *SQLStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
