// Package store keeps merged output packages on a filesystem so completed
// jobs can be downloaded until their TTL expires.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// Store writes merge results beneath a single directory on an afero
// filesystem. Tests use an in-memory filesystem.
type Store struct {
	fs  afero.Fs
	dir string
}

// New creates the result directory if needed.
func New(fs afero.Fs, dir string) (*Store, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create result dir: %w", err)
	}
	return &Store{fs: fs, dir: dir}, nil
}

// Save writes a result and returns its path.
func (s *Store) Save(id string, data []byte) (string, error) {
	path := s.path(id)
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("save result %s: %w", id, err)
	}
	return path, nil
}

// Open returns a reader over a stored result.
func (s *Store) Open(id string) (io.ReadCloser, error) {
	f, err := s.fs.Open(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("result %s: %w", id, os.ErrNotExist)
		}
		return nil, fmt.Errorf("open result %s: %w", id, err)
	}
	return f, nil
}

// Size returns the byte size of a stored result.
func (s *Store) Size(id string) (int64, error) {
	info, err := s.fs.Stat(s.path(id))
	if err != nil {
		return 0, fmt.Errorf("stat result %s: %w", id, err)
	}
	return info.Size(), nil
}

// Delete removes a stored result. Missing results are not an error.
func (s *Store) Delete(id string) error {
	err := s.fs.Remove(s.path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete result %s: %w", id, err)
	}
	return nil
}

// Sweep removes results older than maxAge and returns how many were removed.
func (s *Store) Sweep(maxAge time.Duration) (int, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return 0, fmt.Errorf("sweep results: %w", err)
	}
	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() || !entry.ModTime().Before(cutoff) {
			continue
		}
		if err := s.fs.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".docx")
}
