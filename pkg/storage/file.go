package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const (
	xdgAppName = "toka"
	lockFile   = ".lock"
)

// File stores each key as <dir>/<key>.json. Reads and writes hold an
// advisory lock on <dir>/.lock so concurrent processes never observe a
// partially written value; the last writer wins.
type File struct {
	Dir string
	flk *flock.Flock
}

// DefaultDir returns ~/.config/toka.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

// NewFile opens a file-backed storage rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &File{
		Dir: dir,
		flk: flock.New(filepath.Join(dir, lockFile)),
	}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.Dir, key+".json")
}

func (f *File) GetItem(key string) (string, bool, error) {
	if err := ValidateKey(key); err != nil {
		return "", false, err
	}
	if err := f.flk.RLock(); err != nil {
		return "", false, fmt.Errorf("failed to lock storage: %w", err)
	}
	defer f.flk.Unlock()

	b, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(b), true, nil
}

func (f *File) SetItem(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := f.flk.Lock(); err != nil {
		return fmt.Errorf("failed to lock storage: %w", err)
	}
	defer f.flk.Unlock()

	tmp, err := os.CreateTemp(f.Dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

func (f *File) RemoveItem(key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := f.flk.Lock(); err != nil {
		return fmt.Errorf("failed to lock storage: %w", err)
	}
	defer f.flk.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}
