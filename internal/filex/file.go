// Package filex holds the filesystem primitives the vault relies on:
// private directory creation, staged atomic writes and idempotent removal.
package filex

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// DirMode is used for every directory filex creates.
	DirMode os.FileMode = 0o700
	// FileMode is used for every file filex writes.
	FileMode os.FileMode = 0o600

	tempSuffix = ".tmp"
)

// EnsureDir creates dir (and parents) with DirMode if it does not exist and
// returns its absolute path. It fails if dir exists but is not a directory.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, DirMode); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}

// IsTemp reports whether name was produced by Stage. Listing code uses it to
// skip uncommitted files.
func IsTemp(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, tempSuffix)
}

// Staged is a fully written and fsynced temp file waiting to be renamed over
// its destination.
type Staged struct {
	path      string
	tmp       string
	committed bool
}

// Stage writes data to a hidden temp file next to path and fsyncs it. Nothing
// is visible at path until Commit.
func Stage(path string, data []byte) (*Staged, error) {
	dir, base := filepath.Split(path)
	tmp := filepath.Join(dir, "."+base+"."+uuid.NewString()+tempSuffix)

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, FileMode)
	if err != nil {
		return nil, fmt.Errorf("create temp for %s: %w", path, err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("write temp for %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("sync temp for %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("close temp for %s: %w", path, err)
	}

	return &Staged{path: path, tmp: tmp}, nil
}

// Commit atomically renames the temp file over the destination and syncs
// the parent directory.
func (s *Staged) Commit() error {
	if s.committed {
		return nil
	}
	if err := os.Rename(s.tmp, s.path); err != nil {
		return fmt.Errorf("rename %s: %w", s.path, err)
	}
	s.committed = true
	syncDir(filepath.Dir(s.path))
	return nil
}

// Discard removes the temp file unless it was committed. Safe to defer.
func (s *Staged) Discard() {
	if s == nil || s.committed {
		return
	}
	_ = os.Remove(s.tmp)
}

// RemoveIfExists deletes path and reports whether it existed.
func RemoveIfExists(path string) (bool, error) {
	err := os.Remove(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Exists reports whether path exists. Errors other than not-exist are returned.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// syncDir is best-effort: some platforms cannot fsync directories.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
