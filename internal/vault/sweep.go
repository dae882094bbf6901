package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/credvault/internal/filex"
)

// SweepReport lists the paths Sweep removed.
type SweepReport struct {
	Removed []string
}

// Sweep deletes leftovers of interrupted writes: staged temp files and
// orphan halves (a key without its blob or a blob without its key). Files
// that do not follow the vault naming scheme are left alone.
//
// Sweep holds every stripe for its whole run, so it should be called at
// startup or during maintenance rather than on a busy store.
func (s *Store) Sweep(ctx context.Context) (SweepReport, error) {
	if err := ctx.Err(); err != nil {
		return SweepReport{}, err
	}

	s.locks.lockAll()
	defer s.locks.unlockAll()

	report := SweepReport{Removed: make([]string, 0)}

	dirs := []struct {
		path, ext string
		partner   func(string) string
	}{
		{s.credsDir, blobExt, s.keyPath},
		{s.keysDir, keyExt, s.blobPath},
	}

	for _, d := range dirs {
		entries, err := os.ReadDir(d.path)
		if err != nil {
			return report, fmt.Errorf("list %s: %w", d.path, err)
		}
		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			if e.IsDir() {
				continue
			}
			path := filepath.Join(d.path, e.Name())

			if filex.IsTemp(e.Name()) {
				if err := s.sweepRemove(&report, path); err != nil {
					return report, err
				}
				continue
			}

			p, o, ok := parseName(e.Name(), d.ext)
			if !ok {
				continue
			}
			present, err := filex.Exists(d.partner(stem(p, o)))
			if err != nil {
				return report, fmt.Errorf("stat partner of %s: %w", path, err)
			}
			if present {
				continue
			}
			if err := s.sweepRemove(&report, path); err != nil {
				return report, err
			}
		}
	}

	if len(report.Removed) > 0 {
		s.log.Info(ctx, "sweep removed leftovers", "count", len(report.Removed))
	}
	return report, nil
}

func (s *Store) sweepRemove(report *SweepReport, path string) error {
	removed, err := filex.RemoveIfExists(path)
	if err != nil {
		return &WriteError{Op: "sweep", Path: path, Err: err}
	}
	if removed {
		report.Removed = append(report.Removed, path)
	}
	return nil
}
