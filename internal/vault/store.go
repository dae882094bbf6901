package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/cryptox"
	"github.com/dmitrijs2005/credvault/internal/filex"
	"github.com/dmitrijs2005/credvault/internal/logging"
)

// Config holds everything a Store needs. There are no package-level
// defaults; each Store is fully described by its Config.
type Config struct {
	// CredentialsDir receives the encrypted blobs.
	CredentialsDir string
	// KeysDir receives the per-record keys. Must differ from CredentialsDir.
	KeysDir string
	// Logger defaults to a discarding logger.
	Logger logging.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Credential is what Get releases: the username and the secret, nothing else.
type Credential struct {
	Username string
	Secret   []byte
}

// Wipe zeroes the secret and clears the credential.
func (c *Credential) Wipe() {
	common.WipeByteArray(c.Secret)
	c.Secret = nil
	c.Username = ""
}

// Store is the file-backed credential vault. It is safe for concurrent use
// within one process.
type Store struct {
	credsDir string
	keysDir  string
	log      logging.Logger
	now      func() time.Time
	locks    *stripedLock
}

var _ Vault = (*Store)(nil)

// New creates both directories if needed and returns a Store over them.
func New(cfg Config) (*Store, error) {
	if cfg.CredentialsDir == "" || cfg.KeysDir == "" {
		return nil, errors.New("credentials and keys directories are required")
	}

	credsDir, err := filex.EnsureDir(cfg.CredentialsDir)
	if err != nil {
		return nil, fmt.Errorf("credentials dir: %w", err)
	}
	keysDir, err := filex.EnsureDir(cfg.KeysDir)
	if err != nil {
		return nil, fmt.Errorf("keys dir: %w", err)
	}
	if sameDir(credsDir, keysDir) {
		return nil, ErrSplitStorage
	}

	log := cfg.Logger
	if log == nil {
		log = logging.NewDiscardLogger()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Store{
		credsDir: credsDir,
		keysDir:  keysDir,
		log:      log.With("component", "vault"),
		now:      now,
		locks:    newStripedLock(),
	}, nil
}

// CredentialsDir returns the absolute blob directory.
func (s *Store) CredentialsDir() string { return s.credsDir }

// KeysDir returns the absolute key directory.
func (s *Store) KeysDir() string { return s.keysDir }

// Add encrypts a new record under a fresh key and writes the blob and key,
// replacing any previous pair for the same platform and owner.
//
// The secret slice is not retained; the caller may wipe it afterwards.
func (s *Store) Add(ctx context.Context, platform, username string, secret []byte, owner string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := CanonicalPlatform(platform)
	if err != nil {
		return err
	}
	if err := ValidateOwner(owner); err != nil {
		return err
	}
	if !utf8.ValidString(username) || !utf8.Valid(secret) {
		return ErrInvalidText
	}

	plaintext, err := MarshalRecord(Record{
		Platform:  strings.TrimSpace(platform),
		Username:  username,
		Secret:    secret,
		Owner:     owner,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return err
	}
	defer common.WipeByteArray(plaintext)

	key, err := cryptox.GenerateKey()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	artifact, err := cryptox.Seal(key, plaintext)
	if err != nil {
		return fmt.Errorf("encrypt record: %w", err)
	}

	name := stem(p, owner)
	mu := s.locks.forKey(name)
	mu.Lock()
	defer mu.Unlock()

	if err := s.writePair(name, artifact, key); err != nil {
		s.log.Error(ctx, "credential write failed", "platform", p, "owner", owner, "error", err)
		return err
	}

	s.log.Info(ctx, "credential stored", "platform", p, "owner", owner)
	return nil
}

// writePair stages both artifacts, retires the old key and commits the
// blob and then the key. Until the key rename succeeds the record reads as
// absent.
func (s *Store) writePair(name string, artifact, key []byte) error {
	blobPath, keyPath := s.blobPath(name), s.keyPath(name)

	blob, err := filex.Stage(blobPath, artifact)
	if err != nil {
		return &WriteError{Op: "stage blob", Path: blobPath, Err: err}
	}
	defer blob.Discard()

	k, err := filex.Stage(keyPath, key)
	if err != nil {
		return &WriteError{Op: "stage key", Path: keyPath, Err: err}
	}
	defer k.Discard()

	if _, err := filex.RemoveIfExists(keyPath); err != nil {
		return &WriteError{Op: "retire key", Path: keyPath, Err: err}
	}
	if err := blob.Commit(); err != nil {
		return &WriteError{Op: "commit blob", Path: blobPath, Err: err}
	}
	if err := k.Commit(); err != nil {
		return &WriteError{Op: "commit key", Path: keyPath, Err: err}
	}
	return nil
}

// Get decrypts the record for platform and owner and returns only its
// username and secret. The platform match is case-insensitive.
func (s *Store) Get(ctx context.Context, platform, owner string) (Credential, error) {
	if err := ctx.Err(); err != nil {
		return Credential{}, err
	}
	p, err := CanonicalPlatform(platform)
	if err != nil {
		return Credential{}, err
	}
	if err := ValidateOwner(owner); err != nil {
		return Credential{}, err
	}

	name := stem(p, owner)
	mu := s.locks.forKey(name)
	mu.RLock()
	defer mu.RUnlock()

	cred, err := s.open(name, p, owner)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Info(ctx, "credential not found", "platform", p, "owner", owner, "error", err)
		} else {
			s.log.Error(ctx, "credential read failed", "platform", p, "owner", owner, "error", err)
		}
		return Credential{}, err
	}

	s.log.Info(ctx, "credential released", "platform", p, "owner", owner)
	return cred, nil
}

func (s *Store) open(name, platform, owner string) (Credential, error) {
	blobPath, keyPath := s.blobPath(name), s.keyPath(name)

	key, err := os.ReadFile(keyPath)
	if errors.Is(err, fs.ErrNotExist) {
		if ok, _ := filex.Exists(blobPath); ok {
			return Credential{}, fmt.Errorf("%w: key missing for %s", ErrIncomplete, name)
		}
		return Credential{}, fmt.Errorf("%w: %s for %s", ErrNotFound, platform, owner)
	}
	if err != nil {
		return Credential{}, fmt.Errorf("read key %s: %w", keyPath, err)
	}
	defer common.WipeByteArray(key)

	artifact, err := os.ReadFile(blobPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Credential{}, fmt.Errorf("%w: blob missing for %s", ErrIncomplete, name)
	}
	if err != nil {
		return Credential{}, fmt.Errorf("read blob %s: %w", blobPath, err)
	}

	plaintext, err := cryptox.Open(key, artifact)
	if err != nil {
		return Credential{}, &DecryptionError{Platform: platform, Owner: owner, Err: err}
	}
	defer common.WipeByteArray(plaintext)

	rec, err := UnmarshalRecord(plaintext, platform, owner)
	if err != nil {
		return Credential{}, &DecryptionError{Platform: platform, Owner: owner, Err: err}
	}

	return Credential{Username: rec.Username, Secret: rec.Secret}, nil
}

// List returns the canonical (lower-case) platform names of the owner's
// complete records, sorted. Half-written records are skipped. Callers
// must not rely on the order.
func (s *Store) List(ctx context.Context, owner string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateOwner(owner); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.credsDir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.credsDir, err)
	}

	platforms := make([]string, 0)
	for _, e := range entries {
		if e.IsDir() || filex.IsTemp(e.Name()) {
			continue
		}
		p, o, ok := parseName(e.Name(), blobExt)
		if !ok || o != owner {
			continue
		}
		hasKey, err := filex.Exists(s.keyPath(stem(p, o)))
		if err != nil {
			return nil, fmt.Errorf("stat key for %s: %w", p, err)
		}
		if !hasKey {
			s.log.Warn(ctx, "skipping incomplete record", "platform", p, "owner", owner)
			continue
		}
		platforms = append(platforms, p)
	}

	slices.Sort(platforms)
	s.log.Debug(ctx, "credentials listed", "owner", owner, "count", len(platforms))
	return platforms, nil
}

// Delete removes the key and then the blob. It reports whether anything was
// removed; deleting an absent record is not an error.
func (s *Store) Delete(ctx context.Context, platform, owner string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p, err := CanonicalPlatform(platform)
	if err != nil {
		return false, err
	}
	if err := ValidateOwner(owner); err != nil {
		return false, err
	}

	removed, err := s.deleteStem(stem(p, owner))
	if err != nil {
		s.log.Error(ctx, "credential delete failed", "platform", p, "owner", owner, "error", err)
		return removed, err
	}
	if removed {
		s.log.Info(ctx, "credential deleted", "platform", p, "owner", owner)
	}
	return removed, nil
}

func (s *Store) deleteStem(name string) (bool, error) {
	mu := s.locks.forKey(name)
	mu.Lock()
	defer mu.Unlock()

	keyPath, blobPath := s.keyPath(name), s.blobPath(name)

	keyRemoved, err := filex.RemoveIfExists(keyPath)
	if err != nil {
		return false, &WriteError{Op: "remove key", Path: keyPath, Err: err}
	}
	blobRemoved, err := filex.RemoveIfExists(blobPath)
	if err != nil {
		return keyRemoved, &WriteError{Op: "remove blob", Path: blobPath, Err: err}
	}
	return keyRemoved || blobRemoved, nil
}

// PurgeOwner deletes every record of owner, including half-written ones,
// and returns how many platforms were removed.
func (s *Store) PurgeOwner(ctx context.Context, owner string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := ValidateOwner(owner); err != nil {
		return 0, err
	}

	stems := make(map[string]struct{})
	for _, dir := range []struct{ path, ext string }{{s.credsDir, blobExt}, {s.keysDir, keyExt}} {
		entries, err := os.ReadDir(dir.path)
		if err != nil {
			return 0, fmt.Errorf("list %s: %w", dir.path, err)
		}
		for _, e := range entries {
			if e.IsDir() || filex.IsTemp(e.Name()) {
				continue
			}
			if p, o, ok := parseName(e.Name(), dir.ext); ok && o == owner {
				stems[stem(p, o)] = struct{}{}
			}
		}
	}

	count := 0
	for _, name := range slices.Sorted(maps.Keys(stems)) {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		removed, err := s.deleteStem(name)
		if err != nil {
			s.log.Error(ctx, "owner purge failed", "owner", owner, "removed", count, "error", err)
			return count, err
		}
		if removed {
			count++
		}
	}

	s.log.Info(ctx, "owner purged", "owner", owner, "removed", count)
	return count, nil
}

func (s *Store) blobPath(name string) string {
	return filepath.Join(s.credsDir, name+blobExt)
}

func (s *Store) keyPath(name string) string {
	return filepath.Join(s.keysDir, name+keyExt)
}

func sameDir(a, b string) bool {
	if a == b {
		return true
	}
	ia, errA := os.Stat(a)
	ib, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(ia, ib)
}
