package identity

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/cryptox"
	"github.com/dmitrijs2005/credvault/internal/dbx"
	"github.com/dmitrijs2005/credvault/internal/logging"
	"github.com/dmitrijs2005/credvault/internal/repositories/profiles"
	"github.com/dmitrijs2005/credvault/internal/vault"
)

const saltSize = 32

// ErrEmptyPassphrase is returned by Register for an empty passphrase.
var ErrEmptyPassphrase = fmt.Errorf("%w: empty passphrase", common.ErrorValidation)

// PassphraseGate authenticates owners against an argon2id verifier stored
// in the profiles database. Only the salt and verifier are persisted.
type PassphraseGate struct {
	db  *sql.DB
	log logging.Logger
	now func() time.Time
}

var _ Gate = (*PassphraseGate)(nil)

func NewPassphraseGate(db *sql.DB, logger logging.Logger) *PassphraseGate {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &PassphraseGate{db: db, log: logger.With("component", "identity"), now: time.Now}
}

func (g *PassphraseGate) repo(db dbx.DBTX) profiles.Repository {
	return profiles.NewSQLiteRepository(db)
}

// Register creates a profile for owner. The owner must be a valid vault
// owner; ErrProfileExists is returned if it is already registered.
func (g *PassphraseGate) Register(ctx context.Context, owner string, passphrase []byte) error {
	if err := vault.ValidateOwner(owner); err != nil {
		return err
	}
	if len(passphrase) == 0 {
		return ErrEmptyPassphrase
	}

	salt := common.GenerateRandByteArray(saltSize)
	key := cryptox.DeriveMasterKey(passphrase, salt)
	verifier := cryptox.MakeVerifier(key)
	common.WipeByteArray(key)

	err := dbx.WithTx(ctx, g.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := g.repo(tx)
		_, err := repo.Get(ctx, owner)
		if err == nil {
			return ErrProfileExists
		}
		if !errors.Is(err, profiles.ErrNotFound) {
			return err
		}
		return repo.Create(ctx, profiles.Profile{
			Owner:     owner,
			Salt:      salt,
			Verifier:  verifier,
			CreatedAt: g.now(),
		})
	})
	if err != nil {
		return err
	}

	g.log.Info(ctx, "profile registered", "owner", owner)
	return nil
}

// Authenticate re-derives the verifier from proof and compares it in
// constant time. Unknown owners and wrong passphrases both yield
// ErrUnauthorized.
func (g *PassphraseGate) Authenticate(ctx context.Context, owner string, proof []byte) (string, error) {
	p, err := g.repo(g.db).Get(ctx, owner)
	if errors.Is(err, profiles.ErrNotFound) {
		g.log.Warn(ctx, "authentication failed", "owner", owner, "reason", "unknown owner")
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", err
	}

	key := cryptox.DeriveMasterKey(proof, p.Salt)
	candidate := cryptox.MakeVerifier(key)
	common.WipeByteArray(key)

	if subtle.ConstantTimeCompare(p.Verifier, candidate) == 0 {
		g.log.Warn(ctx, "authentication failed", "owner", owner, "reason", "bad passphrase")
		return "", ErrUnauthorized
	}

	g.log.Info(ctx, "owner authenticated", "owner", owner)
	return p.Owner, nil
}

// Exists reports whether owner has a profile.
func (g *PassphraseGate) Exists(ctx context.Context, owner string) (bool, error) {
	_, err := g.repo(g.db).Get(ctx, owner)
	if errors.Is(err, profiles.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes owner's profile. It does not touch the vault; callers
// purge credentials first.
func (g *PassphraseGate) Remove(ctx context.Context, owner string) (bool, error) {
	removed, err := g.repo(g.db).Delete(ctx, owner)
	if err != nil {
		return false, err
	}
	if removed {
		g.log.Info(ctx, "profile removed", "owner", owner)
	}
	return removed, nil
}
