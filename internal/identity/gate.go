// Package identity decides which owner, if any, a caller has proven to be.
//
// The vault trusts the owner string it is given. Gate is the boundary that
// produces that string: only an owner returned by a successful
// Authenticate may be passed on to vault operations.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credvault/internal/common"
)

var (
	// ErrUnauthorized means the proof did not match, or the owner is unknown.
	ErrUnauthorized = fmt.Errorf("identity check failed: %w", common.ErrorUnauthorized)

	// ErrProfileExists is returned when registering an owner twice.
	ErrProfileExists = errors.New("profile already exists")
)

// Gate verifies a proof for an owner. On success it returns the owner to
// use for vault operations.
type Gate interface {
	Authenticate(ctx context.Context, owner string, proof []byte) (string, error)
}
