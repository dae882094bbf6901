// Package profiles persists owner profiles: the salt and passphrase
// verifier used by the identity gate. No credential material is stored here.
package profiles

import (
	"context"
	"time"
)

// Profile is one registered owner.
type Profile struct {
	Owner     string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, p Profile) error
	Get(ctx context.Context, owner string) (Profile, error)
	Delete(ctx context.Context, owner string) (bool, error)
}
