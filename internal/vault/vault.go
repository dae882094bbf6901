package vault

import "context"

// Vault is the credential store as seen by its consumers. *Store and
// *AuditedVault implement it.
type Vault interface {
	Add(ctx context.Context, platform, username string, secret []byte, owner string) error
	Get(ctx context.Context, platform, owner string) (Credential, error)
	List(ctx context.Context, owner string) ([]string, error)
	Delete(ctx context.Context, platform, owner string) (bool, error)
	PurgeOwner(ctx context.Context, owner string) (int, error)
}
