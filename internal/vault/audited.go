package vault

import (
	"context"

	"github.com/dmitrijs2005/credvault/internal/audit"
	"github.com/dmitrijs2005/credvault/internal/logging"
)

// AuditLogger receives one entry per vault operation. *audit.Logger
// implements it.
type AuditLogger interface {
	Log(audit.Entry) error
}

// AuditedVault wraps a Vault and records every operation, successful or
// not, in an audit trail. Audit failures are logged and never fail the
// operation itself.
type AuditedVault struct {
	inner Vault
	audit AuditLogger
	log   logging.Logger
	actor string
}

var _ Vault = (*AuditedVault)(nil)

// NewAuditedVault wraps inner. actor names the caller in every entry
// ("cli", a service name, ...). A nil logger discards audit failures.
func NewAuditedVault(inner Vault, auditLog AuditLogger, logger logging.Logger, actor string) *AuditedVault {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &AuditedVault{
		inner: inner,
		audit: auditLog,
		log:   logger.With("component", "audit"),
		actor: actor,
	}
}

func (v *AuditedVault) Add(ctx context.Context, platform, username string, secret []byte, owner string) error {
	err := v.inner.Add(ctx, platform, username, secret, owner)
	v.record(ctx, audit.ActionCredentialWrite, platform, owner, err)
	return err
}

func (v *AuditedVault) Get(ctx context.Context, platform, owner string) (Credential, error) {
	cred, err := v.inner.Get(ctx, platform, owner)
	v.record(ctx, audit.ActionCredentialRead, platform, owner, err)
	return cred, err
}

func (v *AuditedVault) List(ctx context.Context, owner string) ([]string, error) {
	platforms, err := v.inner.List(ctx, owner)
	v.record(ctx, audit.ActionCredentialList, "", owner, err)
	return platforms, err
}

func (v *AuditedVault) Delete(ctx context.Context, platform, owner string) (bool, error) {
	removed, err := v.inner.Delete(ctx, platform, owner)
	v.record(ctx, audit.ActionCredentialDelete, platform, owner, err)
	return removed, err
}

func (v *AuditedVault) PurgeOwner(ctx context.Context, owner string) (int, error) {
	n, err := v.inner.PurgeOwner(ctx, owner)
	v.record(ctx, audit.ActionOwnerPurge, "", owner, err)
	return n, err
}

func (v *AuditedVault) record(ctx context.Context, action audit.Action, platform, owner string, opErr error) {
	if platform != "" {
		if p, err := CanonicalPlatform(platform); err == nil {
			platform = p
		}
	}

	entry := audit.Entry{
		Action:   action,
		Platform: platform,
		Owner:    owner,
		Actor:    v.actor,
	}
	if opErr != nil {
		entry.Error = opErr.Error()
	}

	if err := v.audit.Log(entry); err != nil {
		v.log.Warn(ctx, "audit log write failed", "action", string(action), "error", err)
	}
}
