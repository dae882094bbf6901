package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/credvault/internal/audit"
	"github.com/dmitrijs2005/credvault/internal/config"
	"github.com/dmitrijs2005/credvault/internal/identity"
	"github.com/dmitrijs2005/credvault/internal/logging"
	"github.com/dmitrijs2005/credvault/internal/vault"
)

// ProfileGate is the identity gate plus the profile management the CLI
// needs. *identity.PassphraseGate implements it.
type ProfileGate interface {
	identity.Gate
	Exists(ctx context.Context, owner string) (bool, error)
	Register(ctx context.Context, owner string, passphrase []byte) error
	Remove(ctx context.Context, owner string) (bool, error)
}

type App struct {
	vault   vault.Vault
	gate    ProfileGate
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	session *session
	closers []io.Closer
}

// NewApp wires the vault, audit trail and profiles database described by
// cfg. Leftovers of interrupted writes are swept before the vault is used.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	store, err := vault.New(vault.Config{
		CredentialsDir: cfg.CredentialsDir,
		KeysDir:        cfg.KeysDir,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}

	report, err := store.Sweep(ctx)
	if err != nil {
		return nil, fmt.Errorf("sweep vault: %w", err)
	}
	if len(report.Removed) > 0 {
		logger.Warn(ctx, "removed leftovers of interrupted writes", "paths", report.Removed)
	}

	auditLog, err := audit.NewLogger(cfg.AuditLog)
	if err != nil {
		return nil, err
	}

	db, err := identity.OpenProfilesDB(ctx, cfg.ProfilesDB)
	if err != nil {
		_ = auditLog.Close()
		return nil, err
	}

	app := newApp(
		vault.NewAuditedVault(store, auditLog, logger, "cli"),
		identity.NewPassphraseGate(db, logger),
		logger,
		os.Stdin,
		os.Stdout,
		cfg.SessionTimeout,
		time.Now,
	)
	app.closers = []io.Closer{auditLog, dbCloser{db}}
	return app, nil
}

func newApp(v vault.Vault, gate ProfileGate, logger logging.Logger, in io.Reader, out io.Writer, timeout time.Duration, now func() time.Time) *App {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &App{
		vault:   v,
		gate:    gate,
		log:     logger.With("component", "cli"),
		reader:  bufio.NewReader(in),
		out:     out,
		session: newSession(timeout, now),
	}
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to credvault (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader, a.out)
	a.session.end()
}

// Close releases the audit log and the profiles database.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.session.peek() != ""
}

func (a *App) status() string {
	if owner := a.session.peek(); owner != "" {
		return "(" + owner + ")"
	}
	return ""
}

type dbCloser struct{ db *sql.DB }

func (c dbCloser) Close() error { return c.db.Close() }
