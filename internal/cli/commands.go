package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/identity"
	"github.com/dmitrijs2005/credvault/internal/vault"
)

// getSimpleText, getPassword and confirm are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	confirm       = Confirm
)

var (
	errNotLoggedIn        = fmt.Errorf("%w: not logged in", common.ErrorUnauthorized)
	errSessionExpired     = fmt.Errorf("%w: session expired", common.ErrorUnauthorized)
	errPassphraseMismatch = fmt.Errorf("%w: passphrases do not match", common.ErrorValidation)
	errEmptyInput         = fmt.Errorf("%w: empty input", common.ErrorValidation)
	errCancelled          = errors.New("cancelled")
)

func (a *App) report(ctx context.Context, op string, err error) error {
	a.log.Warn(ctx, "command failed", "command", op, "error", err)
	switch {
	case errors.Is(err, errNotLoggedIn):
		fmt.Fprintln(a.out, "Please log in first.")
	case errors.Is(err, errSessionExpired):
		fmt.Fprintln(a.out, "Session expired, please log in again.")
	case errors.Is(err, errPassphraseMismatch):
		fmt.Fprintln(a.out, "Passphrases do not match.")
	case errors.Is(err, errEmptyInput):
		fmt.Fprintln(a.out, "Input must not be empty.")
	case errors.Is(err, errCancelled):
		fmt.Fprintln(a.out, "Cancelled.")
	default:
		fmt.Fprintln(a.out, describeError(err))
	}
	return err
}

// owner returns the logged-in owner or an error if there is none.
func (a *App) owner() (string, error) {
	owner, expired := a.session.current()
	if expired {
		return "", errSessionExpired
	}
	if owner == "" {
		return "", errNotLoggedIn
	}
	return owner, nil
}

func (a *App) readRequired(prompt string) (string, error) {
	s, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", errEmptyInput
	}
	return s, nil
}

// Register creates a new owner profile. The passphrase is asked twice.
func (a *App) Register(ctx context.Context) error {
	owner, err := a.readRequired("Owner name")
	if err != nil {
		return a.report(ctx, "register", err)
	}
	if err := vault.ValidateOwner(owner); err != nil {
		return a.report(ctx, "register", err)
	}
	exists, err := a.gate.Exists(ctx, owner)
	if err != nil {
		return a.report(ctx, "register", err)
	}
	if exists {
		return a.report(ctx, "register", identity.ErrProfileExists)
	}

	pass, err := getPassword(a.reader, "Passphrase", a.out)
	if err != nil {
		return a.report(ctx, "register", err)
	}
	defer common.WipeByteArray(pass)

	again, err := getPassword(a.reader, "Repeat passphrase", a.out)
	if err != nil {
		return a.report(ctx, "register", err)
	}
	defer common.WipeByteArray(again)

	if string(pass) != string(again) {
		return a.report(ctx, "register", errPassphraseMismatch)
	}

	if err := a.gate.Register(ctx, owner, pass); err != nil {
		return a.report(ctx, "register", err)
	}

	fmt.Fprintf(a.out, "Registered %s. You can log in now.\n", owner)
	return nil
}

// Login authenticates an owner through the gate and starts a session.
func (a *App) Login(ctx context.Context) error {
	name, err := a.readRequired("Owner name")
	if err != nil {
		return a.report(ctx, "login", err)
	}

	pass, err := getPassword(a.reader, "Passphrase", a.out)
	if err != nil {
		return a.report(ctx, "login", err)
	}
	defer common.WipeByteArray(pass)

	owner, err := a.gate.Authenticate(ctx, name, pass)
	if err != nil {
		return a.report(ctx, "login", err)
	}

	a.session.start(owner)
	fmt.Fprintf(a.out, "Logged in as %s.\n", owner)
	return nil
}

// Logout ends the current session.
func (a *App) Logout(ctx context.Context) error {
	if a.session.peek() == "" {
		return a.report(ctx, "logout", errNotLoggedIn)
	}
	a.session.end()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// Add stores a credential for the logged-in owner, replacing any existing
// one for the same platform.
func (a *App) Add(ctx context.Context) error {
	owner, err := a.owner()
	if err != nil {
		return a.report(ctx, "add", err)
	}

	platform, err := a.readRequired("Platform")
	if err != nil {
		return a.report(ctx, "add", err)
	}
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return a.report(ctx, "add", err)
	}
	secret, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return a.report(ctx, "add", err)
	}
	defer common.WipeByteArray(secret)

	if err := a.vault.Add(ctx, platform, username, secret, owner); err != nil {
		return a.report(ctx, "add", err)
	}

	fmt.Fprintf(a.out, "Saved credential for %s.\n", displayPlatform(platform))
	return nil
}

// Get shows the username and password saved for a platform.
func (a *App) Get(ctx context.Context) error {
	owner, err := a.owner()
	if err != nil {
		return a.report(ctx, "get", err)
	}

	platform, err := a.readRequired("Platform")
	if err != nil {
		return a.report(ctx, "get", err)
	}

	cred, err := a.vault.Get(ctx, platform, owner)
	if err != nil {
		return a.report(ctx, "get", err)
	}
	defer cred.Wipe()

	fmt.Fprintf(a.out, "Username: %s\n", cred.Username)
	fmt.Fprintf(a.out, "Password: %s\n", cred.Secret)
	return nil
}

// List prints the platforms the logged-in owner has credentials for.
func (a *App) List(ctx context.Context) error {
	owner, err := a.owner()
	if err != nil {
		return a.report(ctx, "list", err)
	}

	platforms, err := a.vault.List(ctx, owner)
	if err != nil {
		return a.report(ctx, "list", err)
	}

	if len(platforms) == 0 {
		fmt.Fprintln(a.out, "No saved credentials.")
		return nil
	}
	for _, p := range platforms {
		fmt.Fprintln(a.out, displayPlatform(p))
	}
	return nil
}

// Delete removes the credential for a platform.
func (a *App) Delete(ctx context.Context) error {
	owner, err := a.owner()
	if err != nil {
		return a.report(ctx, "delete", err)
	}

	platform, err := a.readRequired("Platform")
	if err != nil {
		return a.report(ctx, "delete", err)
	}

	removed, err := a.vault.Delete(ctx, platform, owner)
	if err != nil {
		return a.report(ctx, "delete", err)
	}
	if !removed {
		fmt.Fprintln(a.out, "Nothing to delete.")
		return nil
	}
	fmt.Fprintf(a.out, "Deleted credential for %s.\n", displayPlatform(platform))
	return nil
}

// DeleteProfile re-checks the passphrase, deletes every credential of the
// logged-in owner, then removes the profile and ends the session.
func (a *App) DeleteProfile(ctx context.Context) error {
	owner, err := a.owner()
	if err != nil {
		return a.report(ctx, "deleteprofile", err)
	}

	ok, err := confirm(a.reader, fmt.Sprintf("Delete profile %s and all its credentials?", owner), a.out)
	if err != nil {
		return a.report(ctx, "deleteprofile", err)
	}
	if !ok {
		return a.report(ctx, "deleteprofile", errCancelled)
	}

	pass, err := getPassword(a.reader, "Passphrase", a.out)
	if err != nil {
		return a.report(ctx, "deleteprofile", err)
	}
	defer common.WipeByteArray(pass)

	if _, err := a.gate.Authenticate(ctx, owner, pass); err != nil {
		return a.report(ctx, "deleteprofile", err)
	}

	n, err := a.vault.PurgeOwner(ctx, owner)
	if err != nil {
		return a.report(ctx, "deleteprofile", err)
	}
	if _, err := a.gate.Remove(ctx, owner); err != nil {
		return a.report(ctx, "deleteprofile", err)
	}

	a.session.end()
	fmt.Fprintf(a.out, "Deleted profile %s and %d credential(s).\n", owner, n)
	return nil
}
