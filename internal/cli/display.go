package cli

import (
	"errors"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/identity"
	"github.com/dmitrijs2005/credvault/internal/vault"
)

var titleCaser = cases.Title(language.English)

// displayPlatform renders a stored (lower-case) platform name for humans.
func displayPlatform(p string) string {
	return titleCaser.String(p)
}

// describeError turns an operation error into a line for the user. Details
// stay in the log.
func describeError(err error) string {
	switch {
	case errors.Is(err, vault.ErrIncomplete):
		return "Saved credential is incomplete; add it again."
	case errors.Is(err, vault.ErrNotFound):
		return "No saved credential for that platform."
	case errors.Is(err, vault.ErrDecryptionFailed):
		return "Saved credential could not be decrypted; it may have been tampered with."
	case errors.Is(err, identity.ErrUnauthorized):
		return "Authentication failed."
	case errors.Is(err, identity.ErrProfileExists):
		return "That owner is already registered."
	case errors.Is(err, vault.ErrInvalidPlatform):
		return "Invalid platform name."
	case errors.Is(err, vault.ErrInvalidOwner):
		return "Invalid owner name: no slashes, control characters, or surrounding spaces."
	case errors.Is(err, vault.ErrInvalidText):
		return "Username and password must be valid UTF-8 text."
	case errors.Is(err, common.ErrorValidation):
		return "Invalid input."
	default:
		return "Operation failed: " + err.Error()
	}
}
