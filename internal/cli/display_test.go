package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/credvault/internal/identity"
	"github.com/dmitrijs2005/credvault/internal/vault"
)

func TestDisplayPlatform(t *testing.T) {
	assert.Equal(t, "Instagram", displayPlatform("instagram"))
	assert.Equal(t, "My Bank", displayPlatform("my bank"))
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: gmail", vault.ErrNotFound), "No saved credential for that platform."},
		{vault.ErrIncomplete, "Saved credential is incomplete; add it again."},
		{&vault.DecryptionError{Platform: "gmail", Owner: "bob", Err: errors.New("x")}, "Saved credential could not be decrypted; it may have been tampered with."},
		{identity.ErrUnauthorized, "Authentication failed."},
		{vault.ErrInvalidPlatform, "Invalid platform name."},
		{vault.ErrInvalidText, "Username and password must be valid UTF-8 text."},
		{errors.New("disk on fire"), "Operation failed: disk on fire"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, describeError(tt.err))
	}
}
