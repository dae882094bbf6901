package vault

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credvault/internal/common"
)

var (
	// ErrNotFound means no saved credential exists for the platform and owner.
	ErrNotFound = fmt.Errorf("credential %w", common.ErrorNotFound)

	// ErrIncomplete means only one half of the key/blob pair exists, e.g.
	// after a crash mid-write. It matches ErrNotFound: the record is absent.
	ErrIncomplete = fmt.Errorf("%w: incomplete artifact pair", ErrNotFound)

	// ErrMalformedRecord means decrypted bytes did not decode into a record
	// addressed by the requested platform and owner.
	ErrMalformedRecord = errors.New("malformed credential record")

	// ErrDecryptionFailed is matched by every *DecryptionError.
	ErrDecryptionFailed = errors.New("decryption failed")

	ErrInvalidPlatform = fmt.Errorf("%w: invalid platform", common.ErrorValidation)
	ErrInvalidOwner    = fmt.Errorf("%w: invalid owner", common.ErrorValidation)

	// ErrInvalidText means a username or secret is not valid UTF-8 and
	// would not survive the JSON record unchanged.
	ErrInvalidText = fmt.Errorf("%w: username and secret must be valid UTF-8", common.ErrorValidation)

	// ErrSplitStorage is returned by New when keys and blobs would share a directory.
	ErrSplitStorage = errors.New("credentials and keys directories must differ")
)

// DecryptionError reports a record that exists but could not be opened.
// Err is one of cryptox.ErrIntegrity (including cryptox.ErrTruncated),
// cryptox.ErrPadding, cryptox.ErrInvalidKeySize or ErrMalformedRecord.
type DecryptionError struct {
	Platform string
	Owner    string
	Err      error
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("decrypt %s for %s: %v", e.Platform, e.Owner, e.Err)
}

func (e *DecryptionError) Unwrap() error { return e.Err }

func (e *DecryptionError) Is(target error) bool { return target == ErrDecryptionFailed }

// WriteError reports a failed filesystem mutation. Add and Delete never
// report success after one.
type WriteError struct {
	Op   string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
