package vault

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	blobExt = ".enc"
	keyExt  = ".key"

	// maxNameBytes bounds each half of "<platform>_<owner>" so the staged
	// temp name stays under the usual 255-byte file name limit.
	maxNameBytes = 100

	separator = "_"
)

// CanonicalPlatform trims and lower-cases a platform name and validates it.
// The canonical form is what List returns and what file names use.
//
// Platforms may not contain '_': the first '_' in a file name separates the
// platform from the owner.
func CanonicalPlatform(platform string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(platform))
	if err := checkName(p); err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidPlatform, platform, err)
	}
	if strings.Contains(p, separator) {
		return "", fmt.Errorf("%w %q: contains %q", ErrInvalidPlatform, platform, separator)
	}
	return p, nil
}

// ValidateOwner checks that owner can be used as a file-name component.
// Owners are case-sensitive and are never trimmed.
func ValidateOwner(owner string) error {
	if err := checkName(owner); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidOwner, owner, err)
	}
	if strings.TrimSpace(owner) != owner {
		return fmt.Errorf("%w %q: surrounding whitespace", ErrInvalidOwner, owner)
	}
	return nil
}

// checkName rejects what cannot safely appear in a single path element.
func checkName(s string) error {
	switch {
	case s == "":
		return errors.New("empty")
	case s == "." || s == "..":
		return errors.New("reserved name")
	case len(s) > maxNameBytes:
		return fmt.Errorf("longer than %d bytes", maxNameBytes)
	case !utf8.ValidString(s):
		return errors.New("not valid UTF-8")
	case strings.ContainsAny(s, `/\`):
		return errors.New("contains a path separator")
	case strings.ContainsFunc(s, unicode.IsControl):
		return errors.New("contains a control character")
	}
	return nil
}

func stem(platform, owner string) string {
	return platform + separator + owner
}

// parseName splits "<platform>_<owner><ext>" back into its parts.
func parseName(name, ext string) (platform, owner string, ok bool) {
	base, found := strings.CutSuffix(name, ext)
	if !found {
		return "", "", false
	}
	platform, owner, found = strings.Cut(base, separator)
	if !found {
		return "", "", false
	}
	if p, err := CanonicalPlatform(platform); err != nil || p != platform {
		return "", "", false
	}
	if ValidateOwner(owner) != nil {
		return "", "", false
	}
	return platform, owner, true
}
