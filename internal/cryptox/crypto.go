// Package cryptox implements the record cipher used by the vault:
// AES-128 in CBC mode with PKCS#7 padding, authenticated with HMAC-SHA256
// over the ciphertext (encrypt-then-MAC). The tag is always verified before
// a single block is decrypted.
//
// Artifact layout produced by Seal and consumed by Open:
//
//	IV (16 bytes) || ciphertext (N*16 bytes) || tag (32 bytes)
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credvault/internal/common"
)

const (
	// KeySize is the length of a record key (AES-128).
	KeySize = 16
	// BlockSize is the AES block size; IVs have the same width.
	BlockSize = aes.BlockSize
	// TagSize is the HMAC-SHA256 output length.
	TagSize = sha256.Size

	// minArtifactSize is one IV, one ciphertext block and one tag.
	minArtifactSize = BlockSize + BlockSize + TagSize
)

var (
	// ErrIntegrity means the tag did not match: the artifact was tampered
	// with, corrupted, or paired with the wrong key.
	ErrIntegrity = errors.New("integrity check failed")

	// ErrTruncated means the artifact cannot even be split into its parts.
	// It is an integrity failure.
	ErrTruncated = fmt.Errorf("%w: truncated artifact", ErrIntegrity)

	// ErrPadding means the decrypted bytes do not end in valid PKCS#7 padding.
	ErrPadding = errors.New("invalid padding")

	// ErrInvalidKeySize is returned for keys that are not KeySize bytes.
	ErrInvalidKeySize = fmt.Errorf("invalid key size, want %d bytes", KeySize)
)

// GenerateKey returns a fresh, uniformly random record key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}

// Encrypt pads plaintext, encrypts it under key with a fresh random IV and
// computes the tag over the ciphertext.
//
// The IV is drawn from crypto/rand on every call, so retries never reuse one.
func Encrypt(key, plaintext []byte) (iv, ciphertext, tag []byte, err error) {
	block, err := newBlock(key)
	if err != nil {
		return nil, nil, nil, err
	}

	iv = make([]byte, BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, nil, fmt.Errorf("generate iv: %w", err)
	}

	padded := Pad(plaintext, BlockSize)
	ciphertext = make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	common.WipeByteArray(padded)

	return iv, ciphertext, computeTag(key, ciphertext), nil
}

// Decrypt verifies tag over ciphertext and only then decrypts and unpads.
//
// On ErrIntegrity no decryption is attempted. On ErrPadding the partially
// decrypted buffer is wiped and nothing is returned.
func Decrypt(key, iv, ciphertext, tag []byte) ([]byte, error) {
	block, err := newBlock(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != BlockSize || len(tag) != TagSize ||
		len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0 {
		return nil, ErrTruncated
	}

	if !hmac.Equal(computeTag(key, ciphertext), tag) {
		return nil, ErrIntegrity
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	plaintext, err := Unpad(padded, BlockSize)
	if err != nil {
		common.WipeByteArray(padded)
		return nil, err
	}
	return plaintext, nil
}

// Seal encrypts plaintext and returns the concatenated artifact
// iv || ciphertext || tag.
func Seal(key, plaintext []byte) ([]byte, error) {
	iv, ciphertext, tag, err := Encrypt(key, plaintext)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(iv)+len(ciphertext)+len(tag))
	out = append(out, iv...)
	out = append(out, ciphertext...)
	out = append(out, tag...)
	return out, nil
}

// Open splits artifact by fixed offsets from both ends and decrypts it.
func Open(key, artifact []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	if len(artifact) < minArtifactSize {
		return nil, ErrTruncated
	}

	iv := artifact[:BlockSize]
	tag := artifact[len(artifact)-TagSize:]
	ciphertext := artifact[BlockSize : len(artifact)-TagSize]

	return Decrypt(key, iv, ciphertext, tag)
}

func newBlock(key []byte) (cipher.Block, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	return block, nil
}

func computeTag(key, ciphertext []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(ciphertext)
	return mac.Sum(nil)
}
