package common

import (
	"crypto/rand"

	"github.com/awnumar/memguard"
)

// GenerateRandByteArray returns size bytes read from crypto/rand.
// crypto/rand.Read never returns an error on supported platforms, and
// panics instead if the system source is broken.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray overwrites b with zeros. Use it on passwords, record keys
// and decrypted plaintext as soon as they are no longer needed.
//
// A nil slice is a no-op.
func WipeByteArray(b []byte) {
	if len(b) == 0 {
		return
	}
	memguard.WipeBytes(b)
}
