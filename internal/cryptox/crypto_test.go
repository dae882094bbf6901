package cryptox

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustKey(t *testing.T) []byte {
	t.Helper()
	key, err := GenerateKey()
	require.NoError(t, err)
	return key
}

func TestGenerateKey(t *testing.T) {
	a := mustKey(t)
	b := mustKey(t)

	assert.Len(t, a, KeySize)
	assert.Len(t, b, KeySize)
	assert.NotEqual(t, a, b)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := mustKey(t)

	tests := []struct {
		name      string
		plaintext []byte
	}{
		{name: "empty", plaintext: []byte{}},
		{name: "short", plaintext: []byte("Secr3t!")},
		{name: "one block", plaintext: bytes.Repeat([]byte{'a'}, BlockSize)},
		{name: "multi block", plaintext: []byte(strings.Repeat("credential ", 40))},
		{name: "binary", plaintext: []byte{0, 1, 2, 0xff, 0x10, 0x10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, ct, tag, err := Encrypt(key, tt.plaintext)
			require.NoError(t, err)

			assert.Len(t, iv, BlockSize)
			assert.Len(t, tag, TagSize)
			assert.Zero(t, len(ct)%BlockSize)
			assert.Greater(t, len(ct), len(tt.plaintext), "padding always adds at least one byte")

			got, err := Decrypt(key, iv, ct, tag)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, got)
		})
	}
}

func TestEncrypt_FreshIVEveryCall(t *testing.T) {
	key := mustKey(t)
	plaintext := []byte("same input")

	seen := make(map[string]struct{})
	for i := 0; i < 64; i++ {
		iv, ct, _, err := Encrypt(key, plaintext)
		require.NoError(t, err)
		_, dup := seen[string(iv)]
		require.False(t, dup, "iv reused")
		seen[string(iv)] = struct{}{}
		assert.NotEqual(t, plaintext, ct)
	}
}

func TestDecrypt_RejectsTamperedTagAndCiphertext(t *testing.T) {
	key := mustKey(t)
	iv, ct, tag, err := Encrypt(key, []byte(`{"username":"alice","password":"Secr3t!"}`))
	require.NoError(t, err)

	for i := 0; i < len(tag)*8; i++ {
		bad := bytes.Clone(tag)
		bad[i/8] ^= 1 << (i % 8)
		out, err := Decrypt(key, iv, ct, bad)
		require.ErrorIs(t, err, ErrIntegrity, "tag bit %d", i)
		require.Nil(t, out)
	}

	for i := 0; i < len(ct)*8; i++ {
		bad := bytes.Clone(ct)
		bad[i/8] ^= 1 << (i % 8)
		out, err := Decrypt(key, iv, bad, tag)
		require.ErrorIs(t, err, ErrIntegrity, "ciphertext bit %d", i)
		require.Nil(t, out)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	keyA := mustKey(t)
	keyB := mustKey(t)

	iv, ct, tag, err := Encrypt(keyA, []byte("for A only"))
	require.NoError(t, err)

	out, err := Decrypt(keyB, iv, ct, tag)
	require.ErrorIs(t, err, ErrIntegrity)
	assert.Nil(t, out)
}

func TestDecrypt_PaddingCheckedAfterValidTag(t *testing.T) {
	key := mustKey(t)
	block, err := newBlock(key)
	require.NoError(t, err)

	// A correctly tagged ciphertext whose plaintext ends in an invalid pad byte.
	iv := make([]byte, BlockSize)
	padded := bytes.Repeat([]byte{0x11}, BlockSize)
	ct := make([]byte, BlockSize)
	cbcEncrypt(t, block, iv, ct, padded)

	out, err := Decrypt(key, iv, ct, computeTag(key, ct))
	require.ErrorIs(t, err, ErrPadding)
	assert.NotErrorIs(t, err, ErrIntegrity)
	assert.Nil(t, out)
}

func TestDecrypt_MalformedInputs(t *testing.T) {
	key := mustKey(t)
	iv, ct, tag, err := Encrypt(key, []byte("x"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		key     []byte
		iv      []byte
		ct      []byte
		tag     []byte
		wantErr error
	}{
		{name: "short key", key: key[:8], iv: iv, ct: ct, tag: tag, wantErr: ErrInvalidKeySize},
		{name: "long key", key: append(bytes.Clone(key), 0), iv: iv, ct: ct, tag: tag, wantErr: ErrInvalidKeySize},
		{name: "short iv", key: key, iv: iv[:4], ct: ct, tag: tag, wantErr: ErrIntegrity},
		{name: "empty ciphertext", key: key, iv: iv, ct: nil, tag: tag, wantErr: ErrIntegrity},
		{name: "unaligned ciphertext", key: key, iv: iv, ct: ct[:BlockSize-1], tag: tag, wantErr: ErrIntegrity},
		{name: "short tag", key: key, iv: iv, ct: ct, tag: tag[:16], wantErr: ErrIntegrity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Decrypt(tt.key, tt.iv, tt.ct, tt.tag)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, out)
		})
	}
}

func TestSealOpen(t *testing.T) {
	key := mustKey(t)
	plaintext := []byte(`{"platform":"instagram"}`)

	artifact, err := Seal(key, plaintext)
	require.NoError(t, err)
	require.Zero(t, (len(artifact)-BlockSize-TagSize)%BlockSize)

	got, err := Open(key, artifact)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)

	t.Run("tampered iv is not authenticated but never yields the original", func(t *testing.T) {
		bad := bytes.Clone(artifact)
		bad[0] ^= 0x01
		out, err := Open(key, bad)
		if err == nil {
			assert.NotEqual(t, plaintext, out)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := Open(key, artifact[:minArtifactSize-1])
		require.ErrorIs(t, err, ErrTruncated)
		require.ErrorIs(t, err, ErrIntegrity)
	})

	t.Run("trailing byte", func(t *testing.T) {
		_, err := Open(key, append(bytes.Clone(artifact), 0))
		require.ErrorIs(t, err, ErrIntegrity)
	})

	t.Run("bad key size", func(t *testing.T) {
		_, err := Open(key[:15], artifact)
		require.ErrorIs(t, err, ErrInvalidKeySize)
	})
}

func TestDeriveMasterKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveMasterKey(password, salt)
	key2 := DeriveMasterKey(password, salt)

	assert.Equal(t, key1, key2)
	assert.Len(t, key1, 32)
}

func TestDeriveMasterKey_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")

	key1 := DeriveMasterKey(password, []byte("salt-1"))
	key2 := DeriveMasterKey(password, []byte("salt-2"))

	assert.NotEqual(t, key1, key2)
}

func TestMakeVerifier(t *testing.T) {
	mk := bytes.Repeat([]byte{7}, 32)
	v := MakeVerifier(mk)

	assert.Len(t, v, 32)
	assert.NotEqual(t, mk, v)
	assert.Equal(t, v, MakeVerifier(mk))
}
