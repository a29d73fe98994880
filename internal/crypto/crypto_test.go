package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext []byte
		password  string
	}{
		{"simple", []byte("hello world"), "password123"},
		{"empty plaintext", []byte{}, "password123"},
		{"binary data", []byte{0x00, 0xff, 0x10, 0x80, 0x7f}, "p"},
		{"unicode password", []byte("account data"), "пароль-密码-🔑"},
		{"long plaintext", make([]byte, 64*1024), "long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			salt, nonce, ciphertext, err := Encrypt(tt.plaintext, tt.password)
			require.NoError(t, err)

			got, err := Decrypt(ciphertext, tt.password, salt, nonce)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, got)
		})
	}
}

func TestDecryptWrongPassword(t *testing.T) {
	salt, nonce, ciphertext, err := Encrypt([]byte("secret account data"), "correct")
	require.NoError(t, err)

	_, err = Decrypt(ciphertext, "incorrect", salt, nonce)
	assert.ErrorIs(t, err, ErrDecryptFailed)
}

func TestDecryptCorruptedCiphertext(t *testing.T) {
	salt, nonce, ciphertext, err := Encrypt([]byte("secret account data"), "pw")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	require.NoError(t, err)
	raw[0] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(raw)

	_, err = Decrypt(tampered, "pw", salt, nonce)
	assert.ErrorIs(t, err, ErrDecryptFailed)

	// Wrong password and tampered data must be the same error.
	_, err2 := Decrypt(ciphertext, "wrong", salt, nonce)
	assert.Equal(t, err, err2)
}

func TestDecryptInvalidBase64(t *testing.T) {
	_, err := Decrypt("not base64!!!", "pw", "also not!!!", "nope!!!")
	assert.ErrorIs(t, err, ErrDecryptFailed)
}

func TestSaltNonceFreshPerCall(t *testing.T) {
	salt1, nonce1, ct1, err := Encrypt([]byte("same input"), "pw")
	require.NoError(t, err)
	salt2, nonce2, ct2, err := Encrypt([]byte("same input"), "pw")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, nonce1, nonce2)
	assert.NotEqual(t, ct1, ct2)
}

// TestDecryptLegacyIterations seals data the way a version 1 file was written
// (100k PBKDF2 iterations) and verifies DecryptWithIterations still opens it
// now that the default has moved to 600k.
func TestDecryptLegacyIterations(t *testing.T) {
	const legacyIterations = 100_000
	plaintext := []byte(`[{"name":"legacy account"}]`)
	password := "old-backup-password"

	salt := make([]byte, saltLength)
	nonce := make([]byte, nonceLength)
	_, err := io.ReadFull(rand.Reader, salt)
	require.NoError(t, err)
	_, err = io.ReadFull(rand.Reader, nonce)
	require.NoError(t, err)

	key := pbkdf2.Key([]byte(password), salt, legacyIterations, keyLength, sha256.New)
	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	gcm, err := cipher.NewGCM(block)
	require.NoError(t, err)
	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	saltB64 := base64.StdEncoding.EncodeToString(salt)
	nonceB64 := base64.StdEncoding.EncodeToString(nonce)
	ctB64 := base64.StdEncoding.EncodeToString(ciphertext)

	// Current-iteration decrypt must fail: the derived key differs.
	_, err = Decrypt(ctB64, password, saltB64, nonceB64)
	assert.ErrorIs(t, err, ErrDecryptFailed)

	got, err := DecryptWithIterations(ctB64, password, saltB64, nonceB64, legacyIterations)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestIterationsForVersion(t *testing.T) {
	tests := []struct {
		version int
		want    int
	}{
		{1, 100_000},
		{2, 600_000},
		{0, 600_000},
		{99, 600_000},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IterationsForVersion(tt.version), "version %d", tt.version)
	}

	assert.Equal(t, IterationsForVersion(2), CurrentIterations())
}
