// Package crypto provides password-based authenticated encryption for
// account export files. Keys are derived with PBKDF2-HMAC-SHA256 and data is
// sealed with AES-256-GCM. The PBKDF2 iteration count is versioned: export
// files record the format version under which they were written so older
// files remain readable after the default count is raised.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength  = 16
	nonceLength = 12
	keyLength   = 32 // AES-256

	// iterationsV1 is the legacy count used by format version 1 files.
	iterationsV1 = 100_000
	// iterationsCurrent is the count used for all new encryptions (version 2).
	iterationsCurrent = 600_000
)

// ErrDecryptFailed is returned for any decryption failure. Wrong password and
// corrupted ciphertext are deliberately indistinguishable.
var ErrDecryptFailed = errors.New("decryption failed: invalid password or corrupted data")

// IterationsForVersion returns the PBKDF2 iteration count that applies to an
// export file of the given format version. Unknown versions fall back to the
// current count.
func IterationsForVersion(version int) int {
	switch version {
	case 1:
		return iterationsV1
	default:
		return iterationsCurrent
	}
}

// CurrentIterations returns the iteration count used by Encrypt.
func CurrentIterations() int { return iterationsCurrent }

func deriveKey(password string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)
}

// Encrypt seals plaintext with a key derived from password. A fresh random
// salt and nonce are generated on every call. The salt, nonce, and ciphertext
// are returned base64-encoded, ready to embed in an export file header.
func Encrypt(plaintext []byte, password string) (saltB64, nonceB64, ciphertextB64 string, err error) {
	salt := make([]byte, saltLength)
	if _, err = io.ReadFull(rand.Reader, salt); err != nil {
		return "", "", "", fmt.Errorf("generate salt: %w", err)
	}
	nonce := make([]byte, nonceLength)
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	gcm, err := newGCM(password, salt, iterationsCurrent)
	if err != nil {
		return "", "", "", err
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	return base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(nonce),
		base64.StdEncoding.EncodeToString(ciphertext),
		nil
}

// Decrypt opens a ciphertext produced by Encrypt using the current iteration
// count. For files written under an older format version use
// DecryptWithIterations with the count from IterationsForVersion.
func Decrypt(ciphertextB64, password, saltB64, nonceB64 string) ([]byte, error) {
	return DecryptWithIterations(ciphertextB64, password, saltB64, nonceB64, iterationsCurrent)
}

// DecryptWithIterations opens a ciphertext using an explicit PBKDF2 iteration
// count. Any failure (bad encoding, wrong password, tampered data) is
// reported as ErrDecryptFailed.
func DecryptWithIterations(ciphertextB64, password, saltB64, nonceB64 string, iterations int) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	nonce, err := base64.StdEncoding.DecodeString(nonceB64)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	if len(nonce) != nonceLength {
		return nil, ErrDecryptFailed
	}

	gcm, err := newGCM(password, salt, iterations)
	if err != nil {
		return nil, ErrDecryptFailed
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}

func newGCM(password string, salt []byte, iterations int) (cipher.AEAD, error) {
	key := deriveKey(password, salt, iterations)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}
