package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/AptS-1547/dns-orchestrator/internal/domain/model"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo is the SQLite implementation of the CredentialStore port
// interface. A credential set is stored as one row per account id: the field
// map is JSON-marshaled, encrypted with AES-256-GCM, and base64-encoded
// before write; reads reverse the pipeline.
type CredentialRepo struct {
	db  *DB
	key []byte // 32-byte AES-256 key.
}

// NewCredentialRepo creates a new CredentialRepo. key must be 32 bytes for
// AES-256-GCM.
func NewCredentialRepo(db *DB, key []byte) (*CredentialRepo, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("credential encryption key must be 32 bytes, got %d", len(key))
	}
	return &CredentialRepo{db: db, key: key}, nil
}

// Save stores or fully replaces the credential set for the account.
func (r *CredentialRepo) Save(ctx context.Context, accountID string, credentials model.Credentials) error {
	plaintext, err := json.Marshal(credentials)
	if err != nil {
		return fmt.Errorf("marshal credentials %q: %w", accountID, err)
	}

	encrypted, err := r.encrypt(plaintext)
	if err != nil {
		return fmt.Errorf("encrypt credentials %q: %w", accountID, err)
	}

	const query = `INSERT OR REPLACE INTO credentials (account_id, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`
	if _, err := r.db.Writer.ExecContext(ctx, query, accountID, encrypted); err != nil {
		return fmt.Errorf("save credentials %q: %w", accountID, err)
	}
	return nil
}

// Load retrieves the credential set for the account.
// Returns (nil, nil) if no credential set exists for that account.
func (r *CredentialRepo) Load(ctx context.Context, accountID string) (model.Credentials, error) {
	const query = `SELECT value FROM credentials WHERE account_id = ?`

	var encrypted string
	err := r.db.Reader.QueryRowContext(ctx, query, accountID).Scan(&encrypted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load credentials %q: %w", accountID, err)
	}

	return r.decode(accountID, encrypted)
}

// LoadAll returns every stored credential set keyed by account id.
func (r *CredentialRepo) LoadAll(ctx context.Context) (map[string]model.Credentials, error) {
	const query = `SELECT account_id, value FROM credentials`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load all credentials: %w", err)
	}
	defer rows.Close()

	all := make(map[string]model.Credentials)
	for rows.Next() {
		var accountID, encrypted string
		if err := rows.Scan(&accountID, &encrypted); err != nil {
			return nil, fmt.Errorf("scan credentials: %w", err)
		}

		creds, err := r.decode(accountID, encrypted)
		if err != nil {
			return nil, err
		}
		all[accountID] = creds
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}

	return all, nil
}

// Delete removes the credential set for the account.
func (r *CredentialRepo) Delete(ctx context.Context, accountID string) error {
	const query = `DELETE FROM credentials WHERE account_id = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, accountID); err != nil {
		return fmt.Errorf("delete credentials %q: %w", accountID, err)
	}
	return nil
}

// Exists reports whether a credential set is stored for the account.
func (r *CredentialRepo) Exists(ctx context.Context, accountID string) (bool, error) {
	const query = `SELECT 1 FROM credentials WHERE account_id = ?`

	var one int
	err := r.db.Reader.QueryRowContext(ctx, query, accountID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check credentials %q: %w", accountID, err)
	}
	return true, nil
}

func (r *CredentialRepo) decode(accountID, encrypted string) (model.Credentials, error) {
	plaintext, err := r.decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("decrypt credentials %q: %w", accountID, err)
	}

	var creds model.Credentials
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return nil, fmt.Errorf("unmarshal credentials %q: %w", accountID, err)
	}
	return creds, nil
}

// encrypt encrypts plaintext using AES-256-GCM and returns a base64-encoded string
// containing the nonce (12 bytes) prepended to the ciphertext.
func (r *CredentialRepo) encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(r.key)
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("cipher.NewGCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt decrypts a base64-encoded AES-256-GCM ciphertext.
func (r *CredentialRepo) decrypt(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}

	block, err := aes.NewCipher(r.key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("gcm.Open: %w", err)
	}

	return plaintext, nil
}
