package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AptS-1547/dns-orchestrator/internal/domain/model"
)

func newTestCredentialRepo(t *testing.T) *CredentialRepo {
	t.Helper()
	repo, err := NewCredentialRepo(setupTestDB(t), testEncryptionKey())
	require.NoError(t, err)
	return repo
}

func TestNewCredentialRepo_RejectsBadKey(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewCredentialRepo(db, []byte("too short"))
	assert.Error(t, err)

	_, err = NewCredentialRepo(db, nil)
	assert.Error(t, err)
}

func TestCredentialRepo_SaveAndLoad(t *testing.T) {
	repo := newTestCredentialRepo(t)
	ctx := context.Background()

	creds := model.Credentials{"api_token": "cf_secret_token", "zone_hint": "example.com"}
	require.NoError(t, repo.Save(ctx, "acct-1", creds))

	got, err := repo.Load(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, creds, got)
}

func TestCredentialRepo_LoadMissing(t *testing.T) {
	repo := newTestCredentialRepo(t)

	got, err := repo.Load(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCredentialRepo_SaveReplaces(t *testing.T) {
	repo := newTestCredentialRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "acct-1", model.Credentials{"api_token": "old"}))
	require.NoError(t, repo.Save(ctx, "acct-1", model.Credentials{"api_token": "new"}))

	got, err := repo.Load(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, "new", got["api_token"])
}

func TestCredentialRepo_LoadAll(t *testing.T) {
	repo := newTestCredentialRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "acct-1", model.Credentials{"api_token": "t1"}))
	require.NoError(t, repo.Save(ctx, "acct-2", model.Credentials{"secret_id": "id", "secret_key": "key"}))

	all, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "t1", all["acct-1"]["api_token"])
	assert.Equal(t, "key", all["acct-2"]["secret_key"])
}

func TestCredentialRepo_Delete(t *testing.T) {
	repo := newTestCredentialRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "acct-1", model.Credentials{"api_token": "t"}))
	require.NoError(t, repo.Delete(ctx, "acct-1"))

	got, err := repo.Load(ctx, "acct-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting a missing id is not an error.
	assert.NoError(t, repo.Delete(ctx, "acct-1"))
}

func TestCredentialRepo_Exists(t *testing.T) {
	repo := newTestCredentialRepo(t)
	ctx := context.Background()

	ok, err := repo.Exists(ctx, "acct-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Save(ctx, "acct-1", model.Credentials{"api_token": "t"}))

	ok, err = repo.Exists(ctx, "acct-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestCredentialRepo_EncryptedAtRest reads the raw row and checks the secret
// never appears in the stored value.
func TestCredentialRepo_EncryptedAtRest(t *testing.T) {
	db := setupTestDB(t)
	repo, err := NewCredentialRepo(db, testEncryptionKey())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "acct-1", model.Credentials{"api_token": "super-secret-value"}))

	var stored string
	err = db.Reader.QueryRowContext(ctx, `SELECT value FROM credentials WHERE account_id = ?`, "acct-1").Scan(&stored)
	require.NoError(t, err)
	assert.NotContains(t, stored, "super-secret-value")
	assert.NotContains(t, stored, "api_token")
}

// TestCredentialRepo_WrongKeyFailsClosed simulates a key rotation mistake:
// data written under one key must not decrypt under another.
func TestCredentialRepo_WrongKeyFailsClosed(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	writerRepo, err := NewCredentialRepo(db, testEncryptionKey())
	require.NoError(t, err)
	require.NoError(t, writerRepo.Save(ctx, "acct-1", model.Credentials{"api_token": "t"}))

	otherKey := make([]byte, 32)
	copy(otherKey, testEncryptionKey())
	otherKey[0] ^= 0xFF
	readerRepo, err := NewCredentialRepo(db, otherKey)
	require.NoError(t, err)

	_, err = readerRepo.Load(ctx, "acct-1")
	assert.Error(t, err)
}
