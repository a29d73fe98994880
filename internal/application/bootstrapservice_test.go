package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AptS-1547/dns-orchestrator/internal/application"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/model"
)

func TestBootstrapService_RestoreAccounts(t *testing.T) {
	env := newTestEnv(&fakeFactory{})
	ctx := context.Background()

	// Five persisted accounts, two with credentials the provider rejects.
	env.seedAccount(t, "acc-1", "one", model.Credentials{"api_token": "tok"})
	env.seedAccount(t, "acc-2", "two", model.Credentials{"api_token": "bad"})
	env.seedAccount(t, "acc-3", "three", model.Credentials{"api_token": "tok"})
	env.seedAccount(t, "acc-4", "four", model.Credentials{"api_token": "bad"})
	env.seedAccount(t, "acc-5", "five", model.Credentials{"api_token": "tok"})

	bootstrap := application.NewBootstrapService(env.sc, env.credsSvc)
	result, err := bootstrap.RestoreAccounts(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, result.SuccessCount)
	assert.ElementsMatch(t, []string{"acc-2", "acc-4"}, result.FailedAccounts)

	// Failed accounts are marked invalid with a non-empty message.
	for _, id := range []string{"acc-2", "acc-4"} {
		account, err := env.accountSvc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.AccountStatusError, account.Status)
		assert.NotEmpty(t, account.ErrorMessage)
	}

	// Restored accounts have live connections; failed ones do not.
	for _, id := range []string{"acc-1", "acc-3", "acc-5"} {
		_, err := env.sc.Provider(id)
		assert.NoError(t, err, "account %s should be restored", id)
	}
	for _, id := range []string{"acc-2", "acc-4"} {
		_, err := env.sc.Provider(id)
		assert.Error(t, err, "account %s should not be restored", id)
	}
}

func TestBootstrapService_SkipsAccountWithoutCredentials(t *testing.T) {
	env := newTestEnv(&fakeFactory{})
	ctx := context.Background()
	require.NoError(t, env.accounts.Save(ctx, model.Account{
		ID:       "acc-1",
		Name:     "orphan",
		Provider: model.ProviderCloudflare,
		Status:   model.AccountStatusActive,
	}))

	bootstrap := application.NewBootstrapService(env.sc, env.credsSvc)
	result, err := bootstrap.RestoreAccounts(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, []string{"acc-1"}, result.FailedAccounts)

	account, err := env.accountSvc.Get(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, model.AccountStatusError, account.Status)
}

func TestBootstrapService_IgnoresOrphanedCredentials(t *testing.T) {
	env := newTestEnv(&fakeFactory{})
	ctx := context.Background()

	// A credential set with no account record, left behind by an
	// interrupted delete. Bootstrap must not resurrect it.
	require.NoError(t, env.creds.Save(ctx, "ghost", model.Credentials{"api_token": "tok"}))

	bootstrap := application.NewBootstrapService(env.sc, env.credsSvc)
	result, err := bootstrap.RestoreAccounts(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, result.SuccessCount)
	assert.Empty(t, result.FailedAccounts)
	assert.Empty(t, env.registry.AccountIDs())
}

func TestBootstrapService_EmptyStores(t *testing.T) {
	env := newTestEnv(&fakeFactory{})

	bootstrap := application.NewBootstrapService(env.sc, env.credsSvc)
	result, err := bootstrap.RestoreAccounts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.SuccessCount)
	assert.Empty(t, result.FailedAccounts)
}
