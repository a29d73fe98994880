package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AptS-1547/dns-orchestrator/internal/domain/apperr"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/model"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/port/driven"
)

func TestCredentialService_ValidateAndCreateProvider(t *testing.T) {
	env := newTestEnv(&fakeFactory{})

	conn, err := env.credsSvc.ValidateAndCreateProvider(context.Background(), model.ProviderCloudflare, model.Credentials{"api_token": "tok"})
	require.NoError(t, err)
	assert.Equal(t, model.ProviderCloudflare, conn.Type())

	// No side effects on success either: registration is the caller's call.
	assert.Empty(t, env.registry.AccountIDs())
}

func TestCredentialService_ValidateRejection(t *testing.T) {
	env := newTestEnv(&fakeFactory{})

	_, err := env.credsSvc.ValidateAndCreateProvider(context.Background(), model.ProviderCloudflare, model.Credentials{"api_token": "bad"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeCredentialValidation, apperr.Code(err))
	assert.Equal(t, "cloudflare", apperr.Details(err)["provider"])
}

func TestCredentialService_ValidateRejectionWithProviderMessage(t *testing.T) {
	env := newTestEnv(&fakeFactory{
		construct: func(pt model.ProviderType, _ model.Credentials) (driven.DNSProvider, error) {
			return &fakeProvider{providerType: pt, validateErr: invalidCredsErr("Invalid API Token")}, nil
		},
	})

	_, err := env.credsSvc.ValidateAndCreateProvider(context.Background(), model.ProviderCloudflare, model.Credentials{"api_token": "x"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeCredentialValidation, apperr.Code(err))
	assert.Equal(t, "Invalid API Token", apperr.Details(err)["message"])
}

func TestCredentialService_ValidateNetworkFailure(t *testing.T) {
	env := newTestEnv(&fakeFactory{
		construct: func(pt model.ProviderType, _ model.Credentials) (driven.DNSProvider, error) {
			return &fakeProvider{providerType: pt, validateErr: &driven.ProviderError{
				Kind:     driven.ProviderErrNetwork,
				Provider: pt,
			}}, nil
		},
	})

	_, err := env.credsSvc.ValidateAndCreateProvider(context.Background(), model.ProviderCloudflare, model.Credentials{"api_token": "x"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeAPIError, apperr.Code(err))
}

func TestCredentialService_FactoryErrorPassesThrough(t *testing.T) {
	env := newTestEnv(&fakeFactory{
		construct: func(model.ProviderType, model.Credentials) (driven.DNSProvider, error) {
			return nil, apperr.ProviderNotFound("carrier-pigeon")
		},
	})

	_, err := env.credsSvc.ValidateAndCreateProvider(context.Background(), "carrier-pigeon", model.Credentials{})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeProviderNotFound, apperr.Code(err))
}

func TestCredentialService_StorePassthroughErrors(t *testing.T) {
	env := newTestEnv(&fakeFactory{})
	env.creds.saveErr = errors.New("disk full")

	err := env.credsSvc.SaveCredentials(context.Background(), "acc-1", model.Credentials{"api_token": "tok"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeCredentialError, apperr.Code(err))
}
