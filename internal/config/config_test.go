package config_test

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AptS-1547/dns-orchestrator/internal/config"
)

func validKey() string {
	return base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x42}, 32))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DNSORCH_SECRET_KEY", validKey())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "dnsorchestrator.db", cfg.DBPath)
	assert.Len(t, cfg.EncryptionKey, 32)
	assert.Equal(t, 4.0, cfg.ProviderRPS)
	assert.Equal(t, 8, cfg.ProviderBurst)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DNSORCH_SECRET_KEY", validKey())
	t.Setenv("DNSORCH_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("DNSORCH_DB_PATH", "/tmp/orch.db")
	t.Setenv("DNSORCH_PROVIDER_RPS", "2.5")
	t.Setenv("DNSORCH_PROVIDER_BURST", "3")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/orch.db", cfg.DBPath)
	assert.Equal(t, 2.5, cfg.ProviderRPS)
	assert.Equal(t, 3, cfg.ProviderBurst)
}

func TestLoad_SecretKeyRequired(t *testing.T) {
	t.Setenv("DNSORCH_SECRET_KEY", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DNSORCH_SECRET_KEY")
}

func TestLoad_SecretKeyBadBase64(t *testing.T) {
	t.Setenv("DNSORCH_SECRET_KEY", "not base64!!!")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_SecretKeyWrongLength(t *testing.T) {
	t.Setenv("DNSORCH_SECRET_KEY", base64.StdEncoding.EncodeToString([]byte("short")))

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 bytes")
}

func TestLoad_InvalidRPS(t *testing.T) {
	t.Setenv("DNSORCH_SECRET_KEY", validKey())
	t.Setenv("DNSORCH_PROVIDER_RPS", "fast")

	_, err := config.Load()
	require.Error(t, err)
}
