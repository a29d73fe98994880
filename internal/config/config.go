// Package config loads application configuration from environment variables.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
)

// encryptionKeyLength is the AES-256 key size used for credentials at rest.
const encryptionKeyLength = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr    string
	DBPath        string
	EncryptionKey []byte
	ProviderRPS   float64
	ProviderBurst int
}

// Load reads configuration from environment variables and returns a validated
// Config. DNSORCH_SECRET_KEY is required: a base64-encoded 32-byte key used to
// encrypt stored credentials. Optional variables with defaults:
// DNSORCH_LISTEN_ADDR (127.0.0.1:8080), DNSORCH_DB_PATH (dnsorchestrator.db),
// DNSORCH_PROVIDER_RPS (4), DNSORCH_PROVIDER_BURST (8).
func Load() (*Config, error) {
	secret := os.Getenv("DNSORCH_SECRET_KEY")
	if secret == "" {
		return nil, fmt.Errorf("DNSORCH_SECRET_KEY is required (base64-encoded 32-byte key)")
	}
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("DNSORCH_SECRET_KEY is not valid base64: %w", err)
	}
	if len(key) != encryptionKeyLength {
		return nil, fmt.Errorf("DNSORCH_SECRET_KEY must decode to %d bytes, got %d", encryptionKeyLength, len(key))
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("DNSORCH_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "dnsorchestrator.db"
	if v, ok := os.LookupEnv("DNSORCH_DB_PATH"); ok {
		dbPath = v
	}

	rps := 4.0
	if v, ok := os.LookupEnv("DNSORCH_PROVIDER_RPS"); ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("DNSORCH_PROVIDER_RPS has invalid value %q", v)
		}
		rps = parsed
	}

	burst := 8
	if v, ok := os.LookupEnv("DNSORCH_PROVIDER_BURST"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("DNSORCH_PROVIDER_BURST has invalid value %q", v)
		}
		burst = parsed
	}

	return &Config{
		ListenAddr:    listenAddr,
		DBPath:        dbPath,
		EncryptionKey: key,
		ProviderRPS:   rps,
		ProviderBurst: burst,
	}, nil
}
