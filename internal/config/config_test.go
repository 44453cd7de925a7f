package config

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	vars := map[string]string{
		"PORT":              "9876",
		"DATABASE_USER":     "nextgig",
		"DATABASE_PASSWORD": "secret",
		"DATABASE_HOST":     "localhost",
		"DATABASE_PORT":     "5432",
		"DATABASE_NAME":     "nextgig",
		"DATABASE_SSL_MODE": "disable",
		"ENV":               "DEV",
		"SESSION_KEY":       base64.StdEncoding.EncodeToString([]byte("session-key-32-bytes-long-000000")),
		"JWT_SIGNING_KEY":   base64.StdEncoding.EncodeToString([]byte("jwt-key")),
		"SITE_NAME":         "NextGig",
		"SITE_HOST":         "localhost:9876",
		"FUNCTIONS_URL":     "http://localhost:9876/",
		"FUNCTIONS_KEY":     "anon",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "http", cfg.URLProtocol)
	assert.Equal(t, []byte("jwt-key"), cfg.JwtSigningKey)
	assert.Equal(t, "http://localhost:9876", cfg.FunctionsURL)
	assert.Equal(t, 20, cfg.JobsPerPage)
	assert.Equal(t, 465, cfg.SmtpPort)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "http://localhost:9876/files", cfg.Storage.BaseURL)
	assert.Equal(t, "http://localhost:9876", cfg.SiteURL())
	assert.Contains(t, cfg.DatabaseURL(), "sslmode=disable")
}

func TestLoadConfigMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FUNCTIONS_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Equal(t, "FUNCTIONS_KEY cannot be empty", err.Error())
}

func TestLoadConfigInvalidSessionKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_KEY", "not base64!")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to decode session key")
}

func TestLoadConfigProdUsesHTTPS(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENV", "prod")
	t.Setenv("JOBS_PER_PAGE", "50")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https", cfg.URLProtocol)
	assert.Equal(t, 50, cfg.JobsPerPage)
}
