package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENCRYPTION_KEY", strings.Repeat("ab", 32))
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Len(t, cfg.EncryptionKey, 32)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ENCRYPTION_KEY", strings.Repeat("ab", 32))
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadRequiresEncryptionKey(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENCRYPTION_KEY", "")
	_, err := Load()
	assert.ErrorContains(t, err, "ENCRYPTION_KEY")
}

func TestLoadRejectsBadEncryptionKey(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Setenv("ENCRYPTION_KEY", "not hex")
	_, err := Load()
	assert.ErrorContains(t, err, "hex")

	t.Setenv("ENCRYPTION_KEY", "abcd") // hex but only 2 bytes
	_, err = Load()
	assert.ErrorContains(t, err, "32 bytes")
}

func TestLoadParsesTTLsAndOrigins(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "30")
	t.Setenv("REFRESH_TOKEN_EXPIRE_DAYS", "7")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.CORSOrigins)
}

func TestLoadRejectsBadTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "zero")
	_, err := Load()
	assert.Error(t, err)
}
