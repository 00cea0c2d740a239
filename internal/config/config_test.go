package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresTokenKey(t *testing.T) {
	t.Setenv("TOKEN_KEY", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TOKEN_KEY", "secret")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("SESSION_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8443", cfg.ListenAddr)
	assert.Equal(t, []byte("secret"), cfg.TokenKey)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
}

func TestLoad_SessionTTL(t *testing.T) {
	t.Setenv("TOKEN_KEY", "secret")
	t.Setenv("SESSION_TTL", "45m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, cfg.SessionTTL)

	t.Setenv("SESSION_TTL", "not-a-duration")
	_, err = Load()
	assert.Error(t, err)
}
