package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "blog.db", cfg.DBPath)
	require.Equal(t, "session_id", cfg.CookieName)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Empty(t, cfg.SendGridAPIKey)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("DB_PATH", "/tmp/x.db")
	t.Setenv("SESSION_TTL", "1h")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.Addr)
	require.Equal(t, "/tmp/x.db", cfg.DBPath)
	require.Equal(t, time.Hour, cfg.SessionTTL)
}
