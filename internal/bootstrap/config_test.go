package bootstrap

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immochat/immochat-web/config"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui.yaml")
	require.NoError(t, os.WriteFile(path, []byte("login_path: /login\ntoast:\n  theme: dark\n"), 0o600))

	t.Setenv("AUTH_MODE", "mock")
	t.Setenv("SESSION_STORE", "postgres")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("UI_CONFIG_FILE", path)
	t.Setenv("APP_BASE_URL", "https://immochat.example/")
	t.Cleanup(func() { SetLogLevel(slog.LevelInfo) })

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.AuthModeMock, cfg.Auth.Mode)
	assert.True(t, cfg.Postgres.Enabled)
	assert.Equal(t, "https://immochat.example", cfg.HTTP.BaseURL)
	assert.Equal(t, "/login", cfg.UI.LoginPath)
	assert.Equal(t, "dark", cfg.UI.ToastOptions().Theme)
	assert.True(t, InitLogger().Enabled(context.Background(), slog.LevelDebug))
}

func TestLoadConfig_EnvLoginPathWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui.yaml")
	require.NoError(t, os.WriteFile(path, []byte("login_path: /login\n"), 0o600))
	t.Setenv("UI_CONFIG_FILE", path)
	t.Setenv("UI_LOGIN_PATH", "/auth/signin")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/auth/signin", cfg.UI.LoginPath)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Setenv("AUTH_MODE", "kerberos")
	_, err := LoadConfig()
	require.ErrorContains(t, err, "parse config")

	t.Setenv("AUTH_MODE", "mock")
	path := filepath.Join(t.TempDir(), "ui.yaml")
	require.NoError(t, os.WriteFile(path, []byte("toast: [oops"), 0o600))
	t.Setenv("UI_CONFIG_FILE", path)
	_, err = LoadConfig()
	require.ErrorContains(t, err, "parse ui config file")
}

func TestSetLogLevel(t *testing.T) {
	t.Cleanup(func() { SetLogLevel(slog.LevelInfo) })
	logger := InitLogger()

	SetLogLevel(slog.LevelWarn)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
}
