package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaultsAndYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
jwt:
  secret: "from-yaml"
admin:
  emails: " Admin@Example.com, ops@example.com ,"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.Server.Port)
	require.Equal(t, "from-yaml", cfg.JWT.Secret)
	require.Equal(t, "local", cfg.Storage.Driver)
	require.Equal(t, []string{"admin@example.com", "ops@example.com"}, cfg.AdminEmails())
	require.Contains(t, cfg.ComingSoonPrefixes(), "/api/waitlist")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: yaml-secret\n")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("COMING_SOON", "yes")
	t.Setenv("REDIS_DB", "3")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "env-secret", cfg.JWT.Secret)
	require.True(t, cfg.ComingSoon.Enabled)
	require.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := LoadConfig(writeConfig(t, "server:\n  port: \"1\"\n"))
		require.Error(t, err)
	})

	t.Run("s3 without bucket", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "jwt:\n  secret: x\nstorage:\n  driver: s3\n"))
		require.ErrorContains(t, err, "bucket")
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "jwt:\n  secret: x\nrate_limit:\n  window: soon\n"))
		require.ErrorContains(t, err, "rate limit window")
	})
}

func TestSplitList(t *testing.T) {
	require.Nil(t, SplitList(" , ", nil))
	require.Equal(t, []string{"a", "b"}, SplitList("a, ,b", nil))
}

func TestLoadMailerConfigSkipsAPIChecks(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	path := writeConfig(t, "mailer:\n  provider: smtp\n  recipients: \"a@example.com, b@example.com\"\n")

	cfg, err := LoadMailerConfig(path)
	require.NoError(t, err)
	require.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.MailRecipients())

	_, err = LoadMailerConfig(writeConfig(t, "mailer:\n  provider: pigeon\n"))
	require.ErrorContains(t, err, "mailer provider")
}
