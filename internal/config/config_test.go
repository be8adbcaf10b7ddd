package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Contains(t, cfg.DB.DSN(), "dbname=aijournal")
	require.NoError(t, cfg.AI.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AIJOURNAL_SERVER_PORT", "9999")
	t.Setenv("AIJOURNAL_DB_NAME", "journal_test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Contains(t, cfg.DB.DSN(), "dbname=journal_test")
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	dir := t.TempDir()
	path := filepath.Join(dir, "aijournal.yaml")
	yaml := "server:\n  port: 3000\nai:\n  model: gpt-4o\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "gpt-4o", cfg.AI.Model)
}

func TestValidateFailsWithoutAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Error(t, cfg.AI.Validate())
}

func TestMissingExplicitConfigFileIsAnError(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
