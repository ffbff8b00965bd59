package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("MD_MEMO_DIR sets memo dir", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvMemoDir, "/tmp/memos")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "/tmp/memos", cfg.Memo.Dir)
	})

	t.Run("empty MD_MEMO_DIR keeps configured dir", func(t *testing.T) {
		clearEnv(t)

		cfg := &Config{Memo: MemoConfig{Dir: "/from/yaml"}}
		cfg.applyEnvOverrides()

		assert.Equal(t, "/from/yaml", cfg.Memo.Dir)
	})

	t.Run("log level override", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvLogLevel, "debug")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("bare integer timeout means seconds", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvHTTPTimeout, "15")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "15s", cfg.HTTP.Timeout)
		assert.Equal(t, 15*time.Second, cfg.GetHTTPTimeout())
	})

	t.Run("duration timeout", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvHTTPTimeout, "250ms")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 250*time.Millisecond, cfg.GetHTTPTimeout())
	})
}

func TestEnvOverridesBeatFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("memo:\n  dir: /from/file\n"), 0644))
	t.Setenv(EnvMemoDir, "/from/env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Memo.Dir)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MEMOMCP_TEST_FROM_DOTENV=loaded\nMEMOMCP_TEST_PRESET=fromfile\n"), 0644))

	t.Setenv("MEMOMCP_TEST_PRESET", "fromenv")
	t.Setenv("MEMOMCP_TEST_FROM_DOTENV", "")
	require.NoError(t, os.Unsetenv("MEMOMCP_TEST_FROM_DOTENV"))

	require.NoError(t, LoadDotEnv(envFile, filepath.Join(dir, "missing.env")))

	assert.Equal(t, "loaded", os.Getenv("MEMOMCP_TEST_FROM_DOTENV"))
	assert.Equal(t, "fromenv", os.Getenv("MEMOMCP_TEST_PRESET"))
}
