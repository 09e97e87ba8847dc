package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bkyoung/rearc/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rearc.yaml"), []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults when no file exists", func(t *testing.T) {
		cfg, err := config.Load(config.LoaderOptions{ConfigPaths: []string{t.TempDir()}})

		require.NoError(t, err)
		assert.Equal(t, 10000, cfg.Codec.MaxAttempts)
		assert.True(t, cfg.Store.Enabled)
		assert.NotEmpty(t, cfg.Store.Path)
		assert.Equal(t, "out", cfg.Output.Directory)
		assert.Equal(t, "json", cfg.Output.Format)
		assert.True(t, cfg.Observability.Logging.Enabled)
		assert.Equal(t, "info", cfg.Observability.Logging.Level)
		assert.True(t, cfg.Observability.Logging.RedactPepper)
		assert.Empty(t, cfg.Codec.Pepper)
	})

	t.Run("reads values from a config file", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, `
codec:
  pepper: file-pepper
  maxAttempts: 2000
store:
  enabled: false
  path: /tmp/rearc-test.db
output:
  directory: artifacts
  format: markdown
observability:
  logging:
    enabled: true
    level: debug
    format: json
`)

		cfg, err := config.Load(config.LoaderOptions{ConfigPaths: []string{dir}})

		require.NoError(t, err)
		assert.Equal(t, "file-pepper", cfg.Codec.Pepper)
		assert.Equal(t, 2000, cfg.Codec.MaxAttempts)
		assert.False(t, cfg.Store.Enabled)
		assert.Equal(t, "/tmp/rearc-test.db", cfg.Store.Path)
		assert.Equal(t, "artifacts", cfg.Output.Directory)
		assert.Equal(t, "markdown", cfg.Output.Format)
		assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	})

	t.Run("expands environment variables in the pepper", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, `
codec:
  pepper: ${REARC_TEST_SECRET}
`)
		t.Setenv("REARC_TEST_SECRET", "from-env")

		cfg, err := config.Load(config.LoaderOptions{ConfigPaths: []string{dir}})

		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Codec.Pepper)
	})

	t.Run("reads the pepper from a prefixed environment variable", func(t *testing.T) {
		t.Setenv("REARC_CODEC_PEPPER", "env-pepper")

		cfg, err := config.Load(config.LoaderOptions{ConfigPaths: []string{t.TempDir()}})

		require.NoError(t, err)
		assert.Equal(t, "env-pepper", cfg.Codec.Pepper)
	})

	t.Run("fails on a malformed config file", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "codec: [not a map")

		_, err := config.Load(config.LoaderOptions{ConfigPaths: []string{dir}})

		assert.Error(t, err)
	})
}
