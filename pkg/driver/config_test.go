package driver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
natives: [clock]
color: false
repl:
  prompt: "lox> "
  history: /tmp/lox_history
server:
  addr: "127.0.0.1:9000"
  timeout: 250ms
  max_body_bytes: 1024
  max_output_bytes: 2048
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, []string{"clock"}, cfg.Natives)
	assert.False(t, cfg.Color)
	assert.Equal(t, "lox> ", cfg.REPL.Prompt)
	assert.Equal(t, "/tmp/lox_history", cfg.REPL.History)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Server.Timeout)
	assert.EqualValues(t, 1024, cfg.Server.MaxBodyBytes)
	assert.EqualValues(t, 2048, cfg.Server.MaxOutputBytes)
}

func TestLoadConfigDefaultsAndEmptyNatives(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, t.TempDir(), "natives: []\n"))
	require.NoError(t, err)
	assert.NotNil(t, cfg.Natives)
	assert.Empty(t, cfg.Natives)
	defaults := DefaultConfig()
	assert.Equal(t, defaults.REPL.Prompt, cfg.REPL.Prompt)
	assert.Equal(t, defaults.Server, cfg.Server)
	assert.True(t, cfg.Color)
}

func TestLoadConfigEmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, t.TempDir(), ""))
	require.NoError(t, err)
	assert.Nil(t, cfg.Natives)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, t.TempDir(), "colour: true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestLoadConfigValidation(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, t.TempDir(), `
natives: [clock, sleep]
server:
  timeout: soon
  max_body_bytes: 0
  max_output_bytes: -1
`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Issues, 4)
	assert.Contains(t, verr.Error(), "server.max_output_bytes must be positive")
	assert.Contains(t, verr.Error(), `unknown native "sleep"`)
	assert.Contains(t, verr.Error(), "server.max_body_bytes must be positive")
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "color: false\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestResolveConfig(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "repl:\n  prompt: \"found> \"\n")
	other := filepath.Join(t.TempDir(), "other.yml")
	require.NoError(t, os.WriteFile(other, []byte("repl:\n  prompt: \"env> \"\n"), 0o644))

	t.Setenv(ConfigEnvVar, "")
	cfg, err := ResolveConfig("", root)
	require.NoError(t, err)
	assert.Equal(t, "found> ", cfg.REPL.Prompt)

	t.Setenv(ConfigEnvVar, other)
	cfg, err = ResolveConfig("", root)
	require.NoError(t, err)
	assert.Equal(t, "env> ", cfg.REPL.Prompt)

	cfg, err = ResolveConfig(filepath.Join(root, ConfigFileName), root)
	require.NoError(t, err)
	assert.Equal(t, "found> ", cfg.REPL.Prompt)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
