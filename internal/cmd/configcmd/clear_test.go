package configcmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/rawtext-cli/internal/config"
)

func TestRunClear_WithExistingConfig(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, config.Default().Save(configPath))

	var out bytes.Buffer
	require.NoError(t, runClear(configPath, &out, true))
	assert.Contains(t, out.String(), "Configuration cleared from "+configPath)

	_, err := os.Stat(configPath)
	assert.True(t, os.IsNotExist(err))
}

func TestRunClear_NoConfigFile(t *testing.T) {
	clearEnv(t)

	var out bytes.Buffer
	require.NoError(t, runClear(filepath.Join(t.TempDir(), "config.yml"), &out, true))
	assert.Contains(t, out.String(), "No config file to remove")
}

func TestRunClear_Idempotent(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yml")

	var out bytes.Buffer
	require.NoError(t, runClear(configPath, &out, true))
	require.NoError(t, runClear(configPath, &out, true))
}

func TestRunClear_EnvNote(t *testing.T) {
	clearEnv(t)
	t.Setenv("RTX_INDENT", "4")

	var out bytes.Buffer
	require.NoError(t, runClear(filepath.Join(t.TempDir(), "config.yml"), &out, true))
	assert.Contains(t, out.String(), "Environment variables will still be used: [RTX_INDENT]")
}
