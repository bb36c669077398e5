package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benmeehan/locate/internal/utils"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// parseFlags binds the config flags to a fresh command so that flag state does not leak between tests.
func parseFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	for _, name := range []string{utils.EnvAPIKey, utils.EnvEngine, utils.EnvLogLevel, utils.EnvTimeout} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	cmd := &cobra.Command{Use: "locate"}
	bindConfigFlags(cmd.PersistentFlags())
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestLoadConfig_FlagOverridesEnvAndFile(t *testing.T) {
	path := writeConfig(t, "api_key: file-key\nengine: wifi\ntimeout: 5s\n")
	cmd := parseFlags(t, "--config", path, "--key", "flag-key", "--timeout", "2s", "--ip-fallback")
	t.Setenv(utils.EnvAPIKey, "env-key")

	config, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "flag-key", config.APIKey)
	assert.Equal(t, 2*time.Second, config.Timeout)
	assert.True(t, config.IPFallback)
	assert.Equal(t, "wifi", config.Engine)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "api_key: file-key\n")
	cmd := parseFlags(t, "--config", path)
	t.Setenv(utils.EnvAPIKey, "env-key")

	config, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "env-key", config.APIKey)
}

func TestLoadConfig_FlagFixesInvalidFileValue(t *testing.T) {
	path := writeConfig(t, "engine: sonar\n")

	_, err := loadConfig(parseFlags(t, "--config", path))
	assert.ErrorContains(t, err, "engine must be wifi or gps")

	config, err := loadConfig(parseFlags(t, "--config", path, "--engine", "gps"))
	require.NoError(t, err)
	assert.Equal(t, "gps", config.Engine)
}

func TestLoadConfig_InvalidFlagValue(t *testing.T) {
	path := writeConfig(t, "")

	_, err := loadConfig(parseFlags(t, "--config", path, "--street-address", "street"))
	assert.ErrorContains(t, err, "street_address_lookup")
}
