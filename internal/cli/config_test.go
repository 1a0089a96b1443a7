package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv("KEEPVAULT_LOG_LEVEL", "")
	t.Setenv("KEEPVAULT_PASSWORD_ENV", "")
	t.Setenv("KEEPVAULT_DEFAULT_VIEW", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.PasswordEnv)
	assert.Equal(t, "default", cfg.DefaultView)
}

func TestLoadConfig_JSONOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"log_level":"debug","default_view":"tags"}`), 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv("KEEPVAULT_LOG_LEVEL", "")
	t.Setenv("KEEPVAULT_DEFAULT_VIEW", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "tags", cfg.DefaultView)
}

func TestLoadConfig_EnvBeatsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log_level":"debug"}`), 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv("KEEPVAULT_LOG_LEVEL", "error")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoadConfig_MissingJSONFileFails(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "absent.json"))

	_, err := LoadConfig()
	require.Error(t, err)
}
