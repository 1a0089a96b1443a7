package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// configPathEnv points at an optional JSON config file.
const configPathEnv = "KEEPVAULT_CONFIG"

// Config holds runtime settings for the keepvault CLI.
//
// Fields:
//   - LogLevel: minimum level for diagnostic output (debug/info/warn/error).
//   - PasswordEnv: name of an environment variable holding the master
//     password; empty means prompt on the terminal.
//   - DefaultView: view used by search when --view is not given.
type Config struct {
	LogLevel    string `json:"log_level"`
	PasswordEnv string `json:"password_env"`
	DefaultView string `json:"default_view"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.LogLevel = "info"
	c.PasswordEnv = ""
	c.DefaultView = "default"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if KEEPVAULT_CONFIG names a file) and environment variables.
// Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	return cfg, nil
}

// parseJSON overlays Config with values loaded from the JSON file named
// by KEEPVAULT_CONFIG. No file configured means no overlay.
func parseJSON(cfg *Config) error {
	path := os.Getenv(configPathEnv)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	var jc Config
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.PasswordEnv != "" {
		cfg.PasswordEnv = jc.PasswordEnv
	}
	if jc.DefaultView != "" {
		cfg.DefaultView = jc.DefaultView
	}
	return nil
}

// parseEnv overlays Config with individual environment variables.
func parseEnv(cfg *Config) {
	if v := os.Getenv("KEEPVAULT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("KEEPVAULT_PASSWORD_ENV"); v != "" {
		cfg.PasswordEnv = v
	}
	if v := os.Getenv("KEEPVAULT_DEFAULT_VIEW"); v != "" {
		cfg.DefaultView = v
	}
}
