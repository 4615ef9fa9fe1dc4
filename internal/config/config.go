// Package config handles persisted settings for chatty.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/diogo/chatty/internal/models"
)

// Environment overrides
const (
	EnvHome               = "CHATTY_HOME"
	EnvAtlasEndpoint      = "CHATTY_ATLAS_ENDPOINT"
	EnvPerplexityEndpoint = "CHATTY_PERPLEXITY_ENDPOINT"
)

// Config represents the user configuration
type Config struct {
	// DarkMode selects the dark screen theme. Read once when the chat screen
	// is built; toggling it rebuilds the screen.
	DarkMode bool            `json:"dark_mode"`
	FontSize models.FontSize `json:"font_size"`

	AtlasEndpoint      string `json:"atlas_endpoint"`
	PerplexityEndpoint string `json:"perplexity_endpoint"`
	PerplexityModel    string `json:"perplexity_model"`
	// RequestTimeout is the per-request HTTP timeout in seconds
	RequestTimeout int `json:"request_timeout"`

	// UseKeyring stores credentials in the OS keychain instead of credentials.json
	UseKeyring      bool   `json:"use_keyring"`
	CopyToClipboard bool   `json:"copy_to_clipboard"`
	ExportDir       string `json:"export_dir,omitempty"`
	// ExportFormat is markdown or json, used by ctrl+e
	ExportFormat string `json:"export_format,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		DarkMode:           false,
		FontSize:           models.FontRegular,
		AtlasEndpoint:      "http://localhost:8000/query",
		PerplexityEndpoint: "https://api.perplexity.ai/chat/completions",
		PerplexityModel:    "sonar",
		RequestTimeout:     60,
		UseKeyring:         true,
		CopyToClipboard:    false,
		ExportFormat:       "markdown",
	}
}

// GetConfigDir returns the configuration directory path.
// CHATTY_HOME overrides the default ~/.chatty.
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".chatty"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory may hold credentials.json
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetCredentialsPath returns the path to the file-backed credential store
func GetCredentialsPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "credentials.json"), nil
}

// GetExportDir returns the transcript export directory, creating it if necessary
func GetExportDir(cfg Config) (string, error) {
	dir := cfg.ExportDir
	if dir == "" {
		configDir, err := GetConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(configDir, "exports")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	return dir, nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ApplyEnv(cfg), nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	// An unknown font size would otherwise stick around forever
	if !cfg.FontSize.Valid() {
		cfg.FontSize = models.FontRegular
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}

	return ApplyEnv(cfg), nil
}

// ApplyEnv overlays environment overrides onto cfg
func ApplyEnv(cfg Config) Config {
	if v := os.Getenv(EnvAtlasEndpoint); v != "" {
		cfg.AtlasEndpoint = v
	}
	if v := os.Getenv(EnvPerplexityEndpoint); v != "" {
		cfg.PerplexityEndpoint = v
	}
	return cfg
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Keys returns the names accepted by Set, in display order
func Keys() []string {
	return []string{
		"dark-mode",
		"font-size",
		"atlas-endpoint",
		"perplexity-endpoint",
		"perplexity-model",
		"request-timeout",
		"use-keyring",
		"copy-to-clipboard",
		"export-dir",
		"export-format",
	}
}

// Get returns the string form of the named setting
func (c Config) Get(key string) (string, error) {
	switch key {
	case "dark-mode":
		return strconv.FormatBool(c.DarkMode), nil
	case "font-size":
		return string(c.FontSize), nil
	case "atlas-endpoint":
		return c.AtlasEndpoint, nil
	case "perplexity-endpoint":
		return c.PerplexityEndpoint, nil
	case "perplexity-model":
		return c.PerplexityModel, nil
	case "request-timeout":
		return strconv.Itoa(c.RequestTimeout), nil
	case "use-keyring":
		return strconv.FormatBool(c.UseKeyring), nil
	case "copy-to-clipboard":
		return strconv.FormatBool(c.CopyToClipboard), nil
	case "export-dir":
		return c.ExportDir, nil
	case "export-format":
		return c.ExportFormat, nil
	}
	return "", unknownKey(key)
}

// Set parses value and assigns it to the named setting
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "dark-mode", "use-keyring", "copy-to-clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false, got %q", key, value)
		}
		switch key {
		case "dark-mode":
			c.DarkMode = b
		case "use-keyring":
			c.UseKeyring = b
		default:
			c.CopyToClipboard = b
		}
	case "font-size":
		f, err := models.ParseFontSize(value)
		if err != nil {
			return err
		}
		c.FontSize = f
	case "atlas-endpoint":
		c.AtlasEndpoint = value
	case "perplexity-endpoint":
		c.PerplexityEndpoint = value
	case "perplexity-model":
		c.PerplexityModel = value
	case "request-timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("request-timeout expects a positive number of seconds, got %q", value)
		}
		c.RequestTimeout = n
	case "export-dir":
		c.ExportDir = value
	case "export-format":
		format := strings.ToLower(value)
		if format != "markdown" && format != "json" {
			return fmt.Errorf("export-format expects markdown or json, got %q", value)
		}
		c.ExportFormat = format
	default:
		return unknownKey(key)
	}
	return nil
}

func unknownKey(key string) error {
	return fmt.Errorf("unknown setting %q (available: %s)", key, strings.Join(Keys(), ", "))
}
