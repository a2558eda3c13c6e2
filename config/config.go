// Package config loads the service configuration: TOML file with
// generated defaults, environment overrides on top, API keys from the
// environment only.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sanjeev23oct/copilotkit-chat-sub001/provider"
)

// ProviderEntry configures one selectable backend in the config file.
// API keys never live in the file; APIKeyEnv names the variable that
// carries the key.
type ProviderEntry struct {
	ID        string `toml:"id"`
	BaseURL   string `toml:"base_url,omitempty"`
	Model     string `toml:"model"`
	APIKeyEnv string `toml:"api_key_env,omitempty"`
	Enabled   bool   `toml:"enabled"`
}

// FileConfig is the TOML shape of the config file.
type FileConfig struct {
	DataDirectory   string          `toml:"data_directory"`
	DefaultProvider string          `toml:"default_provider"`
	Temperature     float64         `toml:"temperature"`
	MaxTokens       int             `toml:"max_tokens"`
	DatabaseURL     string          `toml:"database_url,omitempty"`
	Providers       []ProviderEntry `toml:"providers"`
}

// Config is the resolved runtime configuration.
type Config struct {
	DataDirectory   string
	DefaultProvider string
	Temperature     float64
	MaxTokens       int
	DatabaseURL     string
	Providers       []ProviderEntry
}

// DataDir returns the expanded data directory path.
func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// Provider finds a configured provider entry by ID.
func (c *Config) Provider(id string) (*ProviderEntry, error) {
	for i := range c.Providers {
		if c.Providers[i].ID == id {
			return &c.Providers[i], nil
		}
	}
	return nil, fmt.Errorf("provider %q is not configured", id)
}

// ResolveProvider builds the adapter configuration for the given
// provider ID, falling back to the default provider on an empty ID.
// Credentials come from the entry's API key variable. Construction
// validation (missing key, unknown type) is the factory's job;
// resolution only assembles the inputs.
func (c *Config) ResolveProvider(id string) (provider.Config, error) {
	if id == "" {
		id = c.DefaultProvider
	}

	entry, err := c.Provider(id)
	if err != nil {
		return provider.Config{}, err
	}

	baseURL := entry.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL(id)
	}

	apiKey := ""
	if entry.APIKeyEnv != "" {
		apiKey = os.Getenv(entry.APIKeyEnv)
	}

	return provider.Config{
		Type:        provider.MapProviderIDToType(id),
		Name:        id,
		BaseURL:     baseURL,
		APIKey:      apiKey,
		Model:       entry.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}, nil
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("PILOT_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if providerID := os.Getenv("PILOT_PROVIDER"); providerID != "" {
		c.DefaultProvider = providerID
	}
	if modelName := os.Getenv("PILOT_MODEL"); modelName != "" {
		for i := range c.Providers {
			if c.Providers[i].ID == c.DefaultProvider {
				c.Providers[i].Model = modelName
			}
		}
	}
	if baseURL := os.Getenv("PILOT_BASE_URL"); baseURL != "" {
		for i := range c.Providers {
			if c.Providers[i].ID == c.DefaultProvider {
				c.Providers[i].BaseURL = baseURL
			}
		}
	}
	if dbURL := os.Getenv("PILOT_DATABASE_URL"); dbURL != "" {
		c.DatabaseURL = dbURL
	}
	if temp := os.Getenv("PILOT_TEMPERATURE"); temp != "" {
		if v, err := strconv.ParseFloat(temp, 64); err == nil {
			c.Temperature = v
		}
	}
	if maxTokens := os.Getenv("PILOT_MAX_TOKENS"); maxTokens != "" {
		if v, err := strconv.Atoi(maxTokens); err == nil {
			c.MaxTokens = v
		}
	}
}

// Load reads the config file, creating it with defaults when missing,
// and applies environment overrides.
func Load() (*Config, error) {
	fileCfg, err := LoadFileConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDirectory:   fileCfg.DataDirectory,
		DefaultProvider: fileCfg.DefaultProvider,
		Temperature:     fileCfg.Temperature,
		MaxTokens:       fileCfg.MaxTokens,
		DatabaseURL:     fileCfg.DatabaseURL,
		Providers:       fileCfg.Providers,
	}
	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// defaultBaseURL returns the well-known endpoint for a provider ID.
func defaultBaseURL(id string) string {
	switch id {
	case "openai":
		return "https://api.openai.com/v1"
	case "openrouter":
		return "https://openrouter.ai/api/v1"
	case "anthropic":
		return "https://api.anthropic.com"
	case "ollama":
		return "http://localhost:11434"
	case "lmstudio":
		return "http://localhost:1234/v1"
	default:
		return ""
	}
}
