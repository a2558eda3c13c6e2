package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LoadFileConfig reads the config file, writing the default template
// first when no file exists yet.
func LoadFileConfig() (*FileConfig, error) {
	return LoadFileConfigFromPath(GetConfigFilePath())
}

// LoadFileConfigFromPath reads the config file at configPath, creating
// it from the default template when missing.
func LoadFileConfigFromPath(configPath string) (*FileConfig, error) {
	if !FileExists(configPath) {
		if err := createDefaultConfig(configPath); err != nil {
			return nil, fmt.Errorf("failed to create config: %w", err)
		}
		return DefaultFileConfig(), nil
	}

	cfg := DefaultFileConfig()
	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// SaveFileConfig writes cfg to the default config location.
func SaveFileConfig(cfg *FileConfig) error {
	configDir := GetConfigDir()
	if err := EnsureDir(configDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := GetConfigFilePath()
	// 0600 - holds endpoints and provider selection
	f, err := os.OpenFile(configPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

func createDefaultConfig(configPath string) error {
	if err := EnsureDir(filepath.Dir(configPath)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if FileExists(configPath) {
		return nil
	}

	content := GenerateConfigTemplate()
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
