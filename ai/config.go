package ai

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProviderConfig holds the settings of one configured provider.
type ProviderConfig struct {
	APIKey string `yaml:"api_key,omitempty"`
	Model  string `yaml:"model,omitempty"`
}

// Config is the provider configuration file (config.yaml by convention).
type Config struct {
	DefaultProvider string                    `yaml:"default_provider"`
	Providers       map[string]ProviderConfig `yaml:"providers"`
}

// LoadConfig reads a provider configuration file and selects the provider:
// the explicit name when given, the file's default otherwise.
func LoadConfig(path, provider string) (string, ProviderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", ProviderConfig{}, fmt.Errorf("failed to read provider config %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return "", ProviderConfig{}, fmt.Errorf("failed to parse provider config %q: %w", path, err)
	}

	if provider == "" {
		provider = cfg.DefaultProvider
	}
	if provider == "" {
		return "", ProviderConfig{}, errors.New("no provider selected and no default_provider configured")
	}

	return provider, cfg.Providers[provider], nil
}
