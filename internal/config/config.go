package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultURL is the instance used when none is configured.
	DefaultURL = "https://gitlab.com"

	// PathEnvVar overrides the config file location.
	PathEnvVar = "GITLAB_CLI_CONFIG"
	// URLEnvVar overrides the configured instance URL.
	URLEnvVar = "GITLAB_URL"

	// TokenSourceKeyring reads the token from the system keyring.
	TokenSourceKeyring   = "keyring"
	tokenSourceEnvPrefix = "env:"
)

// Config represents the CLI configuration
type Config struct {
	// GitLab instance URL, e.g. https://gitlab.example.com
	URL string `yaml:"url,omitempty"`

	// Token source: "keyring", "env:VAR_NAME", or direct token value
	TokenSource string `yaml:"token_source,omitempty"`

	// Default output format (text, table, json, ndjson, yaml)
	Output string `yaml:"output,omitempty"`

	// Default color mode (auto, always, never)
	Color string `yaml:"color,omitempty"`
}

// configPathFunc is the function used to get the default config path
// It can be overridden for testing
var configPathFunc = defaultConfigPath

// SetConfigPathFunc sets the config path function for testing.
// Returns the original function so it can be restored.
func SetConfigPathFunc(fn func() (string, error)) func() (string, error) {
	orig := configPathFunc
	configPathFunc = fn
	return orig
}

// defaultConfigPath returns $GITLAB_CLI_CONFIG or ~/.config/gitlab-cli/config.yaml
func defaultConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(PathEnvVar)); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gitlab-cli", "config.yaml"), nil
}

// DefaultConfigPath returns the config file path in use.
func DefaultConfigPath() (string, error) {
	return configPathFunc()
}

// Load loads config from the default path, returns empty config if not found
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return &Config{}, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil // Return empty config if file doesn't exist
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	return &cfg, nil
}

// Save saves config to the default path
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveToPath(path)
}

// SaveToPath saves config to a specific path
func (c *Config) SaveToPath(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// GetOutput returns the effective output format (config default or empty)
func (c *Config) GetOutput() string {
	return c.Output
}

// GetColor returns the effective color mode (config default or empty)
func (c *Config) GetColor() string {
	return c.Color
}

// ResolveURL returns the instance URL: GITLAB_URL, then the config file,
// then gitlab.com.
func (c *Config) ResolveURL() string {
	if u := strings.TrimSpace(os.Getenv(URLEnvVar)); u != "" {
		return u
	}
	if c != nil && strings.TrimSpace(c.URL) != "" {
		return strings.TrimSpace(c.URL)
	}
	return DefaultURL
}

// SourceKind classifies a token_source value.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceKeyring
	SourceEnv
	SourceLiteral
)

// ParseTokenSource splits token_source into its kind and argument. For env
// sources the argument is the variable name; for literals it is the token.
func ParseTokenSource(source string) (SourceKind, string) {
	source = strings.TrimSpace(source)
	switch {
	case source == "":
		return SourceNone, ""
	case source == TokenSourceKeyring:
		return SourceKeyring, ""
	case strings.HasPrefix(source, tokenSourceEnvPrefix):
		return SourceEnv, strings.TrimSpace(strings.TrimPrefix(source, tokenSourceEnvPrefix))
	default:
		return SourceLiteral, source
	}
}

// EnvTokenSource returns the token_source value reading from env var name.
func EnvTokenSource(name string) string {
	return tokenSourceEnvPrefix + name
}

// RedactedTokenSource returns token_source safe for display.
func (c *Config) RedactedTokenSource() string {
	kind, arg := ParseTokenSource(c.TokenSource)
	if kind != SourceLiteral {
		return c.TokenSource
	}
	if len(arg) <= 8 {
		return "****"
	}
	return "..." + arg[len(arg)-4:]
}
