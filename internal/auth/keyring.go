package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/99designs/keyring"
)

const (
	// ServiceName is the keyring service name for gitlab-cli
	ServiceName = "gitlab-cli"
	// KeyName is the key used to store the token in the keyring
	KeyName = "gitlab-token"
	// TokenMetadataKey is the key used to store token metadata in the keyring
	TokenMetadataKey = "gitlab-token-metadata"
	// EnvVarName is the environment variable that overrides any stored token
	EnvVarName = "GITLAB_TOKEN"
	// CredentialsDirEnvVarName controls the file keyring root directory.
	// Files are stored under: <dir>/gitlab-cli/keyring
	CredentialsDirEnvVarName = "GITLAB_CREDENTIALS_DIR"
	// KeyringPasswordEnvVarName sets the file keyring passphrase for non-interactive setups.
	KeyringPasswordEnvVarName = "GITLAB_KEYRING_PASSWORD"
	// DBUSSessionAddressEnvVarName is used to detect Linux headless mode.
	DBUSSessionAddressEnvVarName = "DBUS_SESSION_BUS_ADDRESS"
	// TokenRotationThresholdDays is the number of days before warning about token age
	TokenRotationThresholdDays = 90
)

// TokenMetadata contains metadata about the stored token
type TokenMetadata struct {
	Token     string    `json:"token"`
	URL       string    `json:"url,omitempty"` // instance the token was stored for
	CreatedAt time.Time `json:"created_at"`
}

// KeyringProvider defines an interface for keyring operations
type KeyringProvider interface {
	Get(key string) (keyring.Item, error)
	Set(item keyring.Item) error
	Remove(key string) error
}

// osKeyring wraps the actual OS keyring implementation
type osKeyring struct {
	ring keyring.Keyring
}

func keyringFileDir() string {
	if dir := strings.TrimSpace(os.Getenv(CredentialsDirEnvVarName)); dir != "" {
		return filepath.Join(dir, ServiceName, "keyring")
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = os.Getenv("HOME")
	}

	configDir = strings.TrimSpace(configDir)
	if configDir == "" {
		return string(os.PathSeparator) + filepath.Join(ServiceName, "keyring")
	}
	return filepath.Join(configDir, ServiceName, "keyring")
}

func keyringFilePassword() string {
	if password := strings.TrimSpace(os.Getenv(KeyringPasswordEnvVarName)); password != "" {
		return password
	}
	return ServiceName
}

func shouldForceFileBackend(goos string, dbusAddr string) bool {
	return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
}

// newOSKeyring creates a new OS keyring provider
func newOSKeyring() (KeyringProvider, error) {
	cfg := keyring.Config{
		ServiceName: ServiceName,
		// macOS Keychain settings
		KeychainTrustApplication:       true,
		KeychainSynchronizable:         false,
		KeychainAccessibleWhenUnlocked: true,
		// File-based fallback (for environments without GUI keyring)
		FileDir:          keyringFileDir(),
		FilePasswordFunc: func(_ string) (string, error) { return keyringFilePassword(), nil },
	}

	if shouldForceFileBackend(runtime.GOOS, os.Getenv(DBUSSessionAddressEnvVarName)) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, err
	}
	return &osKeyring{ring: ring}, nil
}

func (k *osKeyring) Get(key string) (keyring.Item, error) {
	return k.ring.Get(key)
}

func (k *osKeyring) Set(item keyring.Item) error {
	return k.ring.Set(item)
}

func (k *osKeyring) Remove(key string) error {
	return k.ring.Remove(key)
}

// defaultProvider opens the keyring used by this package. Tests swap it
// with SetProvider.
var defaultProvider func() (KeyringProvider, error) = newOSKeyring

// StoreToken stores the GitLab token in the system keyring.
func StoreToken(token string) error {
	return StoreTokenForURL(token, "")
}

// StoreTokenForURL stores the token along with the instance it belongs to.
// The CreatedAt timestamp is kept when the token hasn't changed.
func StoreTokenForURL(token, instanceURL string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	provider, err := defaultProvider()
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}

	createdAt := time.Now()
	if existing, err := GetTokenMetadata(); err == nil && existing != nil && existing.Token == token {
		createdAt = existing.CreatedAt
	}

	data, err := json.Marshal(TokenMetadata{
		Token:     token,
		URL:       instanceURL,
		CreatedAt: createdAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal token metadata: %w", err)
	}

	err = provider.Set(keyring.Item{
		Key:   TokenMetadataKey,
		Label: "GitLab CLI Token Metadata",
		Data:  data,
	})
	if err != nil {
		return fmt.Errorf("failed to store token metadata in keyring: %w", err)
	}

	err = provider.Set(keyring.Item{
		Key:   KeyName,
		Label: "GitLab CLI Token",
		Data:  []byte(token),
	})
	if err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}

	return nil
}

// GetToken retrieves the token from GITLAB_TOKEN or the keyring.
// The environment is checked first so CI and tests never hit a keychain prompt.
func GetToken() (string, error) {
	if token := os.Getenv(EnvVarName); token != "" {
		return token, nil
	}
	return getKeyringToken()
}

func getKeyringToken() (string, error) {
	provider, err := defaultProvider()
	if err == nil {
		item, err := provider.Get(KeyName)
		if err == nil && len(item.Data) > 0 {
			return string(item.Data), nil
		}
	}
	return "", fmt.Errorf("no GitLab token found in %s environment variable or keyring", EnvVarName)
}

// GetTokenMetadata retrieves token metadata from the keyring.
// This only returns metadata for tokens stored in the keyring, not env vars.
func GetTokenMetadata() (*TokenMetadata, error) {
	provider, err := defaultProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}

	item, err := provider.Get(TokenMetadataKey)
	if err != nil {
		return nil, err
	}

	var metadata TokenMetadata
	if err := json.Unmarshal(item.Data, &metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token metadata: %w", err)
	}

	return &metadata, nil
}

// DeleteToken removes the token from the keyring.
// Does not return an error if the token doesn't exist.
func DeleteToken() error {
	provider, err := defaultProvider()
	if err != nil {
		// If we can't open the keyring, there's nothing to delete
		return nil
	}

	err = provider.Remove(KeyName)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}

	_ = provider.Remove(TokenMetadataKey)

	return nil
}

// TokenAgeDays calculates the age of a token in days from its creation time.
// Returns 0 if createdAt is zero (token age unknown).
func TokenAgeDays(createdAt time.Time) int {
	if createdAt.IsZero() {
		return 0
	}
	return int(time.Since(createdAt).Hours() / 24)
}

// IsTokenExpiringSoon checks if a token is older than the rotation threshold.
func IsTokenExpiringSoon(createdAt time.Time) bool {
	if createdAt.IsZero() {
		return false
	}
	return TokenAgeDays(createdAt) > TokenRotationThresholdDays
}

// FormatTokenAge formats the token creation time and age in a human-readable way.
// Returns empty string if createdAt is zero (token age unknown).
func FormatTokenAge(createdAt time.Time) string {
	if createdAt.IsZero() {
		return ""
	}
	age := TokenAgeDays(createdAt)
	dateStr := createdAt.Format("2006-01-02")
	switch age {
	case 0:
		return fmt.Sprintf("created today (%s)", dateStr)
	case 1:
		return fmt.Sprintf("1 day ago (created %s)", dateStr)
	default:
		return fmt.Sprintf("%d days ago (created %s)", age, dateStr)
	}
}
