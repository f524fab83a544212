package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/99designs/keyring"

	"github.com/salmonumbrella/gitlab-cli/internal/auth"
	"github.com/salmonumbrella/gitlab-cli/internal/config"
	"github.com/salmonumbrella/gitlab-cli/internal/logging"
	"github.com/salmonumbrella/gitlab-cli/internal/testutil"
)

// setupTestEnv isolates a test from the user's config, keyring and
// environment. It returns the in-memory keyring and the config file path.
func setupTestEnv(t *testing.T) (*auth.MemoryKeyring, string) {
	t.Helper()

	home := t.TempDir()
	cfgPath := filepath.Join(home, "gitlab-cli", "config.yaml")
	t.Setenv("HOME", home)
	t.Setenv(config.PathEnvVar, cfgPath)
	t.Setenv(config.URLEnvVar, "")
	t.Setenv(auth.EnvVarName, "")
	t.Setenv(OutputEnvVar, "")
	t.Setenv(logging.FormatEnvVar, "")
	t.Setenv("NO_COLOR", "1")

	mock := auth.NewMemoryKeyring()
	auth.SetProvider(func() (auth.KeyringProvider, error) { return mock, nil })
	t.Cleanup(func() { auth.SetProvider(nil) })

	return mock, cfgPath
}

// setupServer starts a mock GitLab and points glc at it with a token.
func setupServer(t *testing.T) (*testutil.MockServer, *auth.MemoryKeyring) {
	t.Helper()
	mock, _ := setupTestEnv(t)

	ms := testutil.NewMockServer()
	t.Cleanup(ms.Close)
	t.Setenv(config.URLEnvVar, ms.URL())
	t.Setenv(auth.EnvVarName, "test-token")
	return ms, mock
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()

	var out, errBuf bytes.Buffer
	app := &App{
		Stdout:    &out,
		Stderr:    &errBuf,
		Stdin:     strings.NewReader(stdin),
		Version:   "1.2.3",
		Commit:    "abc123",
		BuildTime: "2026-01-02",
	}
	err := app.Execute(context.Background(), args)
	return cliResult{stdout: out.String(), stderr: errBuf.String(), err: err}
}

// stubBrowser records URLs instead of launching a browser.
func stubBrowser(t *testing.T) *[]string {
	t.Helper()
	var opened []string
	orig := openBrowser
	openBrowser = func(url string) error {
		opened = append(opened, url)
		return nil
	}
	t.Cleanup(func() { openBrowser = orig })
	return &opened
}

// oldTokenMetadata builds the keyring item recording a token created days ago.
func oldTokenMetadata(t *testing.T, token string, days int) keyring.Item {
	t.Helper()
	data, err := json.Marshal(auth.TokenMetadata{
		Token:     token,
		CreatedAt: time.Now().Add(-time.Duration(days) * 24 * time.Hour),
	})
	if err != nil {
		t.Fatal(err)
	}
	return keyring.Item{Key: auth.TokenMetadataKey, Data: data}
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
