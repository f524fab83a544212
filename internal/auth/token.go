package auth

import (
	"fmt"
	"os"

	"github.com/salmonumbrella/gitlab-cli/internal/config"
)

// ResolveToken returns the token to authenticate with. GITLAB_TOKEN wins;
// otherwise cfg's token_source decides:
//   - "" or "keyring" - the system keyring
//   - "env:VAR_NAME" - the named environment variable
//   - anything else - the value itself
func ResolveToken(cfg *config.Config) (string, error) {
	if token := os.Getenv(EnvVarName); token != "" {
		return token, nil
	}

	source := ""
	if cfg != nil {
		source = cfg.TokenSource
	}

	kind, arg := config.ParseTokenSource(source)
	switch kind {
	case config.SourceEnv:
		if arg == "" {
			return "", fmt.Errorf("token_source %q names no environment variable", source)
		}
		token := os.Getenv(arg)
		if token == "" {
			return "", fmt.Errorf("environment variable %s is not set", arg)
		}
		return token, nil
	case config.SourceLiteral:
		return arg, nil
	default:
		return getKeyringToken()
	}
}
