package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/salmonumbrella/gitlab-cli/internal/auth"
	"github.com/salmonumbrella/gitlab-cli/internal/cmdutil"
	"github.com/salmonumbrella/gitlab-cli/internal/config"
	"github.com/salmonumbrella/gitlab-cli/internal/debug"
	"github.com/salmonumbrella/gitlab-cli/internal/errors"
	"github.com/salmonumbrella/gitlab-cli/internal/gitlab"
	"github.com/salmonumbrella/gitlab-cli/internal/ui"
)

func clientFromContext(ctx context.Context) (*gitlab.Client, error) {
	cfg := ConfigFromContext(ctx)
	token, err := auth.ResolveToken(cfg)
	if err != nil {
		return nil, errors.AuthRequiredError(err)
	}
	return NewGitLabClient(ctx, token), nil
}

// NewGitLabClient creates a client for the configured instance with debug
// output enabled if the --debug flag was set.
// Base URL precedence: GITLAB_URL, config url, https://gitlab.com.
func NewGitLabClient(ctx context.Context, token string) *gitlab.Client {
	cfg := ConfigFromContext(ctx)
	if cfg == nil {
		// Direct calls that bypass the root pre-run.
		cfg, _ = config.Load()
	}

	client := gitlab.NewClient(token).WithBaseURL(cfg.ResolveURL())
	if debug.IsDebug(ctx) {
		client.WithDebugOutput(stderrFromContext(ctx))
	}
	return client
}

// projectArg normalizes --project-id, accepting IDs, paths and project URLs.
func projectArg(value string) (string, error) {
	const hint = "Pass a numeric ID, group/project, or the project URL"
	if strings.TrimSpace(value) == "" {
		return "", errors.NewUserError("--project-id is required", hint)
	}
	project, err := cmdutil.NormalizeProjectID(value)
	if err != nil {
		return "", errors.WrapUserError(err, "invalid --project-id", hint)
	}
	return project, nil
}

// checkTokenAgeAndWarn warns when the keyring token is older than the
// rotation threshold. Tokens from the environment or the config file are
// not tracked.
func checkTokenAgeAndWarn(ctx context.Context, cfg *config.Config, quiet bool) {
	if quiet {
		return
	}
	if os.Getenv(auth.EnvVarName) != "" {
		return
	}
	if cfg != nil {
		if kind, _ := config.ParseTokenSource(cfg.TokenSource); kind == config.SourceEnv || kind == config.SourceLiteral {
			return
		}
	}

	metadata, err := auth.GetTokenMetadata()
	if err != nil || metadata == nil {
		return
	}

	if auth.IsTokenExpiringSoon(metadata.CreatedAt) {
		ui.FromContext(ctx).Warning(
			"Your GitLab token is %d days old. Consider rotating it with 'glc config set --token'.",
			auth.TokenAgeDays(metadata.CreatedAt),
		)
	}
}
