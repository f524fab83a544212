package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/salmonumbrella/gitlab-cli/internal/auth"
	"github.com/salmonumbrella/gitlab-cli/internal/cmdutil"
	"github.com/salmonumbrella/gitlab-cli/internal/config"
	"github.com/salmonumbrella/gitlab-cli/internal/errors"
	"github.com/salmonumbrella/gitlab-cli/internal/output"
	"github.com/salmonumbrella/gitlab-cli/internal/ui"
	"github.com/salmonumbrella/gitlab-cli/internal/validate"
)

const (
	tokenStoreKeyring = "keyring"
	tokenStoreFile    = "file"
)

// readSecret reads a line from a terminal without echo. Tests replace it.
var readSecret = func(r io.Reader) (string, error) {
	f, ok := r.(*os.File)
	if !ok {
		return "", fmt.Errorf("stdin is not a terminal")
	}
	b, err := term.ReadPassword(int(f.Fd()))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// stdinIsTerminal reports whether prompts can be shown. Tests replace it.
var stdinIsTerminal = isTerminalReader

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"cfg"},
		Short:   "Manage the instance URL and access token",
		Long:    `Manage the glc configuration file at ~/.config/gitlab-cli/config.yaml`,
	}
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigDisplayCmd())
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigClearTokenCmd())
	return cmd
}

type configSetOptions struct {
	url           string
	token         string
	tokenEnv      string
	tokenStore    string
	defaultOutput string
	defaultColor  string
}

func newConfigSetCmd() *cobra.Command {
	var opts configSetOptions

	cmd := &cobra.Command{
		Use:     "set",
		Aliases: []string{"s"},
		Short:   "Save the instance URL and access token",
		Long: `Save the GitLab instance URL and the access token used by every command.

The token goes to the system keyring by default. --token-store file keeps it
in the config file instead (mode 0600), and --token-env reads it from an
environment variable at run time. Pass --token - to read the token from
stdin or --token @path to read it from a file. When no token is configured
yet and stdin is a terminal, glc prompts for it without echo.

Example:
  glc config set -u https://gitlab.example.com -t glpat-xxxx
  glc config set -t - < token.txt
  glc config set --token-env CI_JOB_TOKEN
  glc config set --default-output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.url, "url", "u", "", "GitLab instance URL, e.g. https://gitlab.example.com")
	cmd.Flags().StringVarP(&opts.token, "token", "t", "", "Personal access token ('-' for stdin, '@path' for a file)")
	cmd.Flags().StringVar(&opts.tokenEnv, "token-env", "", "Read the token from this environment variable at run time")
	cmd.Flags().StringVar(&opts.tokenStore, "token-store", tokenStoreKeyring, "Where to keep --token: keyring|file")
	cmd.Flags().StringVar(&opts.defaultOutput, "default-output", "", "Default output format: text|table|json|ndjson|jsonl|yaml")
	cmd.Flags().StringVar(&opts.defaultColor, "default-color", "", "Default color mode: auto|always|never")
	return cmd
}

func runConfigSet(ctx context.Context, cmd *cobra.Command, opts configSetOptions) error {
	out := stdoutFromContext(ctx)

	if err := validate.OneOf("token-store", opts.tokenStore, tokenStoreKeyring, tokenStoreFile); err != nil {
		return err
	}
	tokenSet := cmd.Flags().Changed("token")
	if tokenSet && opts.tokenEnv != "" {
		return errOnlyOne("--token", "--token-env")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var changed []string

	if cmd.Flags().Changed("url") {
		if err := validate.URL("url", opts.url); err != nil {
			return err
		}
		cfg.URL = strings.TrimRight(strings.TrimSpace(opts.url), "/")
		changed = append(changed, "url = "+cfg.URL)
	}

	if opts.defaultOutput != "" {
		format, err := output.ParseFormat(opts.defaultOutput)
		if err != nil {
			return errors.WrapUserError(err, fmt.Sprintf("invalid output format %q", opts.defaultOutput), "Use one of: text, table, json, ndjson, jsonl, yaml")
		}
		cfg.Output = string(format)
		changed = append(changed, "output = "+cfg.Output)
	}

	if opts.defaultColor != "" {
		if _, err := ui.ParseColorMode(opts.defaultColor); err != nil {
			return errors.WrapUserError(err, "invalid color mode", "Use one of: auto, always, never")
		}
		cfg.Color = strings.ToLower(strings.TrimSpace(opts.defaultColor))
		changed = append(changed, "color = "+cfg.Color)
	}

	token := ""
	switch {
	case opts.tokenEnv != "":
		cfg.TokenSource = config.EnvTokenSource(strings.TrimSpace(opts.tokenEnv))
		changed = append(changed, "token_source = "+cfg.TokenSource)
	case tokenSet:
		token, err = cmdutil.ResolveValue(opts.token, stdinFromContext(ctx))
		if err != nil {
			return err
		}
		if err := validate.NonEmpty("token", token); err != nil {
			return err
		}
	case needsTokenPrompt(ctx, cfg):
		_, _ = fmt.Fprint(stderrFromContext(ctx), "GitLab access token: ")
		token, err = readSecret(stdinFromContext(ctx))
		_, _ = fmt.Fprintln(stderrFromContext(ctx))
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		if err := validate.NonEmpty("token", token); err != nil {
			return err
		}
	}

	if token != "" {
		if opts.tokenStore == tokenStoreKeyring {
			if err := auth.StoreTokenForURL(token, cfg.ResolveURL()); err != nil {
				return errors.WrapUserError(err, "failed to store token in keyring", "Use --token-store file to keep the token in the config file")
			}
			cfg.TokenSource = config.TokenSourceKeyring
		} else {
			cfg.TokenSource = token
		}
		changed = append(changed, "token_source = "+cfg.RedactedTokenSource())
	}

	if len(changed) == 0 {
		return errors.NewUserError("nothing to set", "Pass --url, --token, --token-env, --default-output or --default-color")
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	path, _ := config.DefaultConfigPath()
	for _, c := range changed {
		_, _ = fmt.Fprintf(out, "Set %s in %s\n", c, path)
	}
	return nil
}

// needsTokenPrompt reports whether config set should ask for a token: only
// on a terminal, and only while no token can be resolved.
func needsTokenPrompt(ctx context.Context, cfg *config.Config) bool {
	if !stdinIsTerminal(stdinFromContext(ctx)) {
		return false
	}
	_, err := auth.ResolveToken(cfg)
	return err != nil
}

type configView struct {
	Path           string `json:"path" yaml:"path"`
	URL            string `json:"url" yaml:"url"`
	TokenSource    string `json:"token_source" yaml:"token_source"`
	TokenAvailable bool   `json:"token_available" yaml:"token_available"`
	TokenCreated   string `json:"token_created,omitempty" yaml:"token_created,omitempty"`
	Output         string `json:"output,omitempty" yaml:"output,omitempty"`
	Color          string `json:"color,omitempty" yaml:"color,omitempty"`
}

func newConfigDisplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "display",
		Aliases: []string{"d", "show"},
		Short:   "Display the current configuration",
		Long: `Display the configuration in effect. The URL includes GITLAB_URL
and the default; literal tokens are redacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			path, _ := config.DefaultConfigPath()
			source := cfg.RedactedTokenSource()
			if source == "" {
				source = config.TokenSourceKeyring
			}
			_, tokenErr := auth.ResolveToken(cfg)

			return printerForContext(ctx).Print(ctx, configView{
				Path:           path,
				URL:            cfg.ResolveURL(),
				TokenSource:    source,
				TokenAvailable: tokenErr == nil,
				TokenCreated:   keyringTokenAge(cfg),
				Output:         cfg.Output,
				Color:          cfg.Color,
			})
		},
	}
}

// keyringTokenAge describes when the keyring token was stored, or returns ""
// when the token in use does not come from the keyring.
func keyringTokenAge(cfg *config.Config) string {
	if os.Getenv(auth.EnvVarName) != "" {
		return ""
	}
	if kind, _ := config.ParseTokenSource(cfg.TokenSource); kind != config.SourceNone && kind != config.SourceKeyring {
		return ""
	}
	metadata, err := auth.GetTokenMetadata()
	if err != nil || metadata == nil {
		return ""
	}
	return auth.FormatTokenAge(metadata.CreatedAt)
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Long:  `Display the path to the configuration file`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := stdoutFromContext(cmd.Context())
			path, err := config.DefaultConfigPath()
			if err != nil {
				return fmt.Errorf("failed to determine config path: %w", err)
			}

			_, _ = fmt.Fprintln(out, path)

			if _, err := os.Stat(path); err == nil {
				_, _ = fmt.Fprintln(out, "(file exists)")
			} else if os.IsNotExist(err) {
				_, _ = fmt.Fprintln(out, "(file does not exist)")
			}

			return nil
		},
	}
}

func newConfigClearTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-token",
		Short: "Remove the stored access token",
		Long: `Remove the token from the system keyring and from the config file.
Tokens read from environment variables are left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := auth.DeleteToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if kind, _ := config.ParseTokenSource(cfg.TokenSource); kind == config.SourceLiteral {
				cfg.TokenSource = ""
				if err := cfg.Save(); err != nil {
					return fmt.Errorf("failed to save config: %w", err)
				}
			}

			if !output.QuietFromContext(ctx) {
				ui.FromContext(ctx).Success("Token removed")
			}
			if os.Getenv(auth.EnvVarName) != "" {
				ui.FromContext(ctx).Warning("%s is still set in the environment", auth.EnvVarName)
			}
			return nil
		},
	}
}
