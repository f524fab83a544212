package cmd

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/salmonumbrella/gitlab-cli/internal/config"
	"github.com/salmonumbrella/gitlab-cli/internal/logging"
	"github.com/salmonumbrella/gitlab-cli/internal/ui"
)

//go:embed help.txt
var rootHelpText string

func newRootCmd(app *App) *cobra.Command {
	var flags globalFlagInput

	rootCmd := &cobra.Command{
		Use:   "glc",
		Short: "CLI for the GitLab API",
		Long:  `A command-line interface for GitLab projects, branches and merge requests`,
		// Errors are printed once by App.Execute.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupFromEnv(flags.debug, app.Stderr)

			// Config commands load the file themselves so a broken file can be fixed.
			cfg := &config.Config{}
			if !isConfigCommand(cmd) {
				loaded, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				cfg = loaded
			}

			opts, err := parseGlobalOptions(cmd, cfg, app, flags)
			if err != nil {
				return err
			}
			if err := validateGlobalOptions(opts); err != nil {
				return err
			}

			ctx := buildRootContext(cmd.Context(), app, cfg, opts)
			if opts.queryNormalized && !opts.quiet {
				ui.FromContext(ctx).Warning("Normalized --query by removing \\! (shell escape); use ! without backslash.")
			}
			cmd.SetContext(ctx)
			// App.Execute reads the root context to format errors.
			cmd.Root().SetContext(ctx)

			if !isConfigCommand(cmd) && cmd.Name() != "version" && cmd.Name() != "completion" {
				checkTokenAgeAndWarn(ctx, cfg, opts.quiet)
			}
			return nil
		},
	}

	rootCmd.SetOut(app.Stdout)
	rootCmd.SetErr(app.Stderr)
	rootCmd.SetIn(app.Stdin)

	rootCmd.Version = app.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("glc %s (commit: %s, built: %s)\n", app.Version, app.Commit, app.BuildTime))

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.output, "output", "o", "text", "Output format: text|table|json|ndjson|jsonl|yaml")
	pf.StringVarP(&flags.query, "query", "q", "", "JQ expression to filter output")
	pf.StringVar(&flags.queryFile, "query-file", "", "Read JQ expression from file ('-' for stdin)")
	pf.StringVar(&flags.jsonPath, "jsonpath", "", "Extract a value using JSONPath (e.g. $[0].web_url)")
	pf.BoolVar(&flags.debug, "debug", false, "Enable debug output (shows HTTP requests/responses)")
	pf.StringVar(&flags.errorFormat, "error-format", "auto", "Error output format (auto|text|json|yaml)")
	pf.StringVar(&flags.color, "color", "", "Color mode for status messages (auto|always|never)")
	pf.BoolVar(&flags.quiet, "quiet", false, "Suppress non-essential output")
	pf.BoolVar(&flags.failEmpty, "fail-empty", false, "Exit with error when a list is empty")

	flagAlias(pf, "output", "format")
	flagAlias(pf, "query", "jq")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newProjectCmd())
	rootCmd.AddCommand(newBranchCmd())
	rootCmd.AddCommand(newMergeRequestCmd())
	rootCmd.AddCommand(newVersionCmd(app))
	rootCmd.AddCommand(newCompletionCmd())

	installRootHelp(rootCmd)

	return rootCmd
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" {
			return true
		}
	}
	return false
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func isTerminalReader(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func installRootHelp(root *cobra.Command) {
	defaultHelp := root.HelpFunc()

	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != root {
			defaultHelp(cmd, args)
			return
		}

		_, _ = fmt.Fprint(cmd.OutOrStdout(), rootHelpText)
	})
}
