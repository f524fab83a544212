package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/gitlab-cli/internal/cmdutil"
	"github.com/salmonumbrella/gitlab-cli/internal/config"
	"github.com/salmonumbrella/gitlab-cli/internal/debug"
	"github.com/salmonumbrella/gitlab-cli/internal/errors"
	"github.com/salmonumbrella/gitlab-cli/internal/iocontext"
	"github.com/salmonumbrella/gitlab-cli/internal/output"
	"github.com/salmonumbrella/gitlab-cli/internal/ui"
)

// OutputEnvVar sets the default output format when --output is not given.
const OutputEnvVar = "GITLAB_OUTPUT"

type globalFlagInput struct {
	output      string
	query       string
	queryFile   string
	jsonPath    string
	debug       bool
	errorFormat string
	color       string
	quiet       bool
	failEmpty   bool
}

type globalOptions struct {
	format          output.Format
	query           string
	queryNormalized bool
	jsonPath        string
	debug           bool
	errorFormat     string
	color           ui.ColorMode
	quiet           bool
	failEmpty       bool
}

// parseGlobalOptions resolves the persistent flags against the environment
// and the config file. Output format precedence: --output, GITLAB_OUTPUT,
// config output, JSON when stdout is not a terminal, text.
func parseGlobalOptions(cmd *cobra.Command, cfg *config.Config, app *App, flags globalFlagInput) (globalOptions, error) {
	opts := globalOptions{
		debug:       flags.debug,
		errorFormat: flags.errorFormat,
		quiet:       flags.quiet,
		failEmpty:   flags.failEmpty,
		jsonPath:    strings.TrimSpace(flags.jsonPath),
	}

	formatStr := flags.output
	outputSet := commandFlagChanged(cmd, "output") || commandFlagChanged(cmd, "format")
	switch {
	case outputSet:
	case strings.TrimSpace(os.Getenv(OutputEnvVar)) != "":
		formatStr = os.Getenv(OutputEnvVar)
	case cfg.GetOutput() != "":
		formatStr = cfg.GetOutput()
	case !isTerminal(app.Stdout):
		formatStr = string(output.FormatJSON)
	}

	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return globalOptions{}, errors.WrapUserError(err, fmt.Sprintf("invalid output format %q", formatStr), "Use one of: text, table, json, ndjson, jsonl, yaml")
	}
	opts.format = format

	// Structured output piped elsewhere is for machines; keep stderr clean.
	if !commandFlagChanged(cmd, "quiet") && !isTerminal(app.Stdout) {
		switch opts.format {
		case output.FormatJSON, output.FormatNDJSON, output.FormatYAML:
			opts.quiet = true
		}
	}

	colorStr := flags.color
	if !commandFlagChanged(cmd, "color") {
		colorStr = cfg.GetColor()
	}
	opts.color, err = ui.ParseColorMode(colorStr)
	if err != nil {
		return globalOptions{}, errors.WrapUserError(err, "invalid color mode", "Use one of: auto, always, never")
	}

	opts.query = flags.query
	if strings.TrimSpace(flags.queryFile) != "" {
		if strings.TrimSpace(flags.query) != "" {
			return globalOptions{}, errOnlyOne("--query", "--query-file")
		}
		loaded, err := cmdutil.ReadInputSource(flags.queryFile, app.Stdin)
		if err != nil {
			return globalOptions{}, err
		}
		opts.query = loaded
	}
	opts.query, opts.queryNormalized = output.NormalizeQuery(opts.query)

	return opts, nil
}

func validateGlobalOptions(opts globalOptions) error {
	if strings.TrimSpace(opts.query) != "" && opts.jsonPath != "" {
		return errOnlyOne("--query", "--jsonpath")
	}
	return validateErrorFormat(opts.errorFormat)
}

func buildRootContext(ctx context.Context, app *App, cfg *config.Config, opts globalOptions) context.Context {
	ctx = iocontext.WithIO(ctx, app.Stdout, app.Stderr)
	if app.Stdin != nil {
		ctx = iocontext.WithStdin(ctx, app.Stdin)
	}
	ctx = output.WithFormat(ctx, opts.format)
	ctx = output.WithQuery(ctx, opts.query)
	ctx = output.WithJSONPath(ctx, opts.jsonPath)
	ctx = output.WithQuiet(ctx, opts.quiet)
	ctx = output.WithFailEmpty(ctx, opts.failEmpty)
	ctx = debug.WithDebug(ctx, opts.debug)
	ctx = WithConfig(ctx, cfg)
	ctx = WithErrorFormat(ctx, opts.errorFormat)
	ctx = ui.WithUI(ctx, ui.NewWithWriter(opts.color, app.Stderr))
	return ctx
}

func errOnlyOne(left, right string) error {
	return errors.NewUserError(fmt.Sprintf("use only one of %s or %s", left, right), "")
}

func commandFlagChanged(cmd *cobra.Command, name string) bool {
	for current := cmd; current != nil; current = current.Parent() {
		if flag := current.Flags().Lookup(name); flag != nil && flag.Changed {
			return true
		}
		if flag := current.PersistentFlags().Lookup(name); flag != nil && flag.Changed {
			return true
		}
	}
	return false
}
