package cmd

import (
	"context"
	"io"
	"os"

	"github.com/salmonumbrella/gitlab-cli/internal/iocontext"
	"github.com/salmonumbrella/gitlab-cli/internal/output"
)

func stdoutFromContext(ctx context.Context) io.Writer {
	return iocontext.StdoutOrDefault(ctx, os.Stdout)
}

func stderrFromContext(ctx context.Context) io.Writer {
	return iocontext.StderrOrDefault(ctx, os.Stderr)
}

func stdinFromContext(ctx context.Context) io.Reader {
	return iocontext.StdinOrDefault(ctx, os.Stdin)
}

func printerForContext(ctx context.Context) *output.Printer {
	return output.NewPrinter(stdoutFromContext(ctx), output.FormatFromContext(ctx))
}

// withAppIO attaches the app's streams unless the context already has them,
// as happens when a command fails before the root pre-run.
func withAppIO(ctx context.Context, app *App) context.Context {
	if iocontext.Stderr(ctx) == nil {
		ctx = iocontext.WithIO(ctx, app.Stdout, app.Stderr)
	}
	if app.Stdin != nil && iocontext.Stdin(ctx) == nil {
		ctx = iocontext.WithStdin(ctx, app.Stdin)
	}
	return ctx
}
