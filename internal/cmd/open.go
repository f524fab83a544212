package cmd

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/salmonumbrella/gitlab-cli/internal/errors"
	"github.com/salmonumbrella/gitlab-cli/internal/output"
)

// openBrowser opens url with the platform's default handler. Tests replace it.
var openBrowser = func(url string) error {
	var openCmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		openCmd = exec.Command("open", url)
	case "linux":
		openCmd = exec.Command("xdg-open", url)
	case "windows":
		openCmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return openCmd.Run()
}

// openWebURL opens url in the browser, or prints it when noBrowser is set.
func openWebURL(ctx context.Context, entity, url string, noBrowser bool) error {
	if url == "" {
		return errors.NewUserError(fmt.Sprintf("%s has no web URL", entity), "")
	}
	if noBrowser {
		_, err := fmt.Fprintln(stdoutFromContext(ctx), url)
		return err
	}
	if err := openBrowser(url); err != nil {
		return errors.WrapUserError(err, "failed to open browser", "Use --no-browser to print the URL instead")
	}
	if !output.QuietFromContext(ctx) {
		_, _ = fmt.Fprintf(stderrFromContext(ctx), "Opened %s\n", url)
	}
	return nil
}
