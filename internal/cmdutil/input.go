// Package cmdutil holds input helpers shared by glc commands.
package cmdutil

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ResolveValue returns raw, or the contents of a file when raw is "@path",
// or stdin when raw is "-". Surrounding whitespace is trimmed from file and
// stdin contents.
func ResolveValue(raw string, stdin io.Reader) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "-" {
		return ReadInputSource("-", stdin)
	}
	if strings.HasPrefix(trimmed, "@") {
		return ReadInputSource(trimmed[1:], stdin)
	}
	return raw, nil
}

// ReadInputSource reads input from a file path, or from stdin when path is
// "-". A nil stdin reads os.Stdin.
func ReadInputSource(path string, stdin io.Reader) (string, error) {
	if path == "" {
		return "", fmt.Errorf("input file path is required")
	}
	if path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %q: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}
