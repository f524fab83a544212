package cmdutil

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeProjectID turns the forms a user may paste into a project
// identifier the API accepts: a numeric ID and "group/project" pass through,
// while web URLs ("https://host/group/project/-/tree/main") and clone URLs
// ("git@host:group/project.git") are reduced to their namespace path.
func NormalizeProjectID(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("project ID is required")
	}

	var path string
	switch {
	case looksLikeURL(trimmed):
		u, err := url.Parse(trimmed)
		if err != nil {
			return "", fmt.Errorf("invalid project URL %q: %w", input, err)
		}
		path = u.Path
	case looksLikeSCP(trimmed):
		_, path, _ = strings.Cut(trimmed, ":")
	default:
		return strings.Trim(trimmed, "/"), nil
	}

	if before, _, found := strings.Cut(path, "/-/"); found {
		path = before
	}
	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	if path == "" || !strings.Contains(path, "/") {
		return "", fmt.Errorf("no project path in %q", input)
	}
	return path, nil
}

func looksLikeURL(value string) bool {
	lower := strings.ToLower(value)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "ssh://")
}

// looksLikeSCP matches the scp-like clone syntax user@host:path.
func looksLikeSCP(value string) bool {
	at := strings.Index(value, "@")
	colon := strings.Index(value, ":")
	return at > 0 && colon > at
}
