// Package validate checks command-line input before it is sent to GitLab.
package validate

import (
	"fmt"
	"net/url"
	"strings"

	clierrors "github.com/salmonumbrella/gitlab-cli/internal/errors"
)

func invalid(field, format string, args ...interface{}) error {
	return &clierrors.ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NonEmpty validates that a required string field is not empty.
func NonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "cannot be empty")
	}
	return nil
}

// URL validates that urlStr is an http(s) URL with a host.
func URL(field, urlStr string) error {
	if strings.TrimSpace(urlStr) == "" {
		return invalid(field, "cannot be empty")
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return invalid(field, "must be a valid URL, got error: %v", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return invalid(field, "must start with http:// or https://, got %q", urlStr)
	}

	if parsedURL.Host == "" {
		return invalid(field, "must have a host, got %q", urlStr)
	}

	return nil
}

// PositiveInt validates that n is at least 1.
func PositiveInt(field string, n int) error {
	if n < 1 {
		return invalid(field, "must be a positive number, got %d", n)
	}
	return nil
}

// OneOf validates that value is one of allowed.
func OneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return invalid(field, "must be one of %s, got %q", strings.Join(allowed, ", "), value)
}

// BranchName validates name against the rules of git check-ref-format, so
// obviously bad names fail before the API round trip.
func BranchName(field, name string) error {
	if name == "" {
		return invalid(field, "cannot be empty")
	}
	if name == "@" {
		return invalid(field, "cannot be %q", name)
	}
	if strings.HasPrefix(name, "-") {
		return invalid(field, "cannot start with '-', got %q", name)
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return invalid(field, "cannot start or end with '/', got %q", name)
	}
	if strings.HasSuffix(name, ".") || strings.HasSuffix(name, ".lock") {
		return invalid(field, "cannot end with '.' or '.lock', got %q", name)
	}
	for _, seq := range []string{"..", "//", "@{"} {
		if strings.Contains(name, seq) {
			return invalid(field, "cannot contain %q, got %q", seq, name)
		}
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(" ~^:?*[\\", r) {
			return invalid(field, "cannot contain %q, got %q", r, name)
		}
	}
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return invalid(field, "path components cannot start with '.', got %q", name)
		}
	}
	return nil
}
