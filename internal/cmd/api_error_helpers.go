package cmd

import (
	"fmt"

	clierrors "github.com/salmonumbrella/gitlab-cli/internal/errors"
)

// wrapAPIError maps GitLab API errors to user-friendly types. If the error
// indicates a 404 and entityType is set, it returns a not-found UserError for
// the entity. Otherwise it wraps the error with "failed to <action>: ..." context.
func wrapAPIError(err error, action, entityType, identifier string) error {
	if err == nil {
		return nil
	}
	if entityType != "" {
		if mapped := clierrors.APINotFoundError(err, entityType, identifier); mapped != err {
			return mapped
		}
	}
	if action == "" {
		return err
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
