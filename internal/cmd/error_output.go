package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	ctxerrors "github.com/salmonumbrella/gitlab-cli/internal/errors"
	"github.com/salmonumbrella/gitlab-cli/internal/gitlab"
	"github.com/salmonumbrella/gitlab-cli/internal/output"
)

func validateErrorFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto", "text", "json", "yaml":
		return nil
	default:
		return ctxerrors.NewUserError(
			fmt.Sprintf("invalid --error-format %q", format),
			"Use one of: auto, text, json, yaml",
		)
	}
}

// effectiveErrorFormat resolves "auto" from the output format, so JSON
// consumers also get JSON errors.
func effectiveErrorFormat(ctx context.Context) string {
	format := strings.ToLower(strings.TrimSpace(ErrorFormatFromContext(ctx)))
	if format == "" || format == "auto" {
		switch output.FormatFromContext(ctx) {
		case output.FormatJSON, output.FormatNDJSON:
			return "json"
		case output.FormatYAML:
			return "yaml"
		default:
			return "text"
		}
	}
	return format
}

func printCommandError(ctx context.Context, err error) {
	if err == nil {
		return
	}

	w := stderrFromContext(ctx)
	switch effectiveErrorFormat(ctx) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(buildErrorEnvelope(err))
		return
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		_ = enc.Encode(buildErrorEnvelope(err))
		_ = enc.Close()
		return
	}

	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	if suggestion := ctxerrors.UserSuggestion(err); suggestion != "" {
		_, _ = fmt.Fprintf(w, "Hint: %s\n", suggestion)
	}
}

func buildErrorEnvelope(err error) map[string]interface{} {
	errMap := map[string]interface{}{
		"message":   err.Error(),
		"exit_code": ExitCode(err),
	}

	category := "system"
	if ctxerrors.IsUserError(err) || ctxerrors.IsValidationError(err) || ctxerrors.IsAuthError(err) {
		category = "user"
	}
	errMap["category"] = category

	if suggestion := ctxerrors.UserSuggestion(err); suggestion != "" {
		errMap["suggestion"] = suggestion
	}

	var contextual *ctxerrors.ContextualError
	if errors.As(err, &contextual) {
		errMap["method"] = contextual.Method
		errMap["url"] = contextual.URL
		if contextual.StatusCode > 0 {
			errMap["status"] = contextual.StatusCode
		}
	}

	var apiErr *gitlab.APIError
	if errors.As(err, &apiErr) {
		errMap["type"] = "gitlab_api"
		errMap["status"] = apiErr.StatusCode
		if apiErr.Message != "" {
			errMap["api_message"] = apiErr.Message
		}
		if category == "system" && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			errMap["category"] = "user"
		}
	}

	var authErr *ctxerrors.AuthError
	if errors.As(err, &authErr) {
		errMap["type"] = "auth"
	}

	var validationErr *ctxerrors.ValidationError
	if errors.As(err, &validationErr) {
		errMap["type"] = "validation"
		errMap["field"] = validationErr.Field
	}

	return map[string]interface{}{"error": errMap}
}
