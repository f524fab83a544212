package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents an input validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// UserError represents an error caused by user input or configuration.
// Suggestion can provide a concrete fix for the user.
type UserError struct {
	Message    string
	Suggestion string
	Err        error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a UserError with a message and optional suggestion.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{Message: message, Suggestion: suggestion}
}

// WrapUserError wraps an underlying error with a user-facing message and suggestion.
func WrapUserError(err error, message, suggestion string) *UserError {
	return &UserError{Message: message, Suggestion: suggestion, Err: err}
}

// AuthError represents authentication failures
type AuthError struct {
	Reason     string
	Suggestion string
	Err        error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication error: %s", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// AuthRequiredError wraps an error with authentication required message and suggestion.
func AuthRequiredError(err error) error {
	return &AuthError{
		Reason:     "authentication required",
		Suggestion: "Run 'glc config set --url <url> --token <token>' or set GITLAB_TOKEN",
		Err:        err,
	}
}

// Type checkers
func IsAuthError(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsUserError(err error) bool {
	var e *UserError
	return errors.As(err, &e)
}

// UserSuggestion returns a suggestion string if err is a UserError or AuthError.
func UserSuggestion(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Suggestion
	}
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Suggestion
	}
	return ""
}

// ContextualError wraps an error with HTTP request context for debugging.
type ContextualError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

// WrapContext wraps an error with HTTP request context.
// StatusCode can be 0 if the request never completed.
// Returns nil if err is nil.
func WrapContext(method, url string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &ContextualError{
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

func (e *ContextualError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s (%d): %s", e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Err)
}

func (e *ContextualError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status recorded on a ContextualError in err's
// chain, or 0 if there is none.
func StatusCode(err error) int {
	var ce *ContextualError
	if errors.As(err, &ce) {
		return ce.StatusCode
	}
	return 0
}

// NotFoundError creates a user-friendly error for when a resource is not found.
// entityType is the type of entity (e.g., "project", "branch", "merge request").
// identifier is the ID or name that was looked up.
func NotFoundError(entityType, identifier string) error {
	return NewUserError(
		fmt.Sprintf("%s %q not found", entityType, identifier),
		notFoundSuggestion(entityType),
	)
}

// APINotFoundError wraps an API error with helpful suggestions for "not found" responses.
// Returns the original error if it's not a 404-style error.
func APINotFoundError(err error, entityType, identifier string) error {
	if err == nil {
		return nil
	}
	// The request URL can contain "404", so the message is only consulted
	// when no status was recorded.
	if status := StatusCode(err); status != 404 && (status != 0 || !contains404Indicators(err.Error())) {
		return err
	}
	return WrapUserError(err, fmt.Sprintf("%s %q not found", entityType, identifier), notFoundSuggestion(entityType))
}

func notFoundSuggestion(entityType string) string {
	switch entityType {
	case "project":
		return "Run 'glc project list -s <name>' to find the project ID\n  • Check that your token can read this project"
	case "branch":
		return "Run 'glc branch list -p <project-id>' to see existing branches"
	case "merge request":
		return "Run 'glc mr list -p <project-id> --state all' to see merge request IDs"
	}
	return fmt.Sprintf("Check the %s ID is correct", entityType)
}

// contains404Indicators checks if an error message indicates a "not found" error.
func contains404Indicators(errStr string) bool {
	indicators := []string{
		"404",
		"not found",
	}
	errLower := strings.ToLower(errStr)
	for _, indicator := range indicators {
		if strings.Contains(errLower, indicator) {
			return true
		}
	}
	return false
}
