package gitlab

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// APIError is a non-2xx response from the GitLab API.
type APIError struct {
	StatusCode int
	// Message is the flattened "message" or "error" field of the body.
	Message string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gitlab API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gitlab API error %d", e.StatusCode)
}

// errorResponse covers the body shapes GitLab uses for errors:
//
//	{"message": "404 Project Not Found"}
//	{"message": {"name": ["has already been taken"]}}
//	{"error": "invalid_token", "error_description": "Token was revoked"}
type errorResponse struct {
	Message          json.RawMessage `json:"message"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

func parseAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var body errorResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return apiErr
	}

	switch {
	case len(body.Message) > 0:
		apiErr.Message = flattenMessage(body.Message)
	case body.ErrorDescription != "":
		apiErr.Message = body.Error + ": " + body.ErrorDescription
	default:
		apiErr.Message = body.Error
	}
	return apiErr
}

// flattenMessage turns GitLab's message field into one line. Validation
// errors arrive as an object of field name to list of problems.
func flattenMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var fields map[string][]string
	if err := json.Unmarshal(raw, &fields); err == nil {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+" "+strings.Join(fields[k], ", "))
		}
		return strings.Join(parts, "; ")
	}

	return strings.TrimSpace(string(raw))
}
