package debug

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	maxRequestBody  = 500
	maxResponseBody = 1000
)

type contextKey struct{}

// WithDebug injects the debug flag into the context
func WithDebug(ctx context.Context, debug bool) context.Context {
	return context.WithValue(ctx, contextKey{}, debug)
}

// IsDebug returns true if debug mode is enabled in the context
func IsDebug(ctx context.Context) bool {
	if v, ok := ctx.Value(contextKey{}).(bool); ok {
		return v
	}
	return false
}

// DebugTransport wraps http.RoundTripper to log requests/responses when debug mode is enabled
type DebugTransport struct {
	Transport http.RoundTripper
	Output    io.Writer
}

// NewDebugTransport creates a new DebugTransport with the given base transport
// If output is nil, it defaults to os.Stderr
func NewDebugTransport(base http.RoundTripper, output io.Writer) *DebugTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if output == nil {
		output = os.Stderr
	}
	return &DebugTransport{
		Transport: base,
		Output:    output,
	}
}

// RedactToken keeps only the last four characters of a credential.
func RedactToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return "..." + token[len(token)-4:]
}

func isCredentialHeader(key string) bool {
	switch http.CanonicalHeaderKey(key) {
	case "Private-Token", "Authorization", "Job-Token":
		return true
	}
	return false
}

// RoundTrip implements http.RoundTripper
func (t *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	_, _ = fmt.Fprintf(t.Output, "\n--> %s %s\n", req.Method, req.URL)
	t.writeHeaders(req.Header, true)

	if req.Body != nil {
		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			_, _ = fmt.Fprintf(t.Output, "    [ERROR reading request body: %v]\n", err)
		} else {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			t.writeBody(bodyBytes, maxRequestBody)
		}
	}

	resp, err := t.Transport.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		_, _ = fmt.Fprintf(t.Output, "<-- ERROR: %v (%s)\n\n", err, duration)
		return resp, err
	}

	_, _ = fmt.Fprintf(t.Output, "<-- %s (%s)\n", resp.Status, duration)

	if rl := resp.Header.Get("RateLimit-Remaining"); rl != "" {
		limit := resp.Header.Get("RateLimit-Limit")
		resetStr := ""
		if reset := resp.Header.Get("RateLimit-Reset"); reset != "" {
			if ts, err := strconv.ParseInt(reset, 10, 64); err == nil {
				if remaining := time.Until(time.Unix(ts, 0)); remaining > 0 {
					resetStr = fmt.Sprintf(" (resets in %ds)", int(remaining.Seconds()))
				}
			}
		}
		_, _ = fmt.Fprintf(t.Output, "    Rate-Limit: %s/%s remaining%s\n", rl, limit, resetStr)
	}

	t.writeHeaders(resp.Header, false)

	if resp.Body != nil {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			_, _ = fmt.Fprintf(t.Output, "    [ERROR reading response body: %v]\n\n", err)
		} else {
			resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			t.writeBody(bodyBytes, maxResponseBody)
		}
	}

	_, _ = fmt.Fprintln(t.Output)

	return resp, nil
}

// writeHeaders prints headers in a stable order, redacting credentials.
func (t *DebugTransport) writeHeaders(h http.Header, redact bool) {
	keys := make([]string, 0, len(h))
	for key := range h {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := strings.Join(h[key], ", ")
		if redact && isCredentialHeader(key) {
			val = RedactToken(strings.TrimPrefix(val, "Bearer "))
		}
		_, _ = fmt.Fprintf(t.Output, "    %s: %s\n", key, val)
	}
}

func (t *DebugTransport) writeBody(body []byte, limit int) {
	if len(body) == 0 {
		return
	}
	s := string(body)
	if len(s) > limit {
		s = s[:limit] + "... [truncated]"
	}
	_, _ = fmt.Fprintf(t.Output, "    Body: %s\n", s)
}
