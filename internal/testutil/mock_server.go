// Package testutil provides testing utilities for the GitLab CLI.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

// MockServer provides a test HTTP server for API mocking.
// Handlers are keyed on method and escaped path, so a project addressed as
// group/project is registered as "/api/v4/projects/group%2Fproject".
type MockServer struct {
	server   *httptest.Server
	handlers map[string]http.HandlerFunc
	requests []*http.Request
	mu       sync.RWMutex
}

// NewMockServer creates a new mock server.
func NewMockServer() *MockServer {
	ms := &MockServer{
		handlers: make(map[string]http.HandlerFunc),
	}

	ms.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.EscapedPath()

		ms.mu.Lock()
		ms.requests = append(ms.requests, r.Clone(r.Context()))
		handler, ok := ms.handlers[key]
		ms.mu.Unlock()

		if ok {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "404 Not Found"})
	}))

	return ms
}

// URL returns the server's base URL.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Close shuts down the server.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// Handle registers a custom handler for a method+path.
func (ms *MockServer) Handle(method, path string, handler http.HandlerFunc) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.handlers[method+" "+path] = handler
}

// HandleJSON registers a handler that returns JSON with the given status.
func (ms *MockServer) HandleJSON(method, path string, status int, response interface{}) {
	ms.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(response)
	})
}

// HandleError registers a handler that returns a GitLab API error body.
func (ms *MockServer) HandleError(method, path string, status int, message string) {
	ms.HandleJSON(method, path, status, map[string]interface{}{
		"message": message,
	})
}

// HandleRateLimit registers a 429 response with GitLab's rate limit headers.
func (ms *MockServer) HandleRateLimit(method, path string, limit int) {
	ms.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("RateLimit-Limit", strconv.Itoa(limit))
		w.Header().Set("RateLimit-Remaining", "0")
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "Retry later",
		})
	})
}

// Requests returns the requests received so far, in arrival order.
func (ms *MockServer) Requests() []*http.Request {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	out := make([]*http.Request, len(ms.requests))
	copy(out, ms.requests)
	return out
}

// Reset clears all registered handlers and recorded requests.
func (ms *MockServer) Reset() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.handlers = make(map[string]http.HandlerFunc)
	ms.requests = nil
}
