// Package update tells interactive users when a newer glc release exists.
// Results are cached on disk so the release feed is queried at most once per
// interval.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// DisableEnvVar turns the check off when set to any value.
	DisableEnvVar = "GITLAB_NO_UPDATE_CHECK"
	// CheckInterval is the minimum time between release feed queries.
	CheckInterval = 24 * time.Hour
	// ReleasesURL returns the latest published glc release.
	ReleasesURL = "https://api.github.com/repos/salmonumbrella/gitlab-cli/releases/latest"

	stateFile    = "release-check.json"
	fetchTimeout = 3 * time.Second
)

type state struct {
	CheckedAt time.Time `json:"checked_at"`
	Latest    string    `json:"latest"`
}

// HTTPDoer abstracts an HTTP client for testability.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Checker compares the running version with the newest release.
type Checker struct {
	client      HTTPDoer
	statePath   string
	interval    time.Duration
	now         func() time.Time
	releasesURL string
	logger      *slog.Logger
	writeFile   func(string, []byte, os.FileMode) error
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Checker) {
		if client != nil {
			c.client = client
		}
	}
}

// WithStatePath overrides where the last result is cached.
func WithStatePath(path string) Option {
	return func(c *Checker) { c.statePath = path }
}

// WithNow overrides the clock.
func WithNow(fn func() time.Time) Option {
	return func(c *Checker) {
		if fn != nil {
			c.now = fn
		}
	}
}

// WithInterval overrides the check interval.
func WithInterval(interval time.Duration) Option {
	return func(c *Checker) {
		if interval > 0 {
			c.interval = interval
		}
	}
}

// WithReleasesURL points the checker at another release endpoint.
func WithReleasesURL(u string) Option {
	return func(c *Checker) {
		if strings.TrimSpace(u) != "" {
			c.releasesURL = u
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChecker creates a Checker with defaults and applies options.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		client:      http.DefaultClient,
		interval:    CheckInterval,
		now:         time.Now,
		releasesURL: ReleasesURL,
		logger:      slog.Default(),
		writeFile:   os.WriteFile,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UpdateError wraps update-check failures with the step that failed.
type UpdateError struct {
	Op  string
	Err error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("update check %s: %v", e.Op, e.Err)
}

func (e *UpdateError) Unwrap() error {
	return e.Err
}

// Check returns a notice when a release newer than current exists, or "".
func (c *Checker) Check(ctx context.Context, current string) (string, error) {
	if !isRelease(current) {
		return "", nil
	}

	path, err := c.resolveStatePath()
	if err != nil {
		return "", &UpdateError{Op: "state path", Err: err}
	}

	st := c.loadState(path)
	if st.Latest != "" && c.now().Sub(st.CheckedAt) < c.interval {
		return notice(current, st.Latest), nil
	}

	latest, err := c.fetchLatest(ctx)
	if err != nil {
		return "", &UpdateError{Op: "fetch latest release", Err: err}
	}

	msg := notice(current, latest)
	if err := c.saveState(path, state{CheckedAt: c.now(), Latest: latest}); err != nil {
		return msg, &UpdateError{Op: "save state", Err: err}
	}
	return msg, nil
}

// Check runs a default check and logs failures at debug level.
func Check(ctx context.Context, current string) string {
	if os.Getenv(DisableEnvVar) != "" {
		return ""
	}
	checker := NewChecker()
	msg, err := checker.Check(ctx, current)
	if err != nil {
		checker.logger.Debug("update check failed", "error", err)
	}
	return msg
}

func (c *Checker) resolveStatePath() (string, error) {
	if strings.TrimSpace(c.statePath) != "" {
		return c.statePath, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gitlab-cli", stateFile), nil
}

// loadState treats a missing or corrupt file as "never checked".
func (c *Checker) loadState(path string) state {
	var st state
	data, err := os.ReadFile(path)
	if err != nil {
		return st
	}
	if err := json.Unmarshal(data, &st); err != nil {
		c.logger.Debug("ignoring corrupt update state", "path", path, "error", err)
		return state{}
	}
	return st
}

func (c *Checker) saveState(path string, st state) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return c.writeFile(path, data, 0o600)
}

func (c *Checker) fetchLatest(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.releasesURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	if release.TagName == "" {
		return "", fmt.Errorf("release has no tag")
	}
	return strings.TrimPrefix(release.TagName, "v"), nil
}

func notice(current, latest string) string {
	if !isNewer(current, latest) {
		return ""
	}
	return fmt.Sprintf("glc %s is available (you have %s)\nRun: go install github.com/salmonumbrella/gitlab-cli/cmd/glc@latest", latest, current)
}

// isRelease reports whether v came from a tagged build.
func isRelease(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "dev", "unknown":
		return false
	}
	return true
}

// isNewer compares dotted numeric versions. A pre-release suffix such as
// "-rc1" is ignored, so 1.2.0-rc1 and 1.2.0 compare equal.
func isNewer(current, latest string) bool {
	cur := versionParts(current)
	lat := versionParts(latest)
	for i := 0; i < len(cur) || i < len(lat); i++ {
		var c, l int
		if i < len(cur) {
			c = cur[i]
		}
		if i < len(lat) {
			l = lat[i]
		}
		if l != c {
			return l > c
		}
	}
	return false
}

func versionParts(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	var parts []int
	for _, p := range strings.Split(v, ".") {
		n, _ := strconv.Atoi(p)
		parts = append(parts, n)
	}
	return parts
}
