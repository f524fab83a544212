package gitlab

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// MergeRequest represents a project merge request.
// See: https://docs.gitlab.com/ee/api/merge_requests.html
type MergeRequest struct {
	ID           int    `json:"id"`
	IID          int    `json:"iid"`
	Title        string `json:"title"`
	State        string `json:"state"`
	SourceBranch string `json:"source_branch"`
	TargetBranch string `json:"target_branch"`
	Author       *User  `json:"author,omitempty"`
	WebURL       string `json:"web_url,omitempty"`
}

// User is the subset of a GitLab user embedded in other resources.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

// Merge request states accepted by ListMergeRequests.
const (
	StateOpened = "opened"
	StateClosed = "closed"
	StateMerged = "merged"
	StateLocked = "locked"
	StateAll    = "all"
)

// ValidMergeRequestState reports whether state is accepted by the API.
func ValidMergeRequestState(state string) bool {
	switch state {
	case StateOpened, StateClosed, StateMerged, StateLocked, StateAll:
		return true
	}
	return false
}

// ListMergeRequests lists merge requests of a project in the given state.
// An empty state lists opened merge requests.
func (c *Client) ListMergeRequests(ctx context.Context, project, state string) ([]MergeRequest, error) {
	path, err := projectPath(project)
	if err != nil {
		return nil, err
	}
	if state == "" {
		state = StateOpened
	}
	if !ValidMergeRequestState(state) {
		return nil, fmt.Errorf("invalid merge request state %q", state)
	}

	query := url.Values{}
	if state != StateAll {
		query.Set("state", state)
	}

	var mrs []MergeRequest
	if err := c.doGet(ctx, path+"/merge_requests", query, &mrs); err != nil {
		return nil, err
	}
	return mrs, nil
}

// GetMergeRequest retrieves a merge request by its project-scoped IID.
func (c *Client) GetMergeRequest(ctx context.Context, project string, iid int) (*MergeRequest, error) {
	path, err := projectPath(project)
	if err != nil {
		return nil, err
	}
	if iid <= 0 {
		return nil, fmt.Errorf("merge request IID must be positive, got %d", iid)
	}

	var mr MergeRequest
	if err := c.doGet(ctx, path+"/merge_requests/"+strconv.Itoa(iid), nil, &mr); err != nil {
		return nil, err
	}
	return &mr, nil
}
