package gitlab

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Branch represents a repository branch.
// See: https://docs.gitlab.com/ee/api/branches.html
type Branch struct {
	Name               string `json:"name"`
	Merged             bool   `json:"merged"`
	Protected          bool   `json:"protected"`
	Default            bool   `json:"default"`
	DevelopersCanPush  bool   `json:"developers_can_push"`
	DevelopersCanMerge bool   `json:"developers_can_merge"`
	WebURL             string `json:"web_url,omitempty"`
}

// ListBranches lists the branches of a project whose names match search.
// An empty search lists all branches on the first page.
func (c *Client) ListBranches(ctx context.Context, project, search string) ([]Branch, error) {
	path, err := projectPath(project)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}

	var branches []Branch
	if err := c.doGet(ctx, path+"/repository/branches", query, &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

// CreateBranch creates branch name from ref, which may be a branch name or
// commit SHA.
// See: https://docs.gitlab.com/ee/api/branches.html#create-repository-branch
func (c *Client) CreateBranch(ctx context.Context, project, name, ref string) (*Branch, error) {
	path, err := projectPath(project)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("branch name is required")
	}
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("base branch is required")
	}

	query := url.Values{}
	query.Set("branch", name)
	query.Set("ref", ref)

	var branch Branch
	if err := c.doPost(ctx, path+"/repository/branches", query, nil, &branch); err != nil {
		return nil, err
	}
	return &branch, nil
}
