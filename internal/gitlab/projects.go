package gitlab

import (
	"context"
	"net/url"
)

// Project represents a GitLab project.
// See: https://docs.gitlab.com/ee/api/projects.html
type Project struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	PathWithNamespace string `json:"path_with_namespace,omitempty"`
	DefaultBranch     string `json:"default_branch,omitempty"`
	WebURL            string `json:"web_url,omitempty"`
}

// ListProjectsOptions contains options for listing projects.
type ListProjectsOptions struct {
	// Search matches project names.
	Search string
	// Membership limits results to projects the user is a member of.
	Membership bool
}

// ListProjects lists projects visible to the authenticated user.
// Only the first page of results is returned.
// See: https://docs.gitlab.com/ee/api/projects.html#list-all-projects
func (c *Client) ListProjects(ctx context.Context, opts *ListProjectsOptions) ([]Project, error) {
	query := url.Values{}
	if opts != nil {
		if opts.Search != "" {
			query.Set("search", opts.Search)
		}
		if opts.Membership {
			query.Set("membership", "true")
		}
	}

	var projects []Project
	if err := c.doGet(ctx, "/projects", query, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject retrieves a project by numeric ID or namespace/path.
// See: https://docs.gitlab.com/ee/api/projects.html#get-single-project
func (c *Client) GetProject(ctx context.Context, project string) (*Project, error) {
	path, err := projectPath(project)
	if err != nil {
		return nil, err
	}

	var p Project
	if err := c.doGet(ctx, path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
