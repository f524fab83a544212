package gitlab

import "context"

// Version is the GitLab instance version.
type Version struct {
	Version  string `json:"version"`
	Revision string `json:"revision"`
}

// GetVersion returns the version of the GitLab instance.
// See: https://docs.gitlab.com/ee/api/version.html
func (c *Client) GetVersion(ctx context.Context) (*Version, error) {
	var v Version
	if err := c.doGet(ctx, "/version", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
