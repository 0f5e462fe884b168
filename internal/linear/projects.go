package linear

import "context"

// Projects lists projects, optionally scoped to the teams a key can access.
func (c *Client) Projects(ctx context.Context, teamKey string) ([]Project, error) {
	query := `query($filter: ProjectFilter) {
  projects(filter: $filter) {
    nodes { id name state }
  }
}`
	vars := map[string]any{}
	if teamKey != "" {
		vars["filter"] = map[string]any{
			"accessibleTeams": map[string]any{"key": map[string]any{"eq": teamKey}},
		}
	}
	var resp struct {
		Projects struct {
			Nodes []Project `json:"nodes"`
		} `json:"projects"`
	}
	if err := c.do(ctx, query, vars, &resp); err != nil {
		return nil, err
	}
	return resp.Projects.Nodes, nil
}

// ResolveProjectID matches a project by exact name, or passes an opaque id
// through untouched.
func (c *Client) ResolveProjectID(ctx context.Context, value string) (string, error) {
	if isOpaqueID(value) {
		return value, nil
	}
	query := `query($name: String!) {
  projects(filter: { name: { eq: $name } }) {
    nodes { id }
  }
}`
	var resp struct {
		Projects struct {
			Nodes []struct {
				ID string `json:"id"`
			} `json:"nodes"`
		} `json:"projects"`
	}
	if err := c.do(ctx, query, map[string]any{"name": value}, &resp); err != nil {
		return "", err
	}
	if len(resp.Projects.Nodes) == 0 {
		return "", notFound("project", value)
	}
	return resp.Projects.Nodes[0].ID, nil
}
