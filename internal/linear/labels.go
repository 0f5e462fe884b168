package linear

import "context"

// Labels lists issue labels, optionally scoped to a team key.
func (c *Client) Labels(ctx context.Context, teamKey string) ([]Label, error) {
	query := `query($filter: IssueLabelFilter) {
  issueLabels(filter: $filter) {
    nodes { id name color description }
  }
}`
	vars := map[string]any{}
	if teamKey != "" {
		vars["filter"] = map[string]any{
			"team": map[string]any{"key": map[string]any{"eq": teamKey}},
		}
	}
	var resp struct {
		IssueLabels struct {
			Nodes []Label `json:"nodes"`
		} `json:"issueLabels"`
	}
	if err := c.do(ctx, query, vars, &resp); err != nil {
		return nil, err
	}
	return resp.IssueLabels.Nodes, nil
}
