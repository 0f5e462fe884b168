package linear

import "context"

func (c *Client) Teams(ctx context.Context) ([]Team, error) {
	query := `query {
  teams {
    nodes { id key name }
  }
}`
	var resp struct {
		Teams struct {
			Nodes []Team `json:"nodes"`
		} `json:"teams"`
	}
	if err := c.do(ctx, query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Teams.Nodes, nil
}

func (c *Client) WorkflowStates(ctx context.Context, teamID string) ([]WorkflowState, error) {
	query := `query($teamId: ID!) {
  workflowStates(filter: { team: { id: { eq: $teamId } } }) {
    nodes { id name type color }
  }
}`
	var resp struct {
		WorkflowStates struct {
			Nodes []WorkflowState `json:"nodes"`
		} `json:"workflowStates"`
	}
	if err := c.do(ctx, query, map[string]any{"teamId": teamID}, &resp); err != nil {
		return nil, err
	}
	return resp.WorkflowStates.Nodes, nil
}
