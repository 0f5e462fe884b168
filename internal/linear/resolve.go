package linear

import (
	"context"
	"fmt"
	"strings"
)

// isOpaqueID reports whether value already looks like a service-internal id
// rather than a human-facing identifier like ENG-123. Internal ids are long
// and carry no hyphen in the positions a team-key identifier would.
func isOpaqueID(value string) bool {
	return len(value) > 30 && !strings.Contains(value, "-")
}

// Viewer resolves the authenticated user. Identity is never cached.
func (c *Client) Viewer(ctx context.Context) (User, error) {
	query := `query {
  viewer {
    id
    name
    email
  }
}`
	var resp struct {
		Viewer *User `json:"viewer"`
	}
	if err := c.do(ctx, query, nil, &resp); err != nil {
		return User{}, err
	}
	if resp.Viewer == nil {
		return User{}, ErrEmptyResponse
	}
	return *resp.Viewer, nil
}

// ResolveTeamID turns a team key into a team id, consulting the cache first.
// Cache lookups are case-insensitive; the remote lookup is an exact key match.
func (c *Client) ResolveTeamID(ctx context.Context, key string) (string, error) {
	if c.teams != nil {
		if id, ok := c.teams.GetTeamID(key); ok {
			return id, nil
		}
	}

	query := `query($key: String!) {
  teams(filter: { key: { eq: $key } }) {
    nodes { id key name }
  }
}`
	var resp struct {
		Teams struct {
			Nodes []Team `json:"nodes"`
		} `json:"teams"`
	}
	if err := c.do(ctx, query, map[string]any{"key": key}, &resp); err != nil {
		return "", err
	}
	if len(resp.Teams.Nodes) == 0 {
		return "", notFound("team", key)
	}

	team := resp.Teams.Nodes[0]
	if c.teams != nil {
		c.teams.PutTeam(team)
	}
	return team.ID, nil
}

// ResolveStateID matches a workflow state by name within a team,
// case-insensitively and on exact equality: "don" never matches "Done".
// Duplicate names resolve to the first match.
func (c *Client) ResolveStateID(ctx context.Context, teamID, name string) (string, error) {
	if isOpaqueID(name) {
		return name, nil
	}
	states, err := c.WorkflowStates(ctx, teamID)
	if err != nil {
		return "", err
	}
	for _, state := range states {
		if strings.EqualFold(state.Name, name) {
			return state.ID, nil
		}
	}
	return "", notFound("workflow state", name)
}

// ResolveStateByType picks the first workflow state with the given state-type
// category (completed for close, unstarted for reopen). Matching is on the
// type flag, never on the state name.
func (c *Client) ResolveStateByType(ctx context.Context, teamID, stateType string) (WorkflowState, error) {
	states, err := c.WorkflowStates(ctx, teamID)
	if err != nil {
		return WorkflowState{}, err
	}
	for _, state := range states {
		if strings.EqualFold(state.Type, stateType) {
			return state, nil
		}
	}
	return WorkflowState{}, notFound("workflow state", "type "+stateType)
}

// ResolveLabelIDs resolves a batch of label names atomically: any name that
// fails to resolve fails the whole batch. Names are matched case-insensitively
// on exact equality against the label list (team-scoped when teamKey is set);
// duplicate names resolve to the first match.
func (c *Client) ResolveLabelIDs(ctx context.Context, teamKey string, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	labels, err := c.Labels(ctx, teamKey)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if isOpaqueID(name) {
			ids = append(ids, name)
			continue
		}
		id := ""
		for _, label := range labels {
			if strings.EqualFold(label.Name, name) {
				id = label.ID
				break
			}
		}
		if id == "" {
			return nil, notFound("label", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ResolveIssueID turns a human-facing identifier into the internal id.
// Values that already look opaque skip the round-trip.
func (c *Client) ResolveIssueID(ctx context.Context, value string) (string, error) {
	if isOpaqueID(value) {
		return value, nil
	}
	query := `query($id: String!) {
  issue(id: $id) { id }
}`
	var resp struct {
		Issue *struct {
			ID string `json:"id"`
		} `json:"issue"`
	}
	if err := c.do(ctx, query, map[string]any{"id": value}, &resp); err != nil {
		return "", err
	}
	if resp.Issue == nil {
		return "", notFound("issue", value)
	}
	return resp.Issue.ID, nil
}

// ResolveUserID accepts "me" (viewer lookup, always fresh), an opaque id, or
// an email address.
func (c *Client) ResolveUserID(ctx context.Context, value string) (string, error) {
	if value == "me" {
		user, err := c.Viewer(ctx)
		if err != nil {
			return "", err
		}
		return user.ID, nil
	}
	if isOpaqueID(value) {
		return value, nil
	}
	if strings.Contains(value, "@") {
		query := `query($email: String!) {
  users(filter: { email: { eq: $email } }) {
    nodes { id }
  }
}`
		var resp struct {
			Users struct {
				Nodes []struct {
					ID string `json:"id"`
				} `json:"nodes"`
			} `json:"users"`
		}
		if err := c.do(ctx, query, map[string]any{"email": value}, &resp); err != nil {
			return "", err
		}
		if len(resp.Users.Nodes) == 0 {
			return "", notFound("user", value)
		}
		return resp.Users.Nodes[0].ID, nil
	}
	return "", fmt.Errorf("assignee must be 'me', an id, or an email")
}
