package linear

import (
	"context"
	"errors"
)

type issueNode struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Priority   int    `json:"priority"`
	State      *struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	} `json:"state"`
	Assignee *struct {
		Name string `json:"name"`
	} `json:"assignee"`
	Team struct {
		Key string `json:"key"`
	} `json:"team"`
}

func (n issueNode) toSummary() IssueSummary {
	out := IssueSummary{
		ID:         n.ID,
		Identifier: n.Identifier,
		Title:      n.Title,
		URL:        n.URL,
		TeamKey:    n.Team.Key,
		Priority:   n.Priority,
	}
	if n.State != nil {
		out.State = n.State.Name
		out.StateColor = n.State.Color
	}
	if n.Assignee != nil {
		out.Assignee = n.Assignee.Name
	}
	return out
}

// Issues lists issues matching the filter. With all=false a single page of at
// most limit issues is fetched; with all=true every page is walked.
func (c *Client) Issues(ctx context.Context, filter IssueFilter, limit int, all bool) ([]IssueSummary, error) {
	query := `query($filter: IssueFilter, $first: Int, $after: String) {
  issues(filter: $filter, first: $first, after: $after) {
    nodes {
      id
      identifier
      title
      url
      priority
      state { name color }
      assignee { name }
      team { key }
    }
    pageInfo { hasNextPage endCursor }
  }
}`
	gqlFilter := buildIssueFilter(filter)

	nodes, err := collectPages(ctx, limit, all, func(ctx context.Context, first int, after string) ([]issueNode, PageInfo, error) {
		vars := map[string]any{"first": first}
		if gqlFilter != nil {
			vars["filter"] = gqlFilter
		}
		if after != "" {
			vars["after"] = after
		}
		var resp struct {
			Issues struct {
				Nodes    []issueNode `json:"nodes"`
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
			} `json:"issues"`
		}
		if err := c.do(ctx, query, vars, &resp); err != nil {
			return nil, PageInfo{}, err
		}
		return resp.Issues.Nodes, PageInfo{
			HasNextPage: resp.Issues.PageInfo.HasNextPage,
			EndCursor:   resp.Issues.PageInfo.EndCursor,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	issues := make([]IssueSummary, 0, len(nodes))
	for _, node := range nodes {
		issues = append(issues, node.toSummary())
	}
	return issues, nil
}

func (c *Client) Issue(ctx context.Context, value string) (IssueDetail, error) {
	query := `query($id: String!) {
  issue(id: $id) {
    id
    identifier
    title
    url
    description
    priority
    createdAt
    updatedAt
    team { id key name }
    state { name color }
    assignee { name }
    cycle { name }
    project { name }
    labels { nodes { name } }
  }
}`
	var resp struct {
		Issue *struct {
			ID          string `json:"id"`
			Identifier  string `json:"identifier"`
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			Priority    int    `json:"priority"`
			CreatedAt   string `json:"createdAt"`
			UpdatedAt   string `json:"updatedAt"`
			Team        struct {
				ID   string `json:"id"`
				Key  string `json:"key"`
				Name string `json:"name"`
			} `json:"team"`
			State *struct {
				Name  string `json:"name"`
				Color string `json:"color"`
			} `json:"state"`
			Assignee *struct {
				Name string `json:"name"`
			} `json:"assignee"`
			Cycle *struct {
				Name string `json:"name"`
			} `json:"cycle"`
			Project *struct {
				Name string `json:"name"`
			} `json:"project"`
			Labels struct {
				Nodes []struct {
					Name string `json:"name"`
				} `json:"nodes"`
			} `json:"labels"`
		} `json:"issue"`
	}
	if err := c.do(ctx, query, map[string]any{"id": value}, &resp); err != nil {
		return IssueDetail{}, err
	}
	if resp.Issue == nil {
		return IssueDetail{}, notFound("issue", value)
	}

	node := resp.Issue
	detail := IssueDetail{
		ID:          node.ID,
		Identifier:  node.Identifier,
		Title:       node.Title,
		URL:         node.URL,
		Description: node.Description,
		Priority:    node.Priority,
		TeamID:      node.Team.ID,
		TeamKey:     node.Team.Key,
		TeamName:    node.Team.Name,
		CreatedAt:   node.CreatedAt,
		UpdatedAt:   node.UpdatedAt,
	}
	if node.State != nil {
		detail.State = node.State.Name
		detail.StateColor = node.State.Color
	}
	if node.Assignee != nil {
		detail.Assignee = node.Assignee.Name
	}
	if node.Cycle != nil {
		detail.Cycle = node.Cycle.Name
	}
	if node.Project != nil {
		detail.Project = node.Project.Name
	}
	for _, label := range node.Labels.Nodes {
		detail.Labels = append(detail.Labels, label.Name)
	}
	return detail, nil
}

func (c *Client) IssueCreate(ctx context.Context, input map[string]any) (IssueSummary, error) {
	query := `mutation($input: IssueCreateInput!) {
  issueCreate(input: $input) {
    issue { id identifier title url }
  }
}`
	var resp struct {
		IssueCreate struct {
			Issue *IssueSummary `json:"issue"`
		} `json:"issueCreate"`
	}
	if err := c.do(ctx, query, map[string]any{"input": input}, &resp); err != nil {
		return IssueSummary{}, err
	}
	if resp.IssueCreate.Issue == nil {
		return IssueSummary{}, ErrEmptyResponse
	}
	return *resp.IssueCreate.Issue, nil
}

func (c *Client) IssueUpdate(ctx context.Context, issueID string, input map[string]any) (IssueSummary, error) {
	if issueID == "" {
		return IssueSummary{}, errors.New("issue id is required")
	}
	query := `mutation($id: String!, $input: IssueUpdateInput!) {
  issueUpdate(id: $id, input: $input) {
    issue { id identifier title url }
  }
}`
	var resp struct {
		IssueUpdate struct {
			Issue *IssueSummary `json:"issue"`
		} `json:"issueUpdate"`
	}
	if err := c.do(ctx, query, map[string]any{"id": issueID, "input": input}, &resp); err != nil {
		return IssueSummary{}, err
	}
	if resp.IssueUpdate.Issue == nil {
		return IssueSummary{}, notFound("issue", issueID)
	}
	return *resp.IssueUpdate.Issue, nil
}

func buildIssueFilter(filter IssueFilter) map[string]any {
	out := map[string]any{}
	if filter.TeamKey != "" {
		out["team"] = map[string]any{"key": map[string]any{"eq": filter.TeamKey}}
	}
	if filter.AssigneeID != "" {
		out["assignee"] = map[string]any{"id": map[string]any{"eq": filter.AssigneeID}}
	}
	if filter.State != "" {
		out["state"] = map[string]any{"id": map[string]any{"eq": filter.State}}
	}
	if filter.Project != "" {
		out["project"] = map[string]any{"id": map[string]any{"eq": filter.Project}}
	}
	if filter.Label != "" {
		out["labels"] = map[string]any{"id": map[string]any{"eq": filter.Label}}
	}
	if filter.Cycle != "" {
		out["cycle"] = map[string]any{"id": map[string]any{"eq": filter.Cycle}}
	}
	if filter.Search != "" {
		out["title"] = map[string]any{"containsIgnoreCase": filter.Search}
	}
	if filter.Priority != nil {
		out["priority"] = map[string]any{"eq": *filter.Priority}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
