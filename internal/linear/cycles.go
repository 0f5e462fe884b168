package linear

import (
	"context"
	"strconv"
	"strings"
)

type cycleNode struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	StartsAt string `json:"startsAt"`
	EndsAt   string `json:"endsAt"`
	IsActive bool   `json:"isActive"`
}

func (n cycleNode) toCycle() Cycle {
	return Cycle{
		ID:       n.ID,
		Name:     n.Name,
		Number:   n.Number,
		StartsAt: n.StartsAt,
		EndsAt:   n.EndsAt,
		IsActive: n.IsActive,
	}
}

// Cycles lists cycles for a team, newest page first as the service orders
// them. With current=true only the active cycle is returned.
func (c *Client) Cycles(ctx context.Context, teamKey string, current bool, limit int, all bool) ([]Cycle, error) {
	query := `query($filter: CycleFilter, $first: Int, $after: String) {
  cycles(filter: $filter, first: $first, after: $after) {
    nodes { id name number startsAt endsAt isActive }
    pageInfo { hasNextPage endCursor }
  }
}`
	filter := map[string]any{}
	if teamKey != "" {
		filter["team"] = map[string]any{"key": map[string]any{"eq": teamKey}}
	}
	if current {
		filter["isActive"] = map[string]any{"eq": true}
	}

	nodes, err := collectPages(ctx, limit, all, func(ctx context.Context, first int, after string) ([]cycleNode, PageInfo, error) {
		vars := map[string]any{"first": first}
		if len(filter) > 0 {
			vars["filter"] = filter
		}
		if after != "" {
			vars["after"] = after
		}
		var resp struct {
			Cycles struct {
				Nodes    []cycleNode `json:"nodes"`
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
			} `json:"cycles"`
		}
		if err := c.do(ctx, query, vars, &resp); err != nil {
			return nil, PageInfo{}, err
		}
		return resp.Cycles.Nodes, PageInfo{
			HasNextPage: resp.Cycles.PageInfo.HasNextPage,
			EndCursor:   resp.Cycles.PageInfo.EndCursor,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	cycles := make([]Cycle, 0, len(nodes))
	for _, node := range nodes {
		cycles = append(cycles, node.toCycle())
	}
	return cycles, nil
}

func (c *Client) Cycle(ctx context.Context, id string) (Cycle, error) {
	query := `query($id: ID!) {
  cycle(id: $id) { id name number startsAt endsAt isActive }
}`
	var resp struct {
		Cycle *cycleNode `json:"cycle"`
	}
	if err := c.do(ctx, query, map[string]any{"id": id}, &resp); err != nil {
		return Cycle{}, err
	}
	if resp.Cycle == nil {
		return Cycle{}, notFound("cycle", id)
	}
	return resp.Cycle.toCycle(), nil
}

// ResolveCycleID accepts an opaque id, the word "current" (the team's active
// cycle), a cycle name, or a cycle number. Names match case-insensitively on
// exact equality; duplicates resolve to the first match.
func (c *Client) ResolveCycleID(ctx context.Context, teamKey, value string) (string, error) {
	if value == "current" {
		cycles, err := c.Cycles(ctx, teamKey, true, 1, false)
		if err != nil {
			return "", err
		}
		if len(cycles) == 0 {
			return "", notFound("cycle", "current")
		}
		return cycles[0].ID, nil
	}
	if isOpaqueID(value) {
		return value, nil
	}

	cycles, err := c.Cycles(ctx, teamKey, false, 0, true)
	if err != nil {
		return "", err
	}
	for _, cycle := range cycles {
		if strings.EqualFold(cycle.Name, value) {
			return cycle.ID, nil
		}
	}
	if number, convErr := strconv.Atoi(value); convErr == nil {
		for _, cycle := range cycles {
			if cycle.Number == number {
				return cycle.ID, nil
			}
		}
	}
	return "", notFound("cycle", value)
}
