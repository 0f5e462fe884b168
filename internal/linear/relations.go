package linear

import "context"

type relationNode struct {
	ID           string       `json:"id"`
	Type         RelationType `json:"type"`
	Issue        IssueRef     `json:"issue"`
	RelatedIssue IssueRef     `json:"relatedIssue"`
}

// IssueRelationSet fetches the relation edges, parent, and children of an
// issue. Edges where the issue is the target come back through
// inverseRelations and are merged into one list; display-side direction
// normalization happens in NormalizedRelation.
func (c *Client) IssueRelationSet(ctx context.Context, value string) (IssueRelations, error) {
	query := `query($id: String!) {
  issue(id: $id) {
    id
    identifier
    relations {
      nodes { id type issue { id identifier title } relatedIssue { id identifier title } }
    }
    inverseRelations {
      nodes { id type issue { id identifier title } relatedIssue { id identifier title } }
    }
    parent { id identifier title }
    children {
      nodes { id identifier title }
    }
  }
}`
	var resp struct {
		Issue *struct {
			ID         string `json:"id"`
			Identifier string `json:"identifier"`
			Relations  *struct {
				Nodes []relationNode `json:"nodes"`
			} `json:"relations"`
			InverseRelations *struct {
				Nodes []relationNode `json:"nodes"`
			} `json:"inverseRelations"`
			Parent   *IssueRef `json:"parent"`
			Children struct {
				Nodes []IssueRef `json:"nodes"`
			} `json:"children"`
		} `json:"issue"`
	}
	if err := c.do(ctx, query, map[string]any{"id": value}, &resp); err != nil {
		return IssueRelations{}, err
	}
	if resp.Issue == nil {
		return IssueRelations{}, notFound("issue", value)
	}

	out := IssueRelations{
		Identifier: resp.Issue.Identifier,
		Parent:     resp.Issue.Parent,
		Children:   resp.Issue.Children.Nodes,
	}
	appendNodes := func(nodes []relationNode) {
		for _, node := range nodes {
			out.Relations = append(out.Relations, Relation{
				ID:           node.ID,
				Type:         node.Type,
				Issue:        node.Issue,
				RelatedIssue: node.RelatedIssue,
			})
		}
	}
	if resp.Issue.Relations != nil {
		appendNodes(resp.Issue.Relations.Nodes)
	}
	if resp.Issue.InverseRelations != nil {
		appendNodes(resp.Issue.InverseRelations.Nodes)
	}
	return out, nil
}

// NormalizedRelation is a relation edge viewed from one issue's side.
type NormalizedRelation struct {
	RelationID string   `json:"relation_id"`
	Label      string   `json:"label"`
	Other      IssueRef `json:"other"`
}

// Normalized renders each edge from the perspective of the queried issue.
// When the issue is the target of an edge the inverse label is used:
// "blocks" becomes "blocked by", never the forward label.
func (r IssueRelations) Normalized() []NormalizedRelation {
	out := make([]NormalizedRelation, 0, len(r.Relations))
	for _, rel := range r.Relations {
		if rel.Issue.Identifier == r.Identifier {
			out = append(out, NormalizedRelation{
				RelationID: rel.ID,
				Label:      string(rel.Type),
				Other:      rel.RelatedIssue,
			})
		} else {
			out = append(out, NormalizedRelation{
				RelationID: rel.ID,
				Label:      rel.Type.InverseLabel(),
				Other:      rel.Issue,
			})
		}
	}
	return out
}

func (c *Client) RelationCreate(ctx context.Context, issueID, relatedIssueID string, relationType RelationType) (Relation, error) {
	query := `mutation($input: IssueRelationCreateInput!) {
  issueRelationCreate(input: $input) {
    issueRelation { id type issue { id identifier title } relatedIssue { id identifier title } }
  }
}`
	var resp struct {
		IssueRelationCreate struct {
			IssueRelation *relationNode `json:"issueRelation"`
		} `json:"issueRelationCreate"`
	}
	input := map[string]any{
		"issueId":        issueID,
		"relatedIssueId": relatedIssueID,
		"type":           string(relationType),
	}
	if err := c.do(ctx, query, map[string]any{"input": input}, &resp); err != nil {
		return Relation{}, err
	}
	node := resp.IssueRelationCreate.IssueRelation
	if node == nil {
		return Relation{}, ErrEmptyResponse
	}
	return Relation{ID: node.ID, Type: node.Type, Issue: node.Issue, RelatedIssue: node.RelatedIssue}, nil
}

func (c *Client) RelationDelete(ctx context.Context, relationID string) error {
	query := `mutation($id: String!) {
  issueRelationDelete(id: $id) {
    success
  }
}`
	var resp struct {
		IssueRelationDelete *struct {
			Success bool `json:"success"`
		} `json:"issueRelationDelete"`
	}
	if err := c.do(ctx, query, map[string]any{"id": relationID}, &resp); err != nil {
		return err
	}
	if resp.IssueRelationDelete == nil || !resp.IssueRelationDelete.Success {
		return notFound("relation", relationID)
	}
	return nil
}

// FindRelation locates the edge between two issues from the source's relation
// set, in either direction.
func (c *Client) FindRelation(ctx context.Context, source, target string) (Relation, error) {
	set, err := c.IssueRelationSet(ctx, source)
	if err != nil {
		return Relation{}, err
	}
	for _, rel := range set.Relations {
		if rel.Issue.Identifier == target || rel.RelatedIssue.Identifier == target ||
			rel.Issue.ID == target || rel.RelatedIssue.ID == target {
			return rel, nil
		}
	}
	return Relation{}, notFound("relation", source+" <-> "+target)
}

// SetParent makes parentID the parent of issueID; an empty parentID clears it.
func (c *Client) SetParent(ctx context.Context, issueID, parentID string) (IssueSummary, error) {
	input := map[string]any{}
	if parentID == "" {
		input["parentId"] = nil
	} else {
		input["parentId"] = parentID
	}
	return c.IssueUpdate(ctx, issueID, input)
}
