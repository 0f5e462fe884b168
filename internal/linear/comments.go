package linear

import "context"

func (c *Client) IssueComments(ctx context.Context, issueID string, limit int) ([]Comment, error) {
	query := `query($id: String!, $first: Int) {
  issue(id: $id) {
    comments(first: $first) {
      nodes { id body createdAt user { name } }
    }
  }
}`
	vars := map[string]any{"id": issueID}
	if limit > 0 {
		vars["first"] = limit
	}

	var resp struct {
		Issue *struct {
			Comments struct {
				Nodes []struct {
					ID        string `json:"id"`
					Body      string `json:"body"`
					CreatedAt string `json:"createdAt"`
					User      *struct {
						Name string `json:"name"`
					} `json:"user"`
				} `json:"nodes"`
			} `json:"comments"`
		} `json:"issue"`
	}
	if err := c.do(ctx, query, vars, &resp); err != nil {
		return nil, err
	}
	if resp.Issue == nil {
		return nil, notFound("issue", issueID)
	}

	comments := make([]Comment, 0, len(resp.Issue.Comments.Nodes))
	for _, node := range resp.Issue.Comments.Nodes {
		comment := Comment{
			ID:        node.ID,
			Body:      node.Body,
			CreatedAt: node.CreatedAt,
		}
		if node.User != nil {
			comment.UserName = node.User.Name
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

func (c *Client) CommentCreate(ctx context.Context, issueID, body string) (string, error) {
	query := `mutation($input: CommentCreateInput!) {
  commentCreate(input: $input) {
    comment { id }
  }
}`
	var resp struct {
		CommentCreate struct {
			Comment *struct {
				ID string `json:"id"`
			} `json:"comment"`
		} `json:"commentCreate"`
	}
	input := map[string]any{"issueId": issueID, "body": body}
	if err := c.do(ctx, query, map[string]any{"input": input}, &resp); err != nil {
		return "", err
	}
	if resp.CommentCreate.Comment == nil {
		return "", ErrEmptyResponse
	}
	return resp.CommentCreate.Comment.ID, nil
}
