package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultAPIURL = "https://api.linear.app/graphql"

// TeamCache is the resolver's cache collaborator. Implementations must never
// fail loudly: a miss is the only failure mode.
type TeamCache interface {
	GetTeamID(key string) (string, bool)
	PutTeam(team Team)
}

type Client struct {
	apiURL string
	token  string
	http   *http.Client
	teams  TeamCache
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

func NewClient(token string, timeout time.Duration) *Client {
	return &Client{
		apiURL: defaultAPIURL,
		token:  token,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithAPIURL points the client at a different GraphQL endpoint. Used by
// tests to target a local server.
func (c *Client) WithAPIURL(url string) *Client {
	c.apiURL = url
	return c
}

// WithTeamCache attaches the identifier cache consulted by team resolution.
// Without one, every resolution goes to the network.
func (c *Client) WithTeamCache(cache TeamCache) *Client {
	c.teams = cache
	return c
}

// do executes a single GraphQL operation. No retries: a failed call surfaces
// immediately and the caller decides what to do.
func (c *Client) do(ctx context.Context, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if token := normalizeToken(c.token); token != "" {
		req.Header.Set("Authorization", token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var gqlResp gqlResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		messages := make([]string, 0, len(gqlResp.Errors))
		for _, gerr := range gqlResp.Errors {
			messages = append(messages, gerr.Message)
		}
		return &GraphQLErrors{Messages: messages}
	}

	if len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
		return ErrEmptyResponse
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func normalizeToken(token string) string {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(trimmed), "bearer ") {
		return strings.TrimSpace(trimmed[7:])
	}
	return trimmed
}
