package linear

import "fmt"

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Team struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

type WorkflowState struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color,omitempty"`
}

type Label struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

type Project struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state,omitempty"`
}

type Cycle struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
	IsActive bool   `json:"is_active"`
}

type IssueSummary struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	URL        string `json:"url,omitempty"`
	State      string `json:"state"`
	StateColor string `json:"state_color,omitempty"`
	Assignee   string `json:"assignee,omitempty"`
	TeamKey    string `json:"team_key,omitempty"`
	Priority   int    `json:"priority"`
}

type IssueDetail struct {
	ID          string    `json:"id"`
	Identifier  string    `json:"identifier"`
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	Description string    `json:"description,omitempty"`
	Priority    int       `json:"priority"`
	State       string    `json:"state"`
	StateColor  string    `json:"state_color,omitempty"`
	Assignee    string    `json:"assignee,omitempty"`
	TeamID      string    `json:"team_id"`
	TeamKey     string    `json:"team_key"`
	TeamName    string    `json:"team_name,omitempty"`
	Project     string    `json:"project,omitempty"`
	Cycle       string    `json:"cycle,omitempty"`
	Labels      []string  `json:"labels,omitempty"`
	Comments    []Comment `json:"comments,omitempty"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

type Comment struct {
	ID        string `json:"id"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at,omitempty"`
	UserName  string `json:"user_name,omitempty"`
}

type Attachment struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	URL       string `json:"url,omitempty"`
	Subtitle  string `json:"subtitle,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// IssueRef is the minimal issue shape carried inside relation edges.
type IssueRef struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
}

type RelationType string

const (
	RelationBlocks    RelationType = "blocks"
	RelationDuplicate RelationType = "duplicate"
	RelationRelated   RelationType = "related"
)

// InverseLabel is the display label when the queried issue is the target of
// the edge rather than the source.
func (t RelationType) InverseLabel() string {
	switch t {
	case RelationBlocks:
		return "blocked by"
	case RelationDuplicate:
		return "duplicate of"
	case RelationRelated:
		return "related to"
	}
	return string(t)
}

type Relation struct {
	ID           string       `json:"id"`
	Type         RelationType `json:"type"`
	Issue        IssueRef     `json:"issue"`
	RelatedIssue IssueRef     `json:"related_issue"`
}

// IssueRelations is everything `issue relations` renders: parent, children,
// and relation edges in both directions.
type IssueRelations struct {
	Identifier string     `json:"identifier"`
	Parent     *IssueRef  `json:"parent,omitempty"`
	Children   []IssueRef `json:"children,omitempty"`
	Relations  []Relation `json:"relations,omitempty"`
}

type PageInfo struct {
	HasNextPage bool   `json:"has_next_page"`
	EndCursor   string `json:"end_cursor,omitempty"`
}

type IssueFilter struct {
	TeamKey    string
	AssigneeID string
	State      string
	Project    string
	Label      string
	Cycle      string
	Search     string
	Priority   *int
}

// PriorityLabel maps Linear's 0-4 priority scale to its display name.
func PriorityLabel(priority int) string {
	switch priority {
	case 0:
		return "None"
	case 1:
		return "Urgent"
	case 2:
		return "High"
	case 3:
		return "Medium"
	case 4:
		return "Low"
	}
	return fmt.Sprintf("P%d", priority)
}
