package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lnrcli/lnr/internal/linear"
)

type IssueCmd struct {
	List   IssueListCmd   `cmd:"" help:"List issues"`
	View   IssueViewCmd   `cmd:"" help:"View issue details"`
	Create IssueCreateCmd `cmd:"" help:"Create an issue"`
	Update IssueUpdateCmd `cmd:"" help:"Update an issue"`
	Close  IssueCloseCmd  `cmd:"" help:"Move an issue to a completed state"`
	Reopen IssueReopenCmd `cmd:"" help:"Move an issue back to an unstarted state"`

	Comments IssueCommentsCmd `cmd:"" help:"List issue comments"`
	Comment  IssueCommentCmd  `cmd:"" help:"Add a comment to an issue"`

	Relations IssueRelationsCmd `cmd:"" help:"Show issue relations, parent, and children"`
	Relate    IssueRelateCmd    `cmd:"" help:"Create a relation between two issues"`
	Unrelate  IssueUnrelateCmd  `cmd:"" help:"Remove the relation between two issues"`
	Parent    IssueParentCmd    `cmd:"" help:"Set an issue's parent"`
	Unparent  IssueUnparentCmd  `cmd:"" help:"Clear an issue's parent"`

	Attachments IssueAttachmentsCmd `cmd:"" help:"List issue attachments"`
	Attach      IssueAttachCmd      `cmd:"" help:"Attach a URL to an issue"`
	Upload      IssueUploadCmd      `cmd:"" help:"Upload a file and attach it to an issue"`
	Download    IssueDownloadCmd    `cmd:"" help:"Download issue attachments"`
	Images      IssueImagesCmd      `cmd:"" help:"Download images embedded in the issue description"`
}

type IssueListCmd struct {
	Mine     bool   `help:"Only issues assigned to you"`
	Team     string `help:"Team key"`
	Assignee string `help:"Assignee (me, id, or email)"`
	Status   string `help:"Workflow state name or ID"`
	Project  string `help:"Project name or ID"`
	Label    string `help:"Label name or ID"`
	Cycle    string `help:"Cycle ID or 'current'"`
	Search   string `help:"Search issue titles"`
	Priority int    `help:"Priority (0-4)" default:"-1"`
	Limit    int    `help:"Maximum number of issues" default:"50"`
	All      bool   `help:"Fetch every page"`
}

type IssueViewCmd struct {
	IssueID       string `arg:"" name:"issue-id" help:"Issue ID"`
	Comments      bool   `help:"Include comments"`
	CommentsLimit int    `name:"comments-limit" help:"Maximum number of comments" default:"20"`
}

type IssueCreateCmd struct {
	Team        string `help:"Team key"`
	Title       string `help:"Issue title"`
	Description string `help:"Issue description or '-' for stdin"`
	Assignee    string `help:"Assignee (me, id, or email)"`
	Status      string `help:"Workflow state name or ID"`
	Priority    int    `help:"Priority (0-4)" default:"-1"`
	Project     string `help:"Project name or ID"`
	Cycle       string `help:"Cycle ID or 'current'"`
	Labels      string `help:"Comma-separated label names or IDs"`
}

type IssueUpdateCmd struct {
	IssueID     string `arg:"" name:"issue-id" help:"Issue ID"`
	Title       string `help:"Issue title"`
	Description string `help:"Issue description or '-' for stdin"`
	Assignee    string `help:"Assignee (me, id, or email)"`
	Status      string `help:"Workflow state name or ID"`
	Priority    int    `help:"Priority (0-4)" default:"-1"`
	Project     string `help:"Project name or ID"`
	Cycle       string `help:"Cycle ID or 'current'"`
	Labels      string `help:"Comma-separated label names or IDs"`
}

type IssueCloseCmd struct {
	IssueID string `arg:"" name:"issue-id" help:"Issue ID"`
}

type IssueReopenCmd struct {
	IssueID string `arg:"" name:"issue-id" help:"Issue ID"`
}

type IssueCommentsCmd struct {
	IssueID string `arg:"" name:"issue-id" help:"Issue ID"`
	Limit   int    `help:"Maximum number of comments" default:"50"`
}

type IssueCommentCmd struct {
	IssueID string `arg:"" name:"issue-id" help:"Issue ID"`
	Body    string `help:"Comment body or '-' for stdin"`
}

func (c *IssueListCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}

	filter := linear.IssueFilter{
		TeamKey: cmdCtx.resolveTeam(c.Team),
		Search:  c.Search,
	}

	assignee := c.Assignee
	if c.Mine {
		assignee = "me"
	}
	if assignee != "" {
		assigneeID, resolveErr := client.ResolveUserID(ctx, assignee)
		if resolveErr != nil {
			return apiError(resolveErr)
		}
		filter.AssigneeID = assigneeID
	}
	if c.Status != "" {
		if filter.TeamKey == "" {
			return exitError(2, errors.New("--status requires --team (or a configured default team)"))
		}
		teamID, resolveErr := client.ResolveTeamID(ctx, filter.TeamKey)
		if resolveErr != nil {
			return apiError(resolveErr)
		}
		stateID, resolveErr := client.ResolveStateID(ctx, teamID, c.Status)
		if resolveErr != nil {
			return apiError(resolveErr)
		}
		filter.State = stateID
	}
	if c.Project != "" {
		projectID, resolveErr := client.ResolveProjectID(ctx, c.Project)
		if resolveErr != nil {
			return apiError(resolveErr)
		}
		filter.Project = projectID
	}
	if c.Label != "" {
		labelIDs, resolveErr := client.ResolveLabelIDs(ctx, filter.TeamKey, []string{c.Label})
		if resolveErr != nil {
			return apiError(resolveErr)
		}
		filter.Label = labelIDs[0]
	}
	if c.Cycle != "" {
		cycleID, resolveErr := client.ResolveCycleID(ctx, filter.TeamKey, c.Cycle)
		if resolveErr != nil {
			return apiError(resolveErr)
		}
		filter.Cycle = cycleID
	}
	if c.Priority >= 0 {
		filter.Priority = &c.Priority
	}

	issues, err := client.Issues(ctx, filter, c.Limit, c.All)
	if err != nil {
		return apiError(err)
	}
	cmdCtx.saveCache()

	out := outputFor(cmdCtx)
	rows := make([][]string, 0, len(issues))
	compact := make([]string, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, []string{
			issue.Identifier,
			issue.Title,
			out.stateCell(issue.State, issue.StateColor),
			out.priorityCell(issue.Priority),
			issue.Assignee,
		})
		compact = append(compact, fmt.Sprintf("%s %s", issue.Identifier, issue.Title))
	}
	return out.Collection(issues, []string{"ID", "Title", "State", "Priority", "Assignee"}, rows, compact)
}

func (c *IssueViewCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	issue, err := client.Issue(ctx, c.IssueID)
	if err != nil {
		return apiError(err)
	}
	if c.Comments {
		comments, err := client.IssueComments(ctx, issue.ID, c.CommentsLimit)
		if err != nil {
			return apiError(err)
		}
		issue.Comments = comments
	}

	out := outputFor(cmdCtx)
	if out.Format != FormatTable {
		return out.Single(issue,
			nil, nil,
			fmt.Sprintf("%s %s", issue.Identifier, issue.Title))
	}

	rows := [][]string{{
		issue.Identifier,
		issue.Title,
		out.stateCell(issue.State, issue.StateColor),
		out.priorityCell(issue.Priority),
		issue.Assignee,
		issue.TeamKey,
	}}
	if err := out.PrintTable([]string{"ID", "Title", "State", "Priority", "Assignee", "Team"}, rows); err != nil {
		return err
	}
	if issue.URL != "" {
		_, _ = fmt.Fprintf(cmdCtx.deps.Out, "\nURL: %s\n", issue.URL)
	}
	if issue.Project != "" {
		_, _ = fmt.Fprintf(cmdCtx.deps.Out, "Project: %s\n", issue.Project)
	}
	if issue.Cycle != "" {
		_, _ = fmt.Fprintf(cmdCtx.deps.Out, "Cycle: %s\n", issue.Cycle)
	}
	if len(issue.Labels) > 0 {
		_, _ = fmt.Fprintf(cmdCtx.deps.Out, "Labels: %s\n", strings.Join(issue.Labels, ", "))
	}
	if issue.Description != "" {
		_, _ = fmt.Fprintf(cmdCtx.deps.Out, "\nDescription:\n%s\n", issue.Description)
	}
	if issue.CreatedAt != "" || issue.UpdatedAt != "" {
		_, _ = fmt.Fprintf(cmdCtx.deps.Out, "\nCreated: %s\nUpdated: %s\n", issue.CreatedAt, issue.UpdatedAt)
	}
	if c.Comments {
		if len(issue.Comments) == 0 {
			_, _ = fmt.Fprintln(cmdCtx.deps.Out, "\nComments: none")
		} else {
			_, _ = fmt.Fprintln(cmdCtx.deps.Out, "\nComments:")
			for _, comment := range issue.Comments {
				if comment.UserName != "" {
					_, _ = fmt.Fprintf(cmdCtx.deps.Out, "- %s (%s): %s\n", comment.UserName, comment.CreatedAt, comment.Body)
				} else {
					_, _ = fmt.Fprintf(cmdCtx.deps.Out, "- %s: %s\n", comment.CreatedAt, comment.Body)
				}
			}
		}
	}
	return nil
}

func (c *IssueCreateCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	team, err := cmdCtx.requireTeam(c.Team)
	if err != nil {
		return err
	}
	if c.Title == "" {
		return exitError(2, errors.New("--title is required"))
	}

	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}

	teamID, err := client.ResolveTeamID(ctx, team)
	if err != nil {
		return apiError(err)
	}

	input := map[string]any{
		"teamId": teamID,
		"title":  c.Title,
	}

	description, err := readOptionalBody(c.Description, cmdCtx.deps.In)
	if err != nil {
		return exitError(1, err)
	}
	if description != "" {
		input["description"] = description
	}

	if c.Assignee != "" {
		assigneeID, resolveErr := client.ResolveUserID(ctx, c.Assignee)
		if resolveErr != nil {
			return apiError(resolveErr)
		}
		input["assigneeId"] = assigneeID
	}
	if c.Status != "" {
		stateID, resolveErr := client.ResolveStateID(ctx, teamID, c.Status)
		if resolveErr != nil {
			return apiError(resolveErr)
		}
		input["stateId"] = stateID
	}
	if c.Priority >= 0 {
		input["priority"] = c.Priority
	}
	if c.Project != "" {
		projectID, resolveErr := client.ResolveProjectID(ctx, c.Project)
		if resolveErr != nil {
			return apiError(resolveErr)
		}
		input["projectId"] = projectID
	}
	if c.Cycle != "" {
		cycleID, resolveErr := client.ResolveCycleID(ctx, team, c.Cycle)
		if resolveErr != nil {
			return apiError(resolveErr)
		}
		input["cycleId"] = cycleID
	}
	if c.Labels != "" {
		labelIDs, resolveErr := client.ResolveLabelIDs(ctx, team, splitComma(c.Labels))
		if resolveErr != nil {
			return apiError(resolveErr)
		}
		input["labelIds"] = labelIDs
	}

	issue, err := client.IssueCreate(ctx, input)
	if err != nil {
		return apiError(err)
	}
	cmdCtx.saveCache()

	out := outputFor(cmdCtx)
	return out.Single(issue,
		[]string{"ID", "Title", "URL"},
		[]string{issue.Identifier, issue.Title, issue.URL},
		fmt.Sprintf("%s %s", issue.Identifier, issue.Title))
}

func (c *IssueUpdateCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}

	input := map[string]any{}
	if c.Title != "" {
		input["title"] = c.Title
	}
	description, err := readOptionalBody(c.Description, cmdCtx.deps.In)
	if err != nil {
		return exitError(1, err)
	}
	if description != "" {
		input["description"] = description
	}
	if c.Assignee != "" {
		assigneeID, resolveErr := client.ResolveUserID(ctx, c.Assignee)
		if resolveErr != nil {
			return apiError(resolveErr)
		}
		input["assigneeId"] = assigneeID
	}
	if c.Priority >= 0 {
		input["priority"] = c.Priority
	}
	if c.Project != "" {
		projectID, resolveErr := client.ResolveProjectID(ctx, c.Project)
		if resolveErr != nil {
			return apiError(resolveErr)
		}
		input["projectId"] = projectID
	}

	// State, cycle, and label resolution are team-scoped, so the issue is
	// fetched first when any of those flags is present.
	needsIssue := c.Status != "" || c.Cycle != "" || c.Labels != ""
	issueID := ""
	if needsIssue {
		issue, fetchErr := client.Issue(ctx, c.IssueID)
		if fetchErr != nil {
			return apiError(fetchErr)
		}
		issueID = issue.ID
		if c.Status != "" {
			stateID, resolveErr := client.ResolveStateID(ctx, issue.TeamID, c.Status)
			if resolveErr != nil {
				return apiError(resolveErr)
			}
			input["stateId"] = stateID
		}
		if c.Cycle != "" {
			cycleID, resolveErr := client.ResolveCycleID(ctx, issue.TeamKey, c.Cycle)
			if resolveErr != nil {
				return apiError(resolveErr)
			}
			input["cycleId"] = cycleID
		}
		if c.Labels != "" {
			labelIDs, resolveErr := client.ResolveLabelIDs(ctx, issue.TeamKey, splitComma(c.Labels))
			if resolveErr != nil {
				return apiError(resolveErr)
			}
			input["labelIds"] = labelIDs
		}
	} else {
		issueID, err = client.ResolveIssueID(ctx, c.IssueID)
		if err != nil {
			return apiError(err)
		}
	}

	if len(input) == 0 {
		return exitError(2, errors.New("nothing to update"))
	}

	issue, err := client.IssueUpdate(ctx, issueID, input)
	if err != nil {
		return apiError(err)
	}

	out := outputFor(cmdCtx)
	return out.Single(issue,
		[]string{"ID", "Title", "URL"},
		[]string{issue.Identifier, issue.Title, issue.URL},
		fmt.Sprintf("%s %s", issue.Identifier, issue.Title))
}

func (c *IssueCloseCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	return issueSetStateType(ctx, cmdCtx, c.IssueID, "completed")
}

func (c *IssueReopenCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	return issueSetStateType(ctx, cmdCtx, c.IssueID, "unstarted")
}

// issueSetStateType moves an issue to the first workflow state of the given
// state-type category. Matching is on the type flag, never the state name.
func issueSetStateType(ctx context.Context, cmdCtx *commandContext, issueRef, stateType string) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	issue, err := client.Issue(ctx, issueRef)
	if err != nil {
		return apiError(err)
	}
	state, err := client.ResolveStateByType(ctx, issue.TeamID, stateType)
	if err != nil {
		return apiError(err)
	}
	updated, err := client.IssueUpdate(ctx, issue.ID, map[string]any{"stateId": state.ID})
	if err != nil {
		return apiError(err)
	}

	out := outputFor(cmdCtx)
	return out.Single(updated,
		[]string{"ID", "Title", "State"},
		[]string{updated.Identifier, updated.Title, state.Name},
		fmt.Sprintf("%s %s", updated.Identifier, state.Name))
}

func (c *IssueCommentsCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	issueID, err := client.ResolveIssueID(ctx, c.IssueID)
	if err != nil {
		return apiError(err)
	}
	comments, err := client.IssueComments(ctx, issueID, c.Limit)
	if err != nil {
		return apiError(err)
	}

	out := outputFor(cmdCtx)
	rows := make([][]string, 0, len(comments))
	compact := make([]string, 0, len(comments))
	for _, comment := range comments {
		rows = append(rows, []string{comment.UserName, comment.CreatedAt, comment.Body})
		compact = append(compact, fmt.Sprintf("%s: %s", comment.UserName, comment.Body))
	}
	return out.Collection(comments, []string{"Author", "Created", "Body"}, rows, compact)
}

func (c *IssueCommentCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	issueID, err := client.ResolveIssueID(ctx, c.IssueID)
	if err != nil {
		return apiError(err)
	}
	text, err := readOptionalBody(c.Body, cmdCtx.deps.In)
	if err != nil {
		return exitError(1, err)
	}
	if strings.TrimSpace(text) == "" {
		return exitError(2, errors.New("comment body is required"))
	}
	commentID, err := client.CommentCreate(ctx, issueID, text)
	if err != nil {
		return apiError(err)
	}

	out := outputFor(cmdCtx)
	if out.Format == FormatJSON {
		return out.PrintJSON(map[string]string{"id": commentID})
	}
	return out.Message("Comment added: %s", commentID)
}

func splitComma(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func readOptionalBody(flagValue string, r io.Reader) (string, error) {
	if flagValue == "" {
		return "", nil
	}
	if flagValue != "-" {
		return flagValue, nil
	}
	reader := bufio.NewReader(r)
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
