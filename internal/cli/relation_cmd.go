package cli

import (
	"context"
	"fmt"

	"github.com/lnrcli/lnr/internal/linear"
)

type IssueRelationsCmd struct {
	IssueID string `arg:"" name:"issue-id" help:"Issue ID"`
}

type IssueRelateCmd struct {
	IssueID string `arg:"" name:"issue-id" help:"Source issue ID"`
	Type    string `arg:"" help:"Relation type (blocks, duplicate, related)" enum:"blocks,duplicate,related"`
	Target  string `arg:"" help:"Target issue ID"`
}

type IssueUnrelateCmd struct {
	IssueID string `arg:"" name:"issue-id" help:"Source issue ID"`
	Target  string `arg:"" help:"Target issue ID"`
}

type IssueParentCmd struct {
	IssueID string `arg:"" name:"issue-id" help:"Issue ID"`
	Parent  string `arg:"" help:"Parent issue ID"`
}

type IssueUnparentCmd struct {
	IssueID string `arg:"" name:"issue-id" help:"Issue ID"`
}

func (c *IssueRelationsCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	set, err := client.IssueRelationSet(ctx, c.IssueID)
	if err != nil {
		return apiError(err)
	}

	out := outputFor(cmdCtx)
	if out.Format == FormatJSON {
		return out.PrintJSON(set)
	}

	normalized := set.Normalized()
	if out.Format == FormatCompact {
		for _, rel := range normalized {
			_, _ = fmt.Fprintf(cmdCtx.deps.Out, "%s %s\n", rel.Label, rel.Other.Identifier)
		}
		return nil
	}

	if set.Parent != nil {
		_, _ = fmt.Fprintf(cmdCtx.deps.Out, "Parent: %s %s\n", set.Parent.Identifier, set.Parent.Title)
	}
	if len(set.Children) > 0 {
		_, _ = fmt.Fprintln(cmdCtx.deps.Out, "Children:")
		for _, child := range set.Children {
			_, _ = fmt.Fprintf(cmdCtx.deps.Out, "- %s %s\n", child.Identifier, child.Title)
		}
	}
	if len(normalized) == 0 {
		if set.Parent == nil && len(set.Children) == 0 {
			_, _ = fmt.Fprintln(cmdCtx.deps.Out, "No relations")
		}
		return nil
	}
	rows := make([][]string, 0, len(normalized))
	for _, rel := range normalized {
		rows = append(rows, []string{rel.Label, rel.Other.Identifier, rel.Other.Title})
	}
	return out.PrintTable([]string{"Relation", "Issue", "Title"}, rows)
}

func (c *IssueRelateCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	sourceID, err := client.ResolveIssueID(ctx, c.IssueID)
	if err != nil {
		return apiError(err)
	}
	targetID, err := client.ResolveIssueID(ctx, c.Target)
	if err != nil {
		return apiError(err)
	}
	rel, err := client.RelationCreate(ctx, sourceID, targetID, linear.RelationType(c.Type))
	if err != nil {
		return apiError(err)
	}

	out := outputFor(cmdCtx)
	if out.Format == FormatJSON {
		return out.PrintJSON(rel)
	}
	return out.Message("%s %s %s", rel.Issue.Identifier, rel.Type, rel.RelatedIssue.Identifier)
}

func (c *IssueUnrelateCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	rel, err := client.FindRelation(ctx, c.IssueID, c.Target)
	if err != nil {
		return apiError(err)
	}
	if err := client.RelationDelete(ctx, rel.ID); err != nil {
		return apiError(err)
	}

	out := outputFor(cmdCtx)
	if out.Format == FormatJSON {
		return out.PrintJSON(map[string]any{"deleted": true, "id": rel.ID})
	}
	return out.Message("Relation removed")
}

func (c *IssueParentCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	issueID, err := client.ResolveIssueID(ctx, c.IssueID)
	if err != nil {
		return apiError(err)
	}
	parentID, err := client.ResolveIssueID(ctx, c.Parent)
	if err != nil {
		return apiError(err)
	}
	issue, err := client.SetParent(ctx, issueID, parentID)
	if err != nil {
		return apiError(err)
	}

	out := outputFor(cmdCtx)
	if out.Format == FormatJSON {
		return out.PrintJSON(issue)
	}
	return out.Message("Parent of %s set to %s", issue.Identifier, c.Parent)
}

func (c *IssueUnparentCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	issueID, err := client.ResolveIssueID(ctx, c.IssueID)
	if err != nil {
		return apiError(err)
	}
	issue, err := client.SetParent(ctx, issueID, "")
	if err != nil {
		return apiError(err)
	}

	out := outputFor(cmdCtx)
	if out.Format == FormatJSON {
		return out.PrintJSON(issue)
	}
	return out.Message("Parent of %s cleared", issue.Identifier)
}
