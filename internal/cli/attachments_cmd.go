package cli

import (
	"context"
	"fmt"

	"github.com/lnrcli/lnr/internal/linear"
)

type IssueAttachmentsCmd struct {
	IssueID string `arg:"" name:"issue-id" help:"Issue ID"`
}

type IssueAttachCmd struct {
	IssueID string `arg:"" name:"issue-id" help:"Issue ID"`
	URL     string `arg:"" help:"URL to attach"`
	Title   string `help:"Attachment title"`
}

type IssueUploadCmd struct {
	IssueID string `arg:"" name:"issue-id" help:"Issue ID"`
	File    string `arg:"" help:"File to upload"`
	Title   string `help:"Attachment title"`
}

type IssueDownloadCmd struct {
	IssueID string `arg:"" name:"issue-id" help:"Issue ID"`
	Dir     string `help:"Directory to save attachments" default:"."`
	Index   int    `help:"Download only the Nth attachment (1-based)"`
}

type IssueImagesCmd struct {
	IssueID string `arg:"" name:"issue-id" help:"Issue ID"`
	Dir     string `help:"Directory to save images" default:"."`
	Index   int    `help:"Download only the Nth image (1-based)"`
}

func (c *IssueAttachmentsCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	issueID, err := client.ResolveIssueID(ctx, c.IssueID)
	if err != nil {
		return apiError(err)
	}
	attachments, err := client.IssueAttachments(ctx, issueID)
	if err != nil {
		return apiError(err)
	}

	out := outputFor(cmdCtx)
	rows := make([][]string, 0, len(attachments))
	compact := make([]string, 0, len(attachments))
	for i, attachment := range attachments {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), attachment.Title, attachment.URL})
		compact = append(compact, fmt.Sprintf("%d %s", i+1, attachment.Title))
	}
	return out.Collection(attachments, []string{"#", "Title", "URL"}, rows, compact)
}

func (c *IssueAttachCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	issueID, err := client.ResolveIssueID(ctx, c.IssueID)
	if err != nil {
		return apiError(err)
	}
	attachment, err := client.AttachURL(ctx, issueID, c.URL, c.Title)
	if err != nil {
		return apiError(err)
	}

	out := outputFor(cmdCtx)
	if out.Format == FormatJSON {
		return out.PrintJSON(attachment)
	}
	return out.Message("Attached: %s", attachment.URL)
}

func (c *IssueUploadCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	issueID, err := client.ResolveIssueID(ctx, c.IssueID)
	if err != nil {
		return apiError(err)
	}
	attachment, err := client.UploadFile(ctx, issueID, c.File, c.Title)
	if err != nil {
		return apiError(err)
	}

	out := outputFor(cmdCtx)
	if out.Format == FormatJSON {
		return out.PrintJSON(attachment)
	}
	return out.Message("Uploaded: %s", attachment.URL)
}

func (c *IssueDownloadCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	if err := linear.CheckOutputDir(c.Dir); err != nil {
		return exitError(2, err)
	}
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	issueID, err := client.ResolveIssueID(ctx, c.IssueID)
	if err != nil {
		return apiError(err)
	}
	attachments, err := client.IssueAttachments(ctx, issueID)
	if err != nil {
		return apiError(err)
	}
	if len(attachments) == 0 {
		return outputFor(cmdCtx).Message("No attachments")
	}

	items := make([]linear.BatchItem, 0, len(attachments))
	names := make([]string, 0, len(attachments))
	for i, attachment := range attachments {
		items = append(items, linear.BatchItem{Index: i + 1, Title: attachment.Title, URL: attachment.URL})
	}
	if c.Index != 0 {
		items, err = linear.SelectIndex(items, c.Index)
		if err != nil {
			return exitError(2, err)
		}
	}
	for _, item := range items {
		names = append(names, linear.AttachmentFileName(item.Title, item.URL, item.Index))
	}

	result := client.DownloadBatch(ctx, items, names, c.Dir)
	return reportBatch(cmdCtx, result)
}

func (c *IssueImagesCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	if err := linear.CheckOutputDir(c.Dir); err != nil {
		return exitError(2, err)
	}
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	issue, err := client.Issue(ctx, c.IssueID)
	if err != nil {
		return apiError(err)
	}

	items := linear.MarkdownImages(issue.Description)
	if len(items) == 0 {
		return outputFor(cmdCtx).Message("No images")
	}
	if c.Index != 0 {
		items, err = linear.SelectIndex(items, c.Index)
		if err != nil {
			return exitError(2, err)
		}
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, linear.ImageFileName(issue.Identifier, item))
	}

	result := client.DownloadBatch(ctx, items, names, c.Dir)
	return reportBatch(cmdCtx, result)
}

// reportBatch renders per-item outcomes. Item failures never fail the
// command; only an empty success set after a non-empty batch would have been
// an error upstream.
func reportBatch(cmdCtx *commandContext, result linear.BatchResult) error {
	out := outputFor(cmdCtx)
	if out.Format == FormatJSON {
		type outcomeJSON struct {
			Index int    `json:"index"`
			URL   string `json:"url"`
			Path  string `json:"path,omitempty"`
			Error string `json:"error,omitempty"`
		}
		outcomes := make([]outcomeJSON, 0, len(result))
		for _, o := range result {
			entry := outcomeJSON{Index: o.Index, URL: o.URL, Path: o.Path}
			if o.Err != nil {
				entry.Error = o.Err.Error()
			}
			outcomes = append(outcomes, entry)
		}
		return out.PrintJSON(outcomes)
	}

	for _, o := range result {
		if o.Err != nil {
			_, _ = fmt.Fprintf(cmdCtx.deps.Err, "failed %d: %v\n", o.Index, o.Err)
			continue
		}
		if !out.Quiet {
			_, _ = fmt.Fprintf(cmdCtx.deps.Out, "saved %s\n", o.Path)
		}
	}
	return out.Message("%d saved, %d failed", result.Succeeded(), result.Failed())
}
