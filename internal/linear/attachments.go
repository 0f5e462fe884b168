package linear

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

func (c *Client) IssueAttachments(ctx context.Context, issueID string) ([]Attachment, error) {
	query := `query($id: String!) {
  issue(id: $id) {
    attachments {
      nodes { id title url subtitle createdAt }
    }
  }
}`
	var resp struct {
		Issue *struct {
			Attachments struct {
				Nodes []struct {
					ID        string `json:"id"`
					Title     string `json:"title"`
					URL       string `json:"url"`
					Subtitle  string `json:"subtitle"`
					CreatedAt string `json:"createdAt"`
				} `json:"nodes"`
			} `json:"attachments"`
		} `json:"issue"`
	}
	if err := c.do(ctx, query, map[string]any{"id": issueID}, &resp); err != nil {
		return nil, err
	}
	if resp.Issue == nil {
		return nil, notFound("issue", issueID)
	}

	attachments := make([]Attachment, 0, len(resp.Issue.Attachments.Nodes))
	for _, node := range resp.Issue.Attachments.Nodes {
		attachments = append(attachments, Attachment{
			ID:        node.ID,
			Title:     node.Title,
			URL:       node.URL,
			Subtitle:  node.Subtitle,
			CreatedAt: node.CreatedAt,
		})
	}
	return attachments, nil
}

// AttachURL links an external URL to an issue as an attachment.
func (c *Client) AttachURL(ctx context.Context, issueID, rawURL, title string) (Attachment, error) {
	if title == "" {
		title = rawURL
	}
	query := `mutation($issueId: String!, $url: String!, $title: String) {
  attachmentLinkURL(issueId: $issueId, url: $url, title: $title) {
    success
    attachment { id title url }
  }
}`
	var resp struct {
		AttachmentLinkURL struct {
			Success    bool        `json:"success"`
			Attachment *Attachment `json:"attachment"`
		} `json:"attachmentLinkURL"`
	}
	vars := map[string]any{"issueId": issueID, "url": rawURL, "title": title}
	if err := c.do(ctx, query, vars, &resp); err != nil {
		return Attachment{}, err
	}
	if !resp.AttachmentLinkURL.Success || resp.AttachmentLinkURL.Attachment == nil {
		return Attachment{}, ErrEmptyResponse
	}
	return *resp.AttachmentLinkURL.Attachment, nil
}

type uploadTarget struct {
	UploadURL string
	AssetURL  string
	Headers   map[string]string
}

// requestUploadTarget asks the service for a signed upload slot. Step one of
// the three-step upload protocol.
func (c *Client) requestUploadTarget(ctx context.Context, filename, contentType string, size int) (uploadTarget, error) {
	query := `mutation($filename: String!, $contentType: String!, $size: Int!) {
  fileUpload(filename: $filename, contentType: $contentType, size: $size) {
    uploadFile {
      uploadUrl
      assetUrl
      headers { key value }
    }
  }
}`
	var resp struct {
		FileUpload struct {
			UploadFile *struct {
				UploadURL string `json:"uploadUrl"`
				AssetURL  string `json:"assetUrl"`
				Headers   []struct {
					Key   string `json:"key"`
					Value string `json:"value"`
				} `json:"headers"`
			} `json:"uploadFile"`
		} `json:"fileUpload"`
	}
	vars := map[string]any{"filename": filename, "contentType": contentType, "size": size}
	if err := c.do(ctx, query, vars, &resp); err != nil {
		return uploadTarget{}, err
	}
	if resp.FileUpload.UploadFile == nil {
		return uploadTarget{}, ErrEmptyResponse
	}
	target := uploadTarget{
		UploadURL: resp.FileUpload.UploadFile.UploadURL,
		AssetURL:  resp.FileUpload.UploadFile.AssetURL,
		Headers:   map[string]string{},
	}
	for _, h := range resp.FileUpload.UploadFile.Headers {
		target.Headers[h.Key] = h.Value
	}
	return target, nil
}

// UploadFile uploads a local file and attaches it to an issue: request a
// signed target, PUT the bytes with the headers the target demands, then
// create the attachment record. Failure at any step aborts the rest.
func (c *Client) UploadFile(ctx context.Context, issueID, path, title string) (Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Attachment{}, fmt.Errorf("file not found: %s", path)
		}
		return Attachment{}, fmt.Errorf("read file %s: %w", path, err)
	}

	filename := filepath.Base(path)
	if title == "" {
		title = filename
	}
	contentType := guessContentType(filename)

	target, err := c.requestUploadTarget(ctx, filename, contentType, len(data))
	if err != nil {
		return Attachment{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target.UploadURL, bytes.NewReader(data))
	if err != nil {
		return Attachment{}, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	for key, value := range target.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Attachment{}, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return Attachment{}, &UploadError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return c.attachmentCreate(ctx, issueID, target.AssetURL, title)
}

func (c *Client) attachmentCreate(ctx context.Context, issueID, assetURL, title string) (Attachment, error) {
	query := `mutation($input: AttachmentCreateInput!) {
  attachmentCreate(input: $input) {
    success
    attachment { id title url }
  }
}`
	var resp struct {
		AttachmentCreate struct {
			Success    bool        `json:"success"`
			Attachment *Attachment `json:"attachment"`
		} `json:"attachmentCreate"`
	}
	input := map[string]any{"issueId": issueID, "url": assetURL, "title": title}
	if err := c.do(ctx, query, map[string]any{"input": input}, &resp); err != nil {
		return Attachment{}, err
	}
	if !resp.AttachmentCreate.Success || resp.AttachmentCreate.Attachment == nil {
		return Attachment{}, ErrEmptyResponse
	}
	return *resp.AttachmentCreate.Attachment, nil
}

func guessContentType(filename string) string {
	if contentType := mime.TypeByExtension(filepath.Ext(filename)); contentType != "" {
		return contentType
	}
	return "application/octet-stream"
}
