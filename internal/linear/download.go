package linear

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"
)

const downloadWorkers = 4

// BatchItem is one asset to download, carrying its 1-based position in the
// source listing.
type BatchItem struct {
	Index int
	Title string
	URL   string
}

// BatchOutcome records the result of one item. A batch never aborts on a
// failed item; every item gets an outcome in input order.
type BatchOutcome struct {
	Index int
	URL   string
	Path  string
	Err   error
}

// BatchResult holds per-item outcomes in the order the items were given.
type BatchResult []BatchOutcome

func (r BatchResult) Succeeded() int {
	n := 0
	for _, o := range r {
		if o.Err == nil {
			n++
		}
	}
	return n
}

func (r BatchResult) Failed() int {
	return len(r) - r.Succeeded()
}

var markdownImageRe = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

// MarkdownImages extracts inline image references from markdown text, in
// document order with 1-based indices.
func MarkdownImages(markdown string) []BatchItem {
	matches := markdownImageRe.FindAllStringSubmatch(markdown, -1)
	items := make([]BatchItem, 0, len(matches))
	for i, m := range matches {
		items = append(items, BatchItem{
			Index: i + 1,
			Title: strings.TrimSpace(m[1]),
			URL:   strings.TrimSpace(m[2]),
		})
	}
	return items
}

// CheckOutputDir verifies the download target exists and is a directory.
// Runs before any network work so a bad --dir never fetches anything.
func CheckOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return &OutputDirError{Dir: dir}
	}
	return nil
}

// SelectIndex narrows a batch to the single 1-based index, validating the
// index before any network work happens.
func SelectIndex(items []BatchItem, index int) ([]BatchItem, error) {
	if index < 1 || index > len(items) {
		return nil, &IndexOutOfBoundsError{Index: index, Total: len(items)}
	}
	return []BatchItem{items[index-1]}, nil
}

var unsafeNameRe = regexp.MustCompile(`[^A-Za-z0-9._-]`)

func sanitizeName(s string) string {
	return unsafeNameRe.ReplaceAllString(s, "_")
}

func extFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := strings.TrimPrefix(path.Ext(u.Path), ".")
	return ext
}

// AttachmentFileName derives a local filename for an attachment. A title that
// already carries an extension is used directly after sanitizing; otherwise
// the name combines the title (or a positional fallback) with the item's
// position and an extension inferred from the URL path.
func AttachmentFileName(title, rawURL string, index int) string {
	name := sanitizeName(strings.TrimSpace(title))
	if name != "" && strings.Contains(name, ".") {
		return name
	}
	if name == "" {
		name = "attachment"
	}
	ext := extFromURL(rawURL)
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s_%d.%s", name, index, ext)
}

// ImageFileName derives a local filename for an inline image, prefixed with
// the issue identifier so one directory can hold images from many issues.
func ImageFileName(identifier string, item BatchItem) string {
	name := sanitizeName(strings.TrimSpace(item.Title))
	if name == "" {
		name = fmt.Sprintf("image_%d", item.Index)
	}
	ext := extFromURL(item.URL)
	if ext == "" {
		ext = "png"
	}
	return fmt.Sprintf("%s__%s.%s", sanitizeName(identifier), name, ext)
}

// isAssetHost reports whether the host belongs to the service's asset
// storage. Credentials are only ever sent to these hosts.
func isAssetHost(host string) bool {
	host = strings.ToLower(host)
	return host == "linear.app" || strings.HasSuffix(host, ".linear.app")
}

// DownloadBatch fetches every item into dir under the given names. Items and
// names are parallel slices. Failures are recorded per item and never stop
// the remaining downloads.
func (c *Client) DownloadBatch(ctx context.Context, items []BatchItem, names []string, dir string) BatchResult {
	outcomes := make(BatchResult, len(items))

	var g errgroup.Group
	g.SetLimit(downloadWorkers)
	for i, item := range items {
		dest := filepath.Join(dir, names[i])
		g.Go(func() error {
			outcomes[i] = BatchOutcome{Index: item.Index, URL: item.URL}
			if err := c.downloadAsset(ctx, item.URL, dest); err != nil {
				outcomes[i].Err = err
				return nil
			}
			outcomes[i].Path = dest
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (c *Client) downloadAsset(ctx context.Context, rawURL, dest string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &InvalidURLError{URL: rawURL}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &InvalidURLError{URL: rawURL}
	}
	if isAssetHost(u.Host) {
		if token := normalizeToken(c.token); token != "" {
			req.Header.Set("Authorization", token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &DownloadError{URL: rawURL, Status: resp.StatusCode}
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return f.Close()
}
