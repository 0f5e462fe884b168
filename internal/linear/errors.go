package linear

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrRateLimited   = errors.New("rate limited")
	ErrEmptyResponse = errors.New("empty response from API")
	ErrMissingAPIKey = errors.New("no API key found; run 'lnr auth login' or set LINEAR_API_KEY")
	ErrNoTeam        = errors.New("team not specified and no default_team configured")
)

// APIError is a non-2xx HTTP response from the GraphQL endpoint.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Body)
}

// GraphQLErrors carries the application-level error list from a response
// envelope. A non-empty list takes precedence over any data payload.
type GraphQLErrors struct {
	Messages []string
}

func (e *GraphQLErrors) Error() string {
	return "GraphQL errors: " + strings.Join(e.Messages, "; ")
}

// NotFoundError is a lookup miss scoped by resource kind.
type NotFoundError struct {
	Kind  string // "issue", "team", "cycle", "workflow state", "label", "relation"
	Value string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Value)
}

func notFound(kind, value string) error {
	return &NotFoundError{Kind: kind, Value: value}
}

// IsNotFound reports whether err is a NotFoundError of any kind.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	return "invalid URL: " + e.URL
}

// OutputDirError is a download target that does not exist or is not a
// directory. Checked before any fetch starts.
type OutputDirError struct {
	Dir string
}

func (e *OutputDirError) Error() string {
	return "output directory not found: " + e.Dir
}

type IndexOutOfBoundsError struct {
	Index int
	Total int
}

func (e *IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds (1-%d)", e.Index, e.Total)
}

// DownloadError is a failed asset fetch, carrying the upstream status.
type DownloadError struct {
	URL    string
	Status int
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed (status %d): %s", e.Status, e.URL)
}

// UploadError is a failed PUT to a signed upload target.
type UploadError struct {
	Status int
	Body   string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed (status %d): %s", e.Status, e.Body)
}
