package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/lnrcli/lnr/internal/linear"
)

func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, linear.ErrUnauthorized) || errors.Is(err, linear.ErrMissingAPIKey) {
		return 3
	}
	if linear.IsNotFound(err) {
		return 4
	}
	if errors.Is(err, linear.ErrRateLimited) {
		return 5
	}
	var index *linear.IndexOutOfBoundsError
	if errors.As(err, &index) {
		return 2
	}
	var outputDir *linear.OutputDirError
	if errors.As(err, &outputDir) {
		return 2
	}
	return 1
}

// printErrorChain writes the error and, in verbose mode, every cause down the
// Unwrap chain on its own line.
func printErrorChain(w io.Writer, err error, verbose bool) {
	if err == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "%v\n", err)
	if !verbose {
		return
	}
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		_, _ = fmt.Fprintf(w, "  caused by: %v\n", cause)
	}
}
