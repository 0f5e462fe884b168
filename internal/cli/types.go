package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lnrcli/lnr/internal/auth"
	"github.com/lnrcli/lnr/internal/config"
	"github.com/lnrcli/lnr/internal/linear"
)

type Dependencies struct {
	In        io.Reader
	Out       io.Writer
	Err       io.Writer
	Now       func() time.Time
	AuthStore *auth.Store
	Config    config.Config
	NewClient func(token string, timeout time.Duration) *linear.Client
	TeamCache linear.TeamCache
	SaveCache func() error
}

type GlobalOptions struct {
	Format  Format        `short:"o" help:"Output format (table, json, compact)" enum:"table,json,compact" default:"table"`
	JSON    bool          `help:"Output JSON (alias for --format json)"`
	NoColor bool          `name:"no-color" help:"Disable color output"`
	Quiet   bool          `short:"q" help:"Suppress non-essential output"`
	Verbose bool          `short:"v" help:"Enable verbose diagnostics"`
	NoInput bool          `name:"no-input" help:"Disable interactive prompts"`
	Timeout time.Duration `help:"API request timeout" default:"10s"`
	APIKey  string        `name:"api-key" help:"Linear API key (overrides env and stored auth)"`
}

// EffectiveFormat folds the legacy --json alias into the format flag.
func (g *GlobalOptions) EffectiveFormat() Format {
	if g.JSON {
		return FormatJSON
	}
	return g.Format
}

type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit %d", e.Code)
	}
	return e.Err.Error()
}

func (e ExitError) Unwrap() error { return e.Err }

func exitError(code int, err error) error {
	if err == nil {
		return ExitError{Code: code, Err: errors.New("unknown error")}
	}
	return ExitError{Code: code, Err: err}
}

// apiError wraps a client error with its mapped exit code.
func apiError(err error) error {
	return exitError(mapErrorToExitCode(err), err)
}
