package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/lnrcli/lnr/internal/auth"
	"github.com/lnrcli/lnr/internal/cache"
	"github.com/lnrcli/lnr/internal/config"
	"github.com/lnrcli/lnr/internal/linear"
)

func Execute() int {
	return Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func Run(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	storePath, err := auth.DefaultStorePath()
	if err != nil {
		_, _ = errOut.Write([]byte(err.Error() + "\n"))
		return 1
	}

	cfg := config.Config{}
	if cfgPath, err := config.DefaultPath(); err == nil {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			_, _ = errOut.Write([]byte(err.Error() + "\n"))
			return 1
		}
		cfg = loaded
	}

	deps := Dependencies{
		In:        in,
		Out:       out,
		Err:       errOut,
		Now:       time.Now,
		AuthStore: auth.NewStore(storePath),
		Config:    cfg,
		NewClient: linear.NewClient,
	}
	if cachePath, err := cache.DefaultPath(); err == nil {
		store := cache.Load(cachePath, time.Now)
		deps.TeamCache = store
		deps.SaveCache = store.Save
	}

	return ExecuteWith(deps, args)
}

func ExecuteWith(deps Dependencies, args []string) (code int) {
	cli := &CLI{}

	parser, err := kong.New(
		cli,
		kong.Name("lnr"),
		kong.Description("Manage Linear issues from the terminal"),
		kong.Vars(kong.Vars{
			"version": VersionOutput(),
		}),
		kong.Writers(deps.Out, deps.Err),
		kong.Exit(func(code int) { panic(exitPanic{Code: code}) }),
	)
	if err != nil {
		_, _ = deps.Err.Write([]byte(err.Error() + "\n"))
		return 1
	}

	defer func() {
		if r := recover(); r != nil {
			if exit := parseExitPanic(r); exit != nil {
				code = exit.Code
				return
			}
			panic(r)
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		return handleExit(deps, cli, wrapParseError(err))
	}

	kctx.BindTo(context.Background(), (*context.Context)(nil))
	kctx.Bind(&commandContext{deps: deps, global: &cli.GlobalOptions})

	if err := kctx.Run(); err != nil {
		return handleExit(deps, cli, err)
	}
	return 0
}

type exitPanic struct {
	Code int
}

func parseExitPanic(val any) *exitPanic {
	switch cast := val.(type) {
	case exitPanic:
		return &cast
	case *exitPanic:
		return cast
	default:
		return nil
	}
}

func wrapParseError(err error) error {
	if err == nil {
		return nil
	}
	var parseErr *kong.ParseError
	if errors.As(err, &parseErr) {
		return exitError(2, parseErr)
	}
	return err
}

func handleExit(deps Dependencies, cli *CLI, err error) int {
	if err == nil {
		return 0
	}
	var exitErr ExitError
	if errors.As(err, &exitErr) {
		printErrorChain(deps.Err, exitErr.Err, cli.Verbose)
		return exitErr.Code
	}
	printErrorChain(deps.Err, err, cli.Verbose)
	return 1
}
