package cli

import "github.com/alecthomas/kong"

type CLI struct {
	GlobalOptions `embed:""`

	Version kong.VersionFlag `help:"Print version and exit"`

	Auth    AuthCmd    `cmd:"" help:"Manage authentication"`
	Whoami  WhoamiCmd  `cmd:"" help:"Show current Linear user"`
	Team    TeamCmd    `cmd:"" help:"Manage teams"`
	Project ProjectCmd `cmd:"" help:"Manage projects"`
	Cycle   CycleCmd   `cmd:"" help:"Manage cycles"`
	Label   LabelCmd   `cmd:"" help:"Manage labels"`
	Issue   IssueCmd   `cmd:"" help:"Manage issues"`
}

func outputFor(ctx *commandContext) output {
	return output{
		Out:    ctx.deps.Out,
		Format: ctx.global.EffectiveFormat(),
		Quiet:  ctx.global.Quiet,
		Color:  !ctx.global.NoColor,
	}
}
