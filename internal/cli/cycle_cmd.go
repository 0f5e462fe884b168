package cli

import (
	"context"
	"fmt"
	"strconv"
)

type CycleCmd struct {
	List CycleListCmd `cmd:"" help:"List cycles for a team"`
	View CycleViewCmd `cmd:"" help:"View cycle details"`
}

type CycleListCmd struct {
	Team    string `help:"Team key"`
	Current bool   `help:"Only show the active cycle"`
	Limit   int    `help:"Maximum number of cycles" default:"20"`
	All     bool   `help:"Fetch every page"`
}

type CycleViewCmd struct {
	CycleID string `arg:"" name:"cycle-id" help:"Cycle ID"`
}

func (c *CycleListCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	team, err := cmdCtx.requireTeam(c.Team)
	if err != nil {
		return err
	}
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}

	cycles, err := client.Cycles(ctx, team, c.Current, c.Limit, c.All)
	if err != nil {
		return apiError(err)
	}

	out := outputFor(cmdCtx)
	rows := make([][]string, 0, len(cycles))
	compact := make([]string, 0, len(cycles))
	for _, cycle := range cycles {
		rows = append(rows, []string{
			strconv.Itoa(cycle.Number), cycle.Name, cycle.StartsAt, cycle.EndsAt, strconv.FormatBool(cycle.IsActive), cycle.ID,
		})
		compact = append(compact, fmt.Sprintf("%d %s", cycle.Number, cycle.Name))
	}
	return out.Collection(cycles, []string{"Number", "Name", "Starts", "Ends", "Active", "ID"}, rows, compact)
}

func (c *CycleViewCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}

	cycle, err := client.Cycle(ctx, c.CycleID)
	if err != nil {
		return apiError(err)
	}

	out := outputFor(cmdCtx)
	return out.Single(cycle,
		[]string{"Number", "Name", "Starts", "Ends", "Active", "ID"},
		[]string{strconv.Itoa(cycle.Number), cycle.Name, cycle.StartsAt, cycle.EndsAt, strconv.FormatBool(cycle.IsActive), cycle.ID},
		fmt.Sprintf("%d %s", cycle.Number, cycle.Name))
}
