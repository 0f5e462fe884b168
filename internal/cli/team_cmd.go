package cli

import (
	"context"
	"fmt"
)

type TeamCmd struct {
	List TeamListCmd `cmd:"" help:"List teams"`
}

type TeamListCmd struct{}

func (c *TeamListCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	teams, err := client.Teams(ctx)
	if err != nil {
		return apiError(err)
	}

	out := outputFor(cmdCtx)
	rows := make([][]string, 0, len(teams))
	compact := make([]string, 0, len(teams))
	for _, team := range teams {
		rows = append(rows, []string{team.Key, team.Name, team.ID})
		compact = append(compact, fmt.Sprintf("%s %s", team.Key, team.Name))
	}
	return out.Collection(teams, []string{"Key", "Name", "ID"}, rows, compact)
}
