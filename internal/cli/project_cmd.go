package cli

import (
	"context"
	"fmt"
)

type ProjectCmd struct {
	List ProjectListCmd `cmd:"" help:"List projects"`
}

type ProjectListCmd struct {
	Team string `help:"Team key"`
}

func (c *ProjectListCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	projects, err := client.Projects(ctx, cmdCtx.resolveTeam(c.Team))
	if err != nil {
		return apiError(err)
	}

	out := outputFor(cmdCtx)
	rows := make([][]string, 0, len(projects))
	compact := make([]string, 0, len(projects))
	for _, project := range projects {
		rows = append(rows, []string{project.Name, project.State, project.ID})
		compact = append(compact, fmt.Sprintf("%s %s", project.Name, project.State))
	}
	return out.Collection(projects, []string{"Name", "State", "ID"}, rows, compact)
}
