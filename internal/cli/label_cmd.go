package cli

import "context"

type LabelCmd struct {
	List LabelListCmd `cmd:"" help:"List labels"`
}

type LabelListCmd struct {
	Team string `help:"Team key"`
}

func (c *LabelListCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	labels, err := client.Labels(ctx, cmdCtx.resolveTeam(c.Team))
	if err != nil {
		return apiError(err)
	}

	out := outputFor(cmdCtx)
	rows := make([][]string, 0, len(labels))
	compact := make([]string, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, []string{label.Name, label.Description, label.ID})
		compact = append(compact, label.Name)
	}
	return out.Collection(labels, []string{"Name", "Description", "ID"}, rows, compact)
}
