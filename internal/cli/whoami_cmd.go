package cli

import (
	"context"
	"fmt"
)

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx context.Context, cmdCtx *commandContext) error {
	client, err := cmdCtx.apiClient()
	if err != nil {
		return exitError(3, err)
	}
	user, err := client.Viewer(ctx)
	if err != nil {
		return apiError(err)
	}

	out := outputFor(cmdCtx)
	return out.Single(user,
		[]string{"ID", "Name", "Email"},
		[]string{user.ID, user.Name, user.Email},
		fmt.Sprintf("%s %s", user.Name, user.Email))
}
