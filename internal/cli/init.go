package cli

import (
	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a braid workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir": app.Dir,
				},
			})
		},
	}
	return cmd
}
