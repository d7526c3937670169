package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the board mutation journal",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List journal entries (oldest first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			evs, err := b.Events(context.Background(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": evs})
		},
	}
	list.Flags().IntVar(&limit, "limit", 0, "Only the newest N entries (0 = all)")
	cmd.AddCommand(list)
	return cmd
}
