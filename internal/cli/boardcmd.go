package cli

import (
	"context"

	"braid/internal/export"

	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Inspect and maintain the board",
	}
	cmd.AddCommand(newBoardShowCmd(app))
	cmd.AddCommand(newBoardCompactCmd(app))
	return cmd
}

func newBoardShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the full board snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			return writeOut(cmd, app, map[string]any{
				"data": export.NewDocument(b.Snapshot()),
			})
		},
	}
}

func newBoardCompactCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "compact",
		Short: "Renormalize slots to a contiguous 0..N-1 range",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			changed, err := b.Renormalize(context.Background())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"changed": changed},
			})
		},
	}
}
