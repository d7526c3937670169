package cli

import (
	"context"

	"braid/internal/seed"

	"github.com/spf13/cobra"
)

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.toml>",
		Short: "Build a board from a declarative TOML seed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := seed.Load(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			ids, err := seed.Apply(context.Background(), b, doc)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"containers": ids,
					"status":     b.Status(),
				},
			})
		},
	}
}
