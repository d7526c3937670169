package cli

import (
	"context"

	"braid/internal/board"

	"github.com/spf13/cobra"
)

func newNodesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "Manage individual nodes",
	}
	cmd.AddCommand(newNodesListCmd(app))
	cmd.AddCommand(newNodesShowCmd(app))
	cmd.AddCommand(newNodesSetTitleCmd(app))
	cmd.AddCommand(newNodesSetDescriptionCmd(app))
	cmd.AddCommand(newNodesDeleteCmd(app))
	return cmd
}

func newNodesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List nodes ordered by slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			return writeOut(cmd, app, map[string]any{
				"data": b.Snapshot().Nodes,
			})
		},
	}
}

func newNodesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <node-id>",
		Short: "Show one node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			n, ok := b.Snapshot().FindNode(args[0])
			if !ok {
				return writeErr(cmd, board.NotFoundError{Kind: "node", ID: args[0]})
			}
			return writeOut(cmd, app, map[string]any{"data": n})
		},
	}
}

func newNodesSetTitleCmd(app *App) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "set-title <node-id>",
		Short: "Set a node's title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			if err := b.UpdateNode(context.Background(), args[0], &title, nil); err != nil {
				return writeErr(cmd, err)
			}
			n, _ := b.Snapshot().FindNode(args[0])
			return writeOut(cmd, app, map[string]any{"data": n})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newNodesSetDescriptionCmd(app *App) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "set-description <node-id>",
		Short: "Set a node's description (markdown)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			if err := b.UpdateNode(context.Background(), args[0], nil, &description); err != nil {
				return writeErr(cmd, err)
			}
			n, _ := b.Snapshot().FindNode(args[0])
			return writeOut(cmd, app, map[string]any{"data": n})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "New description")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newNodesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <node-id>",
		Short: "Delete a single node (cancels an incomplete thread)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			if err := b.DeleteNode(context.Background(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"deleted": args[0]},
			})
		},
	}
}
