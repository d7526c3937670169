package cli

import (
	"context"
	"strings"

	"braid/internal/board"

	"github.com/spf13/cobra"
)

func newContainersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "containers",
		Short: "Manage containers (scenes/acts)",
	}
	cmd.AddCommand(newContainersListCmd(app))
	cmd.AddCommand(newContainersShowCmd(app))
	cmd.AddCommand(newContainersCreateCmd(app))
	cmd.AddCommand(newContainersRenameCmd(app))
	cmd.AddCommand(newContainersDeleteCmd(app))
	return cmd
}

func newContainersListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List containers ordered by start slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			return writeOut(cmd, app, map[string]any{
				"data": b.Snapshot().Containers,
			})
		},
	}
}

func newContainersShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <container-id>",
		Short: "Show one container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			c, ok := b.Snapshot().FindContainer(args[0])
			if !ok {
				return writeErr(cmd, board.NotFoundError{Kind: "container", ID: args[0]})
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}
}

func newContainersCreateCmd(app *App) *cobra.Command {
	var title string
	var at, end int
	var parent string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a container from two insert positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			var parentID *string
			if p := strings.TrimSpace(parent); p != "" {
				parentID = &p
			}
			c, err := b.AddContainer(context.Background(), title, at, end, parentID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Container title")
	cmd.Flags().IntVar(&at, "at", 0, "First insert position (clicked slot)")
	cmd.Flags().IntVar(&end, "end", 0, "Second insert position (defaults to --at)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent container id")
	return cmd
}

func newContainersRenameCmd(app *App) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "rename <container-id>",
		Short: "Rename a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			if err := b.UpdateContainerTitle(context.Background(), args[0], title); err != nil {
				return writeErr(cmd, err)
			}
			c, _ := b.Snapshot().FindContainer(args[0])
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newContainersDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <container-id>",
		Short: "Delete a container with its subtree and member threads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			if err := b.DeleteContainer(context.Background(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"deleted": args[0]},
			})
		},
	}
}
