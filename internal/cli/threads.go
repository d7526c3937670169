package cli

import (
	"context"
	"fmt"
	"sort"

	"braid/internal/model"

	"github.com/spf13/cobra"
)

func newThreadsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threads",
		Short: "Manage threads (open/close node pairs)",
	}
	cmd.AddCommand(newThreadsListCmd(app))
	cmd.AddCommand(newThreadsCreateCmd(app))
	cmd.AddCommand(newThreadsStartCmd(app))
	cmd.AddCommand(newThreadsCompleteCmd(app))
	cmd.AddCommand(newThreadsDeleteCmd(app))
	return cmd
}

type threadRow struct {
	ThreadID  string         `json:"threadId"`
	Type      model.NodeType `json:"type"`
	Title     string         `json:"title"`
	OpenSlot  int            `json:"openSlot"`
	CloseSlot *int           `json:"closeSlot,omitempty"`
	Container *string        `json:"containerId,omitempty"`
}

func threadRows(snap *model.Snapshot) []threadRow {
	byID := map[string]*threadRow{}
	var order []string
	for _, n := range snap.Nodes {
		row, ok := byID[n.ThreadID]
		if !ok {
			row = &threadRow{ThreadID: n.ThreadID, Type: n.Type, OpenSlot: -1}
			byID[n.ThreadID] = row
			order = append(order, n.ThreadID)
		}
		switch n.Role {
		case model.NodeRoleOpen:
			row.OpenSlot = n.Slot
			row.Title = n.Title
			row.Container = n.ContainerID
		case model.NodeRoleClose:
			s := n.Slot
			row.CloseSlot = &s
		}
	}
	out := make([]threadRow, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenSlot < out[j].OpenSlot })
	return out
}

func newThreadsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List threads ordered by open slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			return writeOut(cmd, app, map[string]any{
				"data": threadRows(b.Snapshot()),
			})
		},
	}
}

func parseTypeFlag(typ string) (model.NodeType, error) {
	t, ok := model.ParseNodeType(typ)
	if !ok {
		return "", fmt.Errorf("invalid thread type %q (expected milieu|idea|character|event)", typ)
	}
	return t, nil
}

func newThreadsCreateCmd(app *App) *cobra.Command {
	var typ, title string
	var at int
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a thread directly (open and close in one step)",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTypeFlag(typ)
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			open, cls, err := b.CreateThread(context.Background(), t, at, title)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"open": open, "close": cls},
			})
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "MICE type (milieu|idea|character|event)")
	cmd.Flags().StringVar(&title, "title", "", "Thread title")
	cmd.Flags().IntVar(&at, "at", 0, "Insert position for the open node")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newThreadsStartCmd(app *App) *cobra.Command {
	var typ, title string
	var at int
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a thread (step 1: place the open node only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTypeFlag(typ)
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			open, err := b.StartThread(context.Background(), t, at, title)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": open})
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "MICE type (milieu|idea|character|event)")
	cmd.Flags().StringVar(&title, "title", "", "Thread title")
	cmd.Flags().IntVar(&at, "at", 0, "Insert position for the open node")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newThreadsCompleteCmd(app *App) *cobra.Command {
	var at int
	cmd := &cobra.Command{
		Use:   "complete <open-node-id>",
		Short: "Complete a thread (step 2: place the close node)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			cls, err := b.CompleteThread(context.Background(), args[0], at)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cls})
		},
	}
	cmd.Flags().IntVar(&at, "at", 0, "Insert position for the close node")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func newThreadsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <thread-id>",
		Short: "Delete a thread (both nodes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			if err := b.DeleteThread(context.Background(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"deleted": args[0]},
			})
		},
	}
}
