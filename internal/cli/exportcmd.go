package cli

import (
	"fmt"
	"os"

	"braid/internal/export"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var formatFlag, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the board (svg|yaml|json)",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()
			snap := b.Snapshot()

			var raw []byte
			switch formatFlag {
			case "svg":
				raw = []byte(export.SVG(snap, export.SVGOptions{}))
			case "yaml":
				raw, err = export.YAML(snap)
			case "", "json":
				raw, err = export.JSON(snap)
			default:
				err = fmt.Errorf("unknown export format: %s", formatFlag)
			}
			if err != nil {
				return writeErr(cmd, err)
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(raw)
				return err
			}
			if err := os.WriteFile(out, raw, 0o644); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"path": out, "bytes": len(raw)},
			})
		},
	}
	cmd.Flags().StringVar(&formatFlag, "format", "json", "Export format (svg|yaml|json)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
