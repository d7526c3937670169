package cli

import (
	"fmt"

	"braid/internal/web"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve a read-only board endpoint (JSON + SVG)",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			if addr == "" {
				addr = app.Config.WebAddr
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "serving board on http://%s\n", addr)
			return web.NewServer(b).ListenAndServe(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
