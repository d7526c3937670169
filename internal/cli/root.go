package cli

import (
	"context"
	"fmt"
	"strings"

	"braid/internal/board"
	"braid/internal/config"
	"braid/internal/format"
	"braid/internal/store"
	"braid/internal/tui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type App struct {
	Dir        string
	Format     string
	PrettyJSON bool

	Config config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "braid",
		Short:        "braid is a slot-timeline story structure board (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board TUI
  braid

  # Scriptable commands
  braid status
  braid threads create --type idea --at 0 --title "the letter"
  braid export --format svg -o board.svg
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cobra.OnInitialize(config.Init)

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		app.Config = config.Load()
		if app.Dir == "" {
			app.Dir = app.Config.Dir
		}
		if app.Format == "" {
			app.Format = app.Config.Format
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Path to the workspace dir (default: discovered .braid/)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "", "Output format (json|yaml)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	_ = viper.BindPFlag("dir", cmd.PersistentFlags().Lookup("dir"))
	_ = viper.BindPFlag("format", cmd.PersistentFlags().Lookup("format"))

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newContainersCmd(app))
	cmd.AddCommand(newThreadsCmd(app))
	cmd.AddCommand(newNodesCmd(app))
	cmd.AddCommand(newBoardCmd(app))
	cmd.AddCommand(newSeedCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newWebCmd(app))

	return cmd
}

func runTUI(app *App) error {
	b, err := openBoard(app)
	if err != nil {
		return err
	}
	defer b.Close()
	return tui.Run(b, app.Config)
}

func workspaceDir(app *App) (string, error) {
	if app.Dir != "" {
		return app.Dir, nil
	}
	return store.DefaultDir()
}

func openBoard(app *App) (*board.Board, error) {
	dir, err := workspaceDir(app)
	if err != nil {
		return nil, err
	}
	app.Dir = dir
	return board.Open(context.Background(), store.Store{Dir: dir})
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
