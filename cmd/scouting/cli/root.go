// Package cli implements the scouting command line client.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joemans3/TandemLaunch-Scouting-DB/client"
	"github.com/joemans3/TandemLaunch-Scouting-DB/config"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"github.com/spf13/cobra"
)

// App carries what every command needs. Tests replace NewClient to route
// requests into an in-process server.
type App struct {
	SettingsPath string
	Output       string
	Out          io.Writer
	Err          io.Writer
	In           io.Reader
	NewClient    func(config.ClientSettings) *client.Client
	Log          *utils.Logger

	settings config.ClientSettings
}

func (a *App) client() *client.Client {
	return a.NewClient(a.settings)
}

// NewRootCmd builds the command tree bound to app
func NewRootCmd(app *App) *cobra.Command {
	if app.NewClient == nil {
		app.NewClient = func(s config.ClientSettings) *client.Client { return client.New(s) }
	}
	if app.Log == nil {
		app.Log = utils.NewNopLogger()
	}

	root := &cobra.Command{
		Use:   "scouting",
		Short: "Scouting catalog client",
		Long: `scouting searches and edits the university / department / contact
catalog served by the scouting API.

Connection settings are read from settings.toml; see "scouting config".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.LoadClientSettings(app.SettingsPath)
			if err != nil {
				return err
			}
			app.settings = settings
			return nil
		},
	}
	root.SetOut(app.Out)
	root.SetErr(app.Err)
	root.SetIn(app.In)

	root.PersistentFlags().StringVar(&app.SettingsPath, "config", config.DefaultSettingsPath(), "path to settings.toml")
	root.PersistentFlags().StringVarP(&app.Output, "output", "o", "", "output format: table or json (default: table on a terminal)")

	root.AddGroup(
		&cobra.Group{ID: "catalog", Title: "Catalog Commands:"},
		&cobra.Group{ID: "management", Title: "Management Commands:"},
	)

	root.AddCommand(
		newSearchCmd(app),
		newAddCmd(app),
		newEditCmd(app),
		newDeleteCmd(app),
		newPingCmd(app),
		newWatchCmd(app),
		newConfigCmd(app),
		newTokenCmd(app),
	)
	return root
}

// Execute runs the CLI with signal handling and exits non-zero on failure
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := &App{Out: os.Stdout, Err: os.Stderr, In: os.Stdin}
	if err := NewRootCmd(app).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
