package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newPingCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "ping",
		Short:   "Check that the server is reachable",
		GroupID: "management",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start := time.Now()
			if err := app.client().Ping(cmd.Context()); err != nil {
				return fmt.Errorf("%s is not reachable: %w", app.settings.BaseURL(), err)
			}
			fmt.Fprintf(app.Out, "%s is up (%s)\n", app.settings.BaseURL(), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}
