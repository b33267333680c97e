package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newWatchCmd(app *App) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:     "watch",
		Short:   "Poll the server and report connectivity changes",
		GroupID: "management",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interval <= 0 {
				return fmt.Errorf("interval must be positive")
			}
			ctx := cmd.Context()
			c := app.client()

			var (
				known bool
				up    bool
			)
			check := func() {
				err := c.Ping(ctx)
				now := err == nil
				if known && now == up {
					return
				}
				known, up = true, now
				stamp := time.Now().Format(time.RFC3339)
				if up {
					fmt.Fprintf(app.Out, "%s connected to %s\n", stamp, app.settings.BaseURL())
				} else {
					fmt.Fprintf(app.Out, "%s disconnected: %v\n", stamp, err)
				}
			}

			check()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					check()
				}
			}
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "poll interval")
	return cmd
}
