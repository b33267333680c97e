package cli

import (
	"fmt"
	"strconv"

	"github.com/joemans3/TandemLaunch-Scouting-DB/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Show or change client settings",
		GroupID: "management",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := app.settings
			token := "(none)"
			if s.Token != "" {
				token = "(set)"
			}
			fmt.Fprintf(app.Out, "file:  %s\nhost:  %s\nport:  %d\ntoken: %s\n", app.SettingsPath, s.Host, s.Port, token)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change one setting (host, port or token)",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"host", "port", "token"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.settings
			switch args[0] {
			case "host":
				s.Host = args[1]
			case "port":
				port, err := strconv.Atoi(args[1])
				if err != nil || port <= 0 || port > 65535 {
					return fmt.Errorf("invalid port %q", args[1])
				}
				s.Port = port
			case "token":
				s.Token = args[1]
			default:
				return fmt.Errorf("unknown setting %q", args[0])
			}
			if err := config.SaveClientSettings(app.SettingsPath, s); err != nil {
				return err
			}
			app.settings = s
			fmt.Fprintf(app.Out, "%s updated in %s\n", args[0], app.SettingsPath)
			return nil
		},
	})
	return cmd
}
