package cli

import (
	"fmt"

	"github.com/joemans3/TandemLaunch-Scouting-DB/config"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/auth"
	"github.com/spf13/cobra"
)

// newTokenCmd mints a write token with the server's JWT_SECRET, so it must
// run where the server environment is available.
func newTokenCmd(app *App) *cobra.Command {
	var (
		subject string
		save    bool
	)

	cmd := &cobra.Command{
		Use:     "token",
		Short:   "Mint a write token from the server's JWT secret",
		GroupID: "management",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadENV(); err != nil {
				return err
			}
			cfg, err := config.Get()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}

			manager := auth.NewJWTManager(auth.JWTConfig{
				Secret: cfg.JWTSecret,
				Expiry: cfg.JWTExpiry,
				Issuer: cfg.JWTIssuer,
			})
			token, jti, err := manager.GenerateWriteToken(subject)
			if err != nil {
				return err
			}
			app.Log.Info("Minted write token", "subject", subject, "jti", jti)

			if save {
				s := app.settings
				s.Token = token
				if err := config.SaveClientSettings(app.SettingsPath, s); err != nil {
					return err
				}
				app.settings = s
				fmt.Fprintf(app.Out, "token saved to %s\n", app.SettingsPath)
				return nil
			}
			fmt.Fprintln(app.Out, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "cli", "token subject")
	cmd.Flags().BoolVar(&save, "save", false, "store the token in settings.toml")
	return cmd
}
