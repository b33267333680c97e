package cli

import (
	"fmt"

	"github.com/joemans3/TandemLaunch-Scouting-DB/services/reconcile"
	"github.com/spf13/cobra"
)

func bindSubmissionFlags(cmd *cobra.Command, s *reconcile.Submission) {
	f := cmd.Flags()
	f.StringVar(&s.UniversityName, "university", "", "university name")
	f.StringVar(&s.DepartmentName, "department", "", "department name")
	f.StringVar(&s.HeadName, "head-name", "", "department head name")
	f.StringVar(&s.HeadEmail, "head-email", "", "department head email")
	f.StringVar(&s.AdminName, "admin-name", "", "admin name")
	f.StringVar(&s.AdminEmail, "admin-email", "", "admin email")
}

func newAddCmd(app *App) *cobra.Command {
	var sub reconcile.Submission

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a university / department / contact bundle",
		Example: `  scouting add --university "McGill University" --department Physics \
    --head-name "Ada Fischer" --head-email ada@mcgill.example`,
		GroupID: "catalog",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine := reconcile.NewEngine(app.client(), app.Log)
			result, err := engine.Create(cmd.Context(), sub)
			if err != nil {
				return err
			}

			format, err := app.format()
			if err != nil {
				return err
			}
			if format == formatJSON {
				return writeJSON(app.Out, result)
			}
			fmt.Fprintf(app.Out, "Added university %d, department %d\n", result.UniversityID, result.DepartmentID)
			if !result.Complete {
				fmt.Fprintln(app.Out, "Warning: some contacts could not be added")
			}
			return nil
		},
	}
	bindSubmissionFlags(cmd, &sub)
	_ = cmd.MarkFlagRequired("university")
	_ = cmd.MarkFlagRequired("department")
	return cmd
}
