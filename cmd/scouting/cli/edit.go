package cli

import (
	"fmt"
	"strings"

	"github.com/joemans3/TandemLaunch-Scouting-DB/services"
	"github.com/joemans3/TandemLaunch-Scouting-DB/services/reconcile"
	"github.com/spf13/cobra"
)

// submissionFromRow is the edit baseline: flags that are not given keep these values
func submissionFromRow(row services.SearchRow) reconcile.Submission {
	return reconcile.Submission{
		UniversityName: row.UniversityName,
		DepartmentName: row.DepartmentName,
		HeadName:       row.DepartmentHeadName,
		HeadEmail:      row.DepartmentHeadEmail,
		AdminName:      row.AdminName,
		AdminEmail:     row.AdminEmail,
	}
}

func newEditCmd(app *App) *cobra.Command {
	var (
		flags reconcile.Submission
		index int
	)

	cmd := &cobra.Command{
		Use:     "edit <query>",
		Short:   "Edit a catalog row",
		Long:    "Edit the row selected by query and --index. Only the given flags change.",
		GroupID: "catalog",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := app.pickRow(cmd, args[0], index)
			if err != nil {
				return err
			}

			next := submissionFromRow(row)
			set := func(name string, dst *string, value string) {
				if cmd.Flags().Changed(name) {
					*dst = value
				}
			}
			set("university", &next.UniversityName, flags.UniversityName)
			set("department", &next.DepartmentName, flags.DepartmentName)
			set("head-name", &next.HeadName, flags.HeadName)
			set("head-email", &next.HeadEmail, flags.HeadEmail)
			set("admin-name", &next.AdminName, flags.AdminName)
			set("admin-email", &next.AdminEmail, flags.AdminEmail)

			engine := reconcile.NewEngine(app.client(), app.Log)
			result, err := engine.Update(cmd.Context(), row, next)
			if err != nil {
				return err
			}

			fmt.Fprintln(app.Out, result.Message())
			if len(result.Failed) > 0 {
				return fmt.Errorf("failed to update %s", strings.Join(result.Failed, ", "))
			}
			return nil
		},
	}
	bindSubmissionFlags(cmd, &flags)
	cmd.Flags().IntVar(&index, "index", -1, "row number from the search output")
	return cmd
}
