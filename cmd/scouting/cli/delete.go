package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/joemans3/TandemLaunch-Scouting-DB/services/reconcile"
	"github.com/spf13/cobra"
)

func newDeleteCmd(app *App) *cobra.Command {
	var (
		index int
		yes   bool
	)

	cmd := &cobra.Command{
		Use:     "delete <query>",
		Short:   "Delete the contacts of a catalog row",
		Long:    "Delete the department head and admin of the selected row. The university and department stay.",
		GroupID: "catalog",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := app.pickRow(cmd, args[0], index)
			if err != nil {
				return err
			}

			if !yes {
				fmt.Fprintf(app.Out, "Delete contacts of %s / %s? [y/N] ", row.UniversityName, row.DepartmentName)
				answer, _ := bufio.NewReader(app.In).ReadString('\n')
				if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
					fmt.Fprintln(app.Out, "aborted")
					return nil
				}
			}

			result := reconcile.NewEngine(app.client(), app.Log).Delete(cmd.Context(), row)
			fmt.Fprintln(app.Out, result.Message())
			if !result.Success {
				return errors.Join(result.Errors...)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&index, "index", -1, "row number from the search output")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
