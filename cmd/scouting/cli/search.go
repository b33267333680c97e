package cli

import (
	"fmt"

	"github.com/joemans3/TandemLaunch-Scouting-DB/services"
	"github.com/spf13/cobra"
)

func newSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "search [query]",
		Short:   "Search the catalog",
		Long:    "Search universities, departments and contacts. An empty query lists the most recent rows.",
		GroupID: "catalog",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := ""
			if len(args) == 1 {
				term = args[0]
			}
			rows, err := app.client().Search(cmd.Context(), term)
			if err != nil {
				return err
			}
			return app.printRows(rows)
		},
	}
}

// pickRow searches for query and returns the row at index. When index is
// negative the query must match exactly one row.
func (a *App) pickRow(cmd *cobra.Command, query string, index int) (services.SearchRow, error) {
	rows, err := a.client().Search(cmd.Context(), query)
	if err != nil {
		return services.SearchRow{}, err
	}
	switch {
	case len(rows) == 0:
		return services.SearchRow{}, fmt.Errorf("no rows match %q", query)
	case index < 0 && len(rows) == 1:
		return rows[0], nil
	case index < 0:
		if err := a.printRows(rows); err != nil {
			return services.SearchRow{}, err
		}
		return services.SearchRow{}, fmt.Errorf("%d rows match %q, pick one with --index", len(rows), query)
	case index >= len(rows):
		return services.SearchRow{}, fmt.Errorf("index %d out of range, %d rows match %q", index, len(rows), query)
	}
	return rows[index], nil
}
