package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joemans3/TandemLaunch-Scouting-DB/services"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// format resolves the output flag; an unset flag means table on a terminal, JSON otherwise
func (a *App) format() (string, error) {
	switch strings.ToLower(a.Output) {
	case formatTable:
		return formatTable, nil
	case formatJSON:
		return formatJSON, nil
	case "":
		if f, ok := a.Out.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			return formatTable, nil
		}
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q", a.Output)
	}
}

var rowHeaders = []any{"#", "University", "Department", "Head", "Head Email", "Admin", "Admin Email"}

func (a *App) printRows(rows []services.SearchRow) error {
	format, err := a.format()
	if err != nil {
		return err
	}
	if format == formatJSON {
		return writeJSON(a.Out, rows)
	}

	table := tablewriter.NewTable(a.Out)
	table.Header(rowHeaders...)
	for i, r := range rows {
		if err := table.Append(i, r.UniversityName, r.DepartmentName,
			r.DepartmentHeadName, r.DepartmentHeadEmail, r.AdminName, r.AdminEmail); err != nil {
			return err
		}
	}
	return table.Render()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
