package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/rediwo/redi-pgconf/connstr"
)

// renderParameters prints d as a two-column table in insertion order.
func renderParameters(w io.Writer, d *connstr.Descriptor) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Parameter", "Value"})
	d.Range(func(key, value string) bool {
		note := ""
		if !connstr.IsKnownParameter(key) {
			note = " (unknown)"
		}
		table.Append([]string{key + note, value})
		return true
	})
	table.Render()
}

// renderRows prints query results with columns in sorted order, since
// rows come back as maps.
func renderRows(w io.Writer, rows []map[string]any) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	columnSet := make(map[string]struct{})
	for _, row := range rows {
		for col := range row {
			columnSet[col] = struct{}{}
		}
	}
	columns := make([]string, 0, len(columnSet))
	for col := range columnSet {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	table := tablewriter.NewWriter(w)
	table.SetHeader(columns)
	for _, row := range rows {
		line := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := row[col]; ok && v != nil {
				line[i] = fmt.Sprint(v)
			} else {
				line[i] = "NULL"
			}
		}
		table.Append(line)
	}
	table.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

// statementArgs passes command-line arguments through as text; the server
// casts them to the parameter types. A bare NULL becomes a SQL NULL.
func statementArgs(args []string) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if a == "NULL" {
			out[i] = nil
		} else {
			out[i] = a
		}
	}
	return out
}
