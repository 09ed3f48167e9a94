package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

// newTable returns a writer preconfigured for terminal output.
func newTable(headers ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row(headers))
	return t
}
