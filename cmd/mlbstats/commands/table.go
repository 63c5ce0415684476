package commands

import (
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
