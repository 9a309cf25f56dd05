package styled

import (
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// NewTableWriter returns a new table.Writer with the sweepbench styles.
// Colors are only applied when color output is enabled.
func NewTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	if !color.NoColor {
		tw.Style().Color.Header = text.Colors{text.FgCyan, text.Bold}
		tw.Style().Color.Footer = text.Colors{text.FgCyan, text.Bold}
	}

	return tw
}
