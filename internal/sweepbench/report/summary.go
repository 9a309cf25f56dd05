// Package report prints the outcome of a sweep for humans.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nsqlite/sweepbench/internal/sweepbench/styled"
	"github.com/nsqlite/sweepbench/internal/sweepbench/sweep"
	"github.com/nsqlite/sweepbench/internal/util/numutil"
)

// Summary writes a table with one row per variant and thread count.
// Speedup is relative to the single thread result of the same variant.
func Summary(w io.Writer, results []sweep.AggregateResult) error {
	if len(results) == 0 {
		return errors.New("no results to report")
	}

	base := baselines(results)

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Variant", "Threads", "Runs", "Ops / ms", "Speedup"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	totalRuns := 0
	for i, r := range results {
		if i > 0 && results[i-1].Variant != r.Variant {
			tw.AppendSeparator()
		}
		tw.AppendRow(table.Row{
			r.Variant.Value,
			r.Threads,
			r.Runs,
			fmt.Sprintf("%.3f", r.OpsPerMs),
			formatSpeedup(r.OpsPerMs, base[r.Variant.Value]),
		})
		totalRuns += r.Runs
	}

	tw.AppendFooter(table.Row{"Invocations", "", numutil.IntWithCommas(totalRuns), "", ""})

	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

// baselines returns the single thread throughput of every variant.
func baselines(results []sweep.AggregateResult) map[string]float64 {
	base := make(map[string]float64)
	for _, r := range results {
		if r.Threads == 1 {
			base[r.Variant.Value] = r.OpsPerMs
		}
	}
	return base
}

func formatSpeedup(value, base float64) string {
	if base <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2fx", value/base)
}
