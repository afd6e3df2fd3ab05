package conformance

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/KI-labs/pachyderm/reporting"
)

// printResultsTable renders the run comparison and the cause tally to
// the console. The plain "Overall results" and "cause: count" lines stay
// the canonical output; the tables are for humans scanning a terminal.
func (h *Harness) printResultsTable(current string, stats reporting.Stats, baseline *reporting.Stats, causes []reporting.Cause) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("S3 Gateway Conformance Results")

	t.AppendHeader(table.Row{"Run", "Passed", "Attempted"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Run", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Attempted", Align: text.AlignRight},
	})

	t.AppendRow(table.Row{current, stats.Passed, stats.Attempted})
	if baseline != nil {
		t.AppendRow(table.Row{"previous", baseline.Passed, baseline.Attempted})
	}

	if stats.Attempted > 0 && stats.Passed == stats.Attempted {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}
	t.Render()

	if len(causes) == 0 {
		return
	}

	ct := table.NewWriter()
	ct.SetOutputMirror(os.Stdout)
	ct.SetTitle("Failure Causes")
	ct.AppendHeader(table.Row{"Cause", "Count"})
	ct.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Cause", WidthMax: 100, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Count", Align: text.AlignRight},
	})
	for _, c := range causes {
		ct.AppendRow(table.Row{c.Line, c.Count})
	}
	ct.SetStyle(table.StyleLight)
	ct.Render()
}
