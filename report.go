package wfs

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WriteSummary prints a per feature type results table
func WriteSummary(w io.Writer, summary RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("WFS Validation Results %s (%s)", summary.Endpoint, summary.Duration.Round(time.Millisecond)))

	t.AppendHeader(table.Row{
		"Feature Type", "Links", "Broken", "Violations", "Errors", "Status",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Feature Type", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Links", Align: text.AlignRight},
		{Name: "Broken", Align: text.AlignRight},
		{Name: "Violations", Align: text.AlignRight},
		{Name: "Errors", Align: text.AlignRight},
	})

	for _, r := range summary.Types {
		t.AppendRow(table.Row{
			r.Name,
			r.Hrefs.Checked,
			len(r.Hrefs.Broken),
			len(r.Violations),
			r.Errors(),
			r.Status(),
		})
	}

	if summary.Fatal != nil {
		t.AppendRow(table.Row{"(run aborted)", "-", "-", "-", 1, summary.Fatal.Error()})
	}
	if summary.BlankCapabilities {
		t.AppendRow(table.Row{"(capabilities)", "-", "-", "-", 1, "empty"})
	}
	if n := len(summary.Malformed); n > 0 {
		t.AppendRow(table.Row{"(capabilities)", "-", "-", "-", n, "malformed"})
	}

	status := "PASS"
	if summary.Failed() {
		status = "FAIL"
	}
	t.AppendFooter(table.Row{"Total", "", "", "", summary.Errors(), status})
	t.Render()
}
