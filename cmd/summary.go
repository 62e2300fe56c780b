package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"sjsage522/couponworker/internal/coupon"
	"sjsage522/couponworker/services/worker"
)

const descriptionPreview = 100

// printSummary renders the results of a run as tables
func printSummary(out io.Writer, summary *worker.Summary, output string) {
	if summary == nil {
		return
	}

	t := newTable(out)
	t.SetTitle("Results Summary")
	t.AppendRows([]table.Row{
		{"Total coupons", summary.Total()},
		{"Coupons with codes", summary.WithCodes},
		{"Duplicates dropped", summary.Stats.Duplicates},
		{"Rejected", summary.Stats.Rejected},
		{"Errors", len(summary.Errors)},
		{"Elapsed", summary.Duration.Round(time.Millisecond)},
	})
	if summary.Stats.Unpublished > 0 {
		t.AppendRow(table.Row{"Publish failures", summary.Stats.Unpublished})
	}
	if output != "" && summary.Total() > 0 {
		t.AppendRow(table.Row{"Output", output})
	}
	t.Render()

	if len(summary.Categories) > 0 {
		c := newTable(out)
		c.SetTitle("Categories")
		c.AppendHeader(table.Row{"Category", "Coupons"})
		for _, name := range summary.CategoryNames() {
			c.AppendRow(table.Row{name, summary.Categories[name]})
		}
		c.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
		c.Render()
	}

	if example := summary.Example(); example != nil {
		printExample(out, example)
	}
}

func printExample(out io.Writer, r *coupon.Record) {
	t := newTable(out)
	t.SetTitle("Example coupon")
	t.AppendRow(table.Row{"Title", r.Title})
	if r.HasCode() {
		t.AppendRow(table.Row{"Code", *r.Code})
	}
	if r.Description != nil {
		t.AppendRow(table.Row{"Description", preview(*r.Description, descriptionPreview)})
	}
	t.AppendRow(table.Row{"Store", r.Store})
	t.AppendRow(table.Row{"Category", r.Category})
	t.Render()
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

// preview truncates s to n runes, marking the cut with "..."
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// categoryNote reports that a category filter is not applied
func categoryNote(out io.Writer, category string) {
	if category == "" {
		return
	}
	fmt.Fprintf(out, "Note: category %q is recorded but not used to filter results\n", category)
}
