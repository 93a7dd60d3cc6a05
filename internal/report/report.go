// Package report renders a benchmark run as a terminal table or as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"pgormbench/internal/bench"
)

// Generate writes the comparison table followed by the workload parameters,
// so a pasted result is reproducible.
func Generate(w io.Writer, run *bench.Run) error {
	if run == nil || len(run.Rows) == 0 {
		return fmt.Errorf("no results to report")
	}

	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		StyleFunc(func(_, _ int) lipgloss.Style { return cell }).
		Headers("Method", "Duration", "Slowness")

	for _, row := range run.Rows {
		t.Row(row.Method, formatDuration(row), formatSlowness(row))
	}

	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "seed rows: %d, ops per trial: %d, workers: %d\n",
		run.Opts.SeedRows, run.Opts.Ops, run.Opts.Workers)

	for _, row := range run.Rows {
		if row.Failed {
			fmt.Fprintf(w, "FAILED %s: %v\n", row.Method, row.Err)
		}
	}

	return nil
}

// jsonRow mirrors bench.ComparisonRow with a marshalable error field.
type jsonRow struct {
	Category string  `json:"category"`
	Method   string  `json:"method"`
	Seconds  float64 `json:"duration_seconds"`
	Slowness float64 `json:"slowness"`
	Error    string  `json:"error,omitempty"`
}

type jsonRun struct {
	SeedRows int       `json:"seed_rows"`
	Ops      int       `json:"ops"`
	Workers  int       `json:"workers"`
	Rows     []jsonRow `json:"rows"`
}

// JSON writes the run in machine-readable form.
func JSON(w io.Writer, run *bench.Run) error {
	if run == nil || len(run.Rows) == 0 {
		return fmt.Errorf("no results to report")
	}

	out := jsonRun{
		SeedRows: run.Opts.SeedRows,
		Ops:      run.Opts.Ops,
		Workers:  run.Opts.Workers,
		Rows:     make([]jsonRow, 0, len(run.Rows)),
	}
	for _, row := range run.Rows {
		jr := jsonRow{
			Category: row.Category.String(),
			Method:   row.Method,
			Seconds:  row.Duration.Seconds(),
			Slowness: row.Slowness,
		}
		if row.Err != nil {
			jr.Error = row.Err.Error()
		}
		out.Rows = append(out.Rows, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

func formatDuration(row bench.ComparisonRow) string {
	if row.Failed {
		return "-"
	}
	return row.Duration.Round(time.Microsecond).String()
}

func formatSlowness(row bench.ComparisonRow) string {
	if row.Failed {
		return "failed"
	}
	return strconv.FormatFloat(row.Slowness, 'f', -1, 64) + "x"
}
