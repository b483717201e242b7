package report

import (
	"fmt"
	"io"

	"primebench/internal/sweep"
)

// Sweep writes one row per battery case. Speedups are relative to each
// case's own sequential pass. A case that completed with differing outputs
// is shown as DIFFERENT, not as a failure.
func Sweep(w io.Writer, results []sweep.Result, theme Theme) error {
	s := NewStyles(theme)
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, s.Muted.Render("no cases run"))
		return err
	}

	header := fmt.Sprintf("%-20s  %10s  %7s  %12s  %12s  %8s  %s",
		"CASE", "ELEMENTS", "THREADS", "SEQ (s)", "CONC (s)", "SPEEDUP", "STATUS")
	if _, err := fmt.Fprintln(w, s.Header.Render(header)); err != nil {
		return err
	}
	for _, res := range results {
		var line string
		if rep := res.Report; rep != nil {
			line = fmt.Sprintf("%-20s  %10d  %7d  %12.6f  %12.6f  %8.3f  ",
				res.CaseID, rep.Elements, rep.Threads, rep.SequentialSeconds, rep.ConcurrentSeconds, rep.Speedup)
		} else {
			line = fmt.Sprintf("%-20s  %10s  %7s  %12s  %12s  %8s  ", res.CaseID, "-", "-", "-", "-", "-")
		}
		switch {
		case res.Success && res.Report.Equal:
			line += s.Success.Render("EQUAL")
		case res.Success:
			line += s.Warning.Render(fmt.Sprintf("DIFFERENT at %d", res.Report.FirstMismatch))
		default:
			line = s.Error.Render(line + "FAIL: " + res.Error)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
