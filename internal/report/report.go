// Package report renders benchmark reports and run history.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"primebench/internal/bench"
	"primebench/internal/store"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Options controls rendering.
type Options struct {
	Format string // text, markdown, json, yaml

	// Pretty renders markdown through glamour for terminal display instead
	// of emitting raw markdown.
	Pretty bool

	Theme Theme
}

// Render writes r to w in the requested format.
func Render(w io.Writer, r *bench.Report, opts Options) error {
	switch opts.Format {
	case "", "text":
		_, err := io.WriteString(w, Text(r, NewStyles(opts.Theme)))
		return err
	case "markdown":
		md := Markdown(r)
		if opts.Pretty {
			out, err := renderGlamour(md)
			if err != nil {
				return err
			}
			md = out
		}
		_, err := io.WriteString(w, md)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown report format %q", opts.Format)
	}
}

// Verdict is the one-line equivalence result.
func Verdict(r *bench.Report) string {
	if r.Equal {
		return "Result: vectors EQUAL"
	}
	return fmt.Sprintf("Result: vectors DIFFERENT (first mismatch at index %d)", r.FirstMismatch)
}

// Text renders r as a styled summary block.
func Text(r *bench.Report, s Styles) string {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, s.Label.Render(label), s.Value.Render(value))
	}

	verdict := s.Success.Render(Verdict(r))
	if !r.Equal {
		verdict = s.Error.Render(Verdict(r))
	}

	threads := fmt.Sprintf("%d", r.Threads)
	if r.Threads != r.RequestedThreads {
		threads = fmt.Sprintf("%d (requested %d)", r.Threads, r.RequestedThreads)
	}

	lines := []string{
		s.Title.Render("primebench " + r.RunID),
		row("Elements", fmt.Sprintf("%d", r.Elements)),
		row("Threads", threads),
		row("Primes", fmt.Sprintf("%d", r.Primes)),
		row("Sequential time", fmt.Sprintf("%.6f s", r.SequentialSeconds)),
		row("Concurrent time", fmt.Sprintf("%.6f s", r.ConcurrentSeconds)),
		row("Speedup", fmt.Sprintf("%.3f", r.Speedup)),
	}
	if r.Repeat > 1 {
		lines = append(lines,
			row("Sequential stddev", fmt.Sprintf("%.6f s", r.Sequential.StdDev)),
			row("Concurrent stddev", fmt.Sprintf("%.6f s", r.Concurrent.StdDev)),
			s.Muted.Render(fmt.Sprintf("mean of %d repetitions", r.Repeat)),
		)
	}
	lines = append(lines, row("Worker claims", formatInts(r.PerWorker)), "", verdict)

	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

// Markdown renders r as a markdown document.
func Markdown(r *bench.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# primebench run `%s`\n\n", r.RunID)
	fmt.Fprintf(&b, "**%s**\n\n", Verdict(r))
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Elements | %d |\n", r.Elements)
	fmt.Fprintf(&b, "| Threads | %d |\n", r.Threads)
	fmt.Fprintf(&b, "| Requested threads | %d |\n", r.RequestedThreads)
	fmt.Fprintf(&b, "| Seed | %d |\n", r.Seed)
	fmt.Fprintf(&b, "| Primes | %d |\n", r.Primes)
	fmt.Fprintf(&b, "| Sequential time (s) | %.6f |\n", r.SequentialSeconds)
	fmt.Fprintf(&b, "| Concurrent time (s) | %.6f |\n", r.ConcurrentSeconds)
	fmt.Fprintf(&b, "| Speedup | %.3f |\n", r.Speedup)
	if r.Repeat > 1 {
		b.WriteString("\n## Repetitions\n\n")
		b.WriteString("| Pass | Mean | StdDev | Min | Max |\n|---|---|---|---|---|\n")
		for _, p := range []struct {
			name string
			s    bench.Stats
		}{{"sequential", r.Sequential}, {"concurrent", r.Concurrent}} {
			fmt.Fprintf(&b, "| %s | %.6f | %.6f | %.6f | %.6f |\n", p.name, p.s.Mean, p.s.StdDev, p.s.Min, p.s.Max)
		}
	}
	b.WriteString("\n## Worker claims\n\n")
	for i, c := range r.PerWorker {
		fmt.Fprintf(&b, "- worker %d: %d\n", i, c)
	}
	return b.String()
}

func renderGlamour(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// History writes a table of recorded runs.
func History(w io.Writer, records []store.RunRecord, theme Theme) error {
	s := NewStyles(theme)
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, s.Muted.Render("no recorded runs"))
		return err
	}

	header := fmt.Sprintf("%-36s  %-20s  %10s  %7s  %12s  %12s  %8s  %s",
		"RUN", "STARTED", "ELEMENTS", "THREADS", "SEQ (s)", "CONC (s)", "SPEEDUP", "EQUAL")
	if _, err := fmt.Fprintln(w, s.Header.Render(header)); err != nil {
		return err
	}
	for _, rec := range records {
		line := fmt.Sprintf("%-36s  %-20s  %10d  %7d  %12.6f  %12.6f  %8.3f  %v",
			rec.RunID, rec.StartedAt.Local().Format("2006-01-02 15:04:05"), rec.Elements, rec.Threads,
			rec.SequentialSeconds, rec.ConcurrentSeconds, rec.Speedup, rec.Equal)
		if !rec.Equal {
			line = s.Error.Render(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprintf("%d", x)
	}
	return strings.Join(parts, " ")
}
