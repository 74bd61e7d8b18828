package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/nfaudit/internal/normal"
)

// MarkdownFormatter formats reports as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the reports as one markdown document
func (f *MarkdownFormatter) Format(reports []*normal.Report) error {
	_, _ = fmt.Fprintln(f.writer, "# Normalization Report")
	_, _ = fmt.Fprintln(f.writer)

	f.FormatSummary(reports)

	for _, r := range reports {
		if err := f.FormatReport(r, "##"); err != nil {
			return err
		}
	}
	return nil
}

// FormatSummary writes a one-row-per-form overview table
func (f *MarkdownFormatter) FormatSummary(reports []*normal.Report) {
	_, _ = fmt.Fprintln(f.writer, "| Form | Issues | Analyzed | Skipped |")
	_, _ = fmt.Fprintln(f.writer, "|------|--------|----------|---------|")
	for _, r := range reports {
		skipped := 0
		for _, n := range r.Notices {
			if n.Kind == normal.NoticeSkipped {
				skipped++
			}
		}
		_, _ = fmt.Fprintf(f.writer, "| %s | %d | %d | %d |\n", r.Form, len(r.Issues), len(r.Analyzed), skipped)
	}
	_, _ = fmt.Fprintln(f.writer)
}

// FormatReport writes one report under a heading of the given level
func (f *MarkdownFormatter) FormatReport(r *normal.Report, heading string) error {
	_, _ = fmt.Fprintf(f.writer, "%s %s\n\n", heading, r.Form)

	if len(r.Issues) == 0 {
		_, _ = fmt.Fprintln(f.writer, "No violations detected.")
		_, _ = fmt.Fprintln(f.writer)
	} else {
		_, _ = fmt.Fprintln(f.writer, "| Table | Rule | Columns | Finding |")
		_, _ = fmt.Fprintln(f.writer, "|-------|------|---------|---------|")
		for _, is := range r.Issues {
			_, _ = fmt.Fprintf(f.writer, "| %s | `%s` | %s | %s |\n",
				escapeCell(is.Table), is.Rule, escapeCell(strings.Join(is.Columns, ", ")), escapeCell(is.Message))
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	if notes := noteLines(r); len(notes) > 0 {
		_, _ = fmt.Fprintf(f.writer, "%s# Notes\n\n", heading)
		for _, n := range notes {
			_, _ = fmt.Fprintf(f.writer, "- %s\n", n)
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	return nil
}

// escapeCell keeps a value inside one markdown table cell
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
