package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/nfaudit/internal/normal"
)

// TextFormatter formats reports as console text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes every report, separated by blank lines
func (f *TextFormatter) Format(reports []*normal.Report) error {
	for i, r := range reports {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer)
		}
		if err := f.FormatReport(r); err != nil {
			return err
		}
	}
	return nil
}

// FormatReport writes one report: the violation list, or "None", followed
// by any skip and warning notes.
func (f *TextFormatter) FormatReport(r *normal.Report) error {
	_, _ = fmt.Fprintf(f.writer, "%s Violations Detected:\n", r.Form)
	if len(r.Issues) == 0 {
		_, _ = fmt.Fprintln(f.writer, "-> None")
	}
	for _, is := range r.Issues {
		_, _ = fmt.Fprintf(f.writer, "-> %s\n", is)
	}

	notes := noteLines(r)
	if len(notes) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "Notes:")
		for _, n := range notes {
			_, _ = fmt.Fprintf(f.writer, "-> %s\n", n)
		}
	}

	_, err := fmt.Fprintf(f.writer, "\n%s\n", summaryLine(r))
	return err
}

// noteLines renders notices, then the per-table clean verdicts of the
// join-dependency audit.
func noteLines(r *normal.Report) []string {
	var lines []string
	for _, n := range r.Notices {
		lines = append(lines, noticePrefix(n.Kind)+n.Message)
	}
	if r.Form == normal.Form5NF {
		for _, table := range cleanTables(r) {
			lines = append(lines, fmt.Sprintf("No violations detected in table %q.", table))
		}
	}
	return lines
}

func noticePrefix(k normal.NoticeKind) string {
	switch k {
	case normal.NoticeSkipped:
		return "Skipping: "
	case normal.NoticeBounded:
		return "Limit: "
	default:
		return "Warning: "
	}
}

// cleanTables lists analysed tables with no issue, in table order.
func cleanTables(r *normal.Report) []string {
	dirty := make(map[string]bool, len(r.Issues))
	for _, is := range r.Issues {
		dirty[is.Table] = true
	}
	var clean []string
	for _, t := range r.Analyzed {
		if !dirty[t] {
			clean = append(clean, t)
		}
	}
	return clean
}

func summaryLine(r *normal.Report) string {
	skipped := 0
	for _, n := range r.Notices {
		if n.Kind == normal.NoticeSkipped {
			skipped++
		}
	}
	return fmt.Sprintf("%s: %d issue(s), %d table(s) analyzed, %d skipped", r.Form, len(r.Issues), len(r.Analyzed), skipped)
}
