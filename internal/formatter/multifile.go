package formatter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tordrt/nfaudit/internal/normal"
)

const (
	formatMarkdown = "markdown"
	formatText     = "text"
)

// MultiFileFormatter writes an overview plus one file per normal form
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes _overview plus <form>.<ext> for each report
func (f *MultiFileFormatter) Format(reports []*normal.Report) error {
	if f.OutputFormat != formatMarkdown && f.OutputFormat != formatText {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'markdown')", f.OutputFormat)
	}

	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeOverview(reports); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for _, r := range reports {
		if err := f.writeReportFile(r); err != nil {
			return fmt.Errorf("failed to write report file for %s: %w", r.Form, err)
		}
	}

	return nil
}

// writeOverview writes the overview file
func (f *MultiFileFormatter) writeOverview(reports []*normal.Report) error {
	file, err := os.Create(filepath.Join(f.OutputDir, "_overview"+f.getFileExtension()))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat == formatMarkdown {
		_, _ = fmt.Fprintf(file, "# Normalization Overview\n\n")
		_, _ = fmt.Fprintf(file, "Each normal form has a corresponding file: `<form>%s`\n\n", f.getFileExtension())
		NewMarkdownFormatter(file).FormatSummary(reports)
		return nil
	}

	_, _ = fmt.Fprintf(file, "NORMALIZATION OVERVIEW\n")
	_, _ = fmt.Fprintf(file, "Each normal form has a file: <form>%s\n\n", f.getFileExtension())
	for _, r := range reports {
		_, _ = fmt.Fprintf(file, "%s -> %s\n", summaryLine(r), r.Form.Slug()+f.getFileExtension())
	}
	return nil
}

// writeReportFile writes a single report to its own file
func (f *MultiFileFormatter) writeReportFile(r *normal.Report) error {
	file, err := os.Create(filepath.Join(f.OutputDir, r.Form.Slug()+f.getFileExtension()))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat == formatMarkdown {
		return NewMarkdownFormatter(file).FormatReport(r, "#")
	}
	return NewTextFormatter(file).FormatReport(r)
}

func (f *MultiFileFormatter) getFileExtension() string {
	if f.OutputFormat == formatMarkdown {
		return ".md"
	}
	return ".txt"
}
