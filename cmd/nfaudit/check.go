package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tordrt/nfaudit"
	"github.com/tordrt/nfaudit/internal/config"
	"github.com/tordrt/nfaudit/internal/normal"
	"github.com/tordrt/nfaudit/internal/schema"
)

var (
	dbURL        string
	schemaName   string
	tables       string
	excludes     string
	forms        []string
	format       string
	outputFile   string
	outputDir    string
	maxLHS       int
	maxColumns   int
	maxRows      int
	workers      int
	failOnIssues bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Audit a database or snapshot against the normal forms",
	Long:  `Capture a snapshot of the target and report likely 1NF through 6NF/DKNF violations for every selected table.`,
	Example: `  # Audit every form
  nfaudit check --db-url postgres://localhost/shop

  # Only 3NF/BCNF on two tables, as markdown
  nfaudit check --db-url sqlite://shop.db --form 3nf -t orders,order_items -f markdown

  # Re-run against a saved snapshot and fail a CI job on any finding
  nfaudit check --db-url file://shop.yaml --fail-on-issues`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyCaptureFlags(cmd, cfg)
		applyCheckFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return config.ConfigError("invalid configuration", err)
		}
		return runCheck(cmd.Context(), cfg, os.Stdout, failOnIssues)
	},
}

func init() {
	f := checkCmd.Flags()
	addCaptureFlags(checkCmd)
	f.StringSliceVar(&forms, "form", nil, "normal forms to audit: 1nf..6nf, bcnf, dknf, or all (default: all)")
	f.StringVarP(&format, "format", "f", "", "output format: text or markdown (default: text)")
	f.StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	f.StringVarP(&outputDir, "output-dir", "d", "", "output directory for one file per normal form")
	f.IntVar(&maxLHS, "max-lhs", 0, "largest determinant tried by dependency discovery (default: 4)")
	f.IntVar(&maxColumns, "max-columns", 0, "skip 3NF, 4NF and 5NF on wider tables (default: 24)")
	f.IntVar(&workers, "workers", 0, "tables analyzed concurrently (default: 1)")
	f.BoolVar(&failOnIssues, "fail-on-issues", false, "exit with code 5 when any issue is reported")
}

// addCaptureFlags registers the flags shared by check and snapshot.
func addCaptureFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&dbURL, "db-url", "", "database URL: postgres://, mysql://, sqlite://, or file:// snapshot")
	f.StringVarP(&schemaName, "schema", "s", "", "database schema name (default: public for PostgreSQL)")
	f.StringVarP(&tables, "tables", "t", "", "specific tables (comma-separated, optional)")
	f.StringVar(&excludes, "exclude", "", "tables to skip (comma-separated, optional)")
	f.IntVar(&maxRows, "max-rows", 0, "rows captured per table, 0 for all")
}

func applyCaptureFlags(cmd *cobra.Command, c *config.Config) {
	c.Database.URL = resolveString(dbURL, c.Database.URL)
	c.Database.Schema = resolveString(schemaName, c.Database.Schema)
	c.Tables = resolveList(tables, c.Tables)
	c.ExcludeTables = resolveList(excludes, c.ExcludeTables)
	c.Limits.MaxRows = resolveInt(cmd, "max-rows", maxRows, c.Limits.MaxRows)
}

func applyCheckFlags(cmd *cobra.Command, c *config.Config) {
	if len(forms) > 0 {
		c.Forms = forms
	}
	c.Output.Format = resolveString(format, c.Output.Format)
	c.Output.File = resolveString(outputFile, c.Output.File)
	c.Output.Dir = resolveString(outputDir, c.Output.Dir)
	c.Limits.MaxLHS = resolveInt(cmd, "max-lhs", maxLHS, c.Limits.MaxLHS)
	c.Limits.MaxColumns = resolveInt(cmd, "max-columns", maxColumns, c.Limits.MaxColumns)
	c.Workers = resolveInt(cmd, "workers", workers, c.Workers)
}

func runCheck(ctx context.Context, c *config.Config, stdout io.Writer, failOnIssues bool) error {
	selected, err := parseForms(c.Forms)
	if err != nil {
		return config.ConfigError("parsing forms", err)
	}

	snap, err := openSnapshot(ctx, c)
	if err != nil {
		return err
	}

	reports, err := nfaudit.Audit(snap, selected, normal.Options{
		MaxLHS:     c.Limits.MaxLHS,
		MaxColumns: c.Limits.MaxColumns,
		Workers:    c.Workers,
		Logger:     logger,
	})
	if err != nil {
		return config.GeneralError("running audit", err)
	}

	out := &nfaudit.OutputOptions{Writer: stdout, OutputDir: c.Output.Dir, Format: c.Output.Format}
	if c.Output.File != "" {
		f, err := os.Create(c.Output.File)
		if err != nil {
			return config.GeneralError("creating output file", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Warn("Failed to close output file", "path", c.Output.File, "error", err)
			}
		}()
		out.Writer = f
	}

	if err := nfaudit.FormatReports(reports, out); err != nil {
		return config.GeneralError("formatting output", err)
	}

	issues := nfaudit.CountIssues(reports)
	logger.Info("Audit complete", "forms", len(reports), "issues", issues)
	if failOnIssues && issues > 0 {
		return config.IssuesFoundError(issues)
	}
	return nil
}

// openSnapshot captures or loads the configured target, mapping failures
// to exit codes.
func openSnapshot(ctx context.Context, c *config.Config) (*schema.Schema, error) {
	if c.Database.URL == "" {
		return nil, config.ConfigError("database URL is required (--db-url or database.url)", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	snap, err := nfaudit.Open(ctx, c.Database.URL, &nfaudit.Options{
		Tables:        c.Tables,
		ExcludeTables: c.ExcludeTables,
		SchemaName:    c.Database.Schema,
		RowLimit:      c.Limits.MaxRows,
		Logger:        logger,
	})
	switch {
	case err == nil:
		return snap, nil
	case errors.Is(err, nfaudit.ErrConnect):
		return nil, config.DBConnectError("connecting to database", err)
	case normal.IsUnknownTableErr(err):
		return nil, config.ConfigError("selecting tables", err)
	default:
		return nil, config.GeneralError("capturing snapshot", err)
	}
}
