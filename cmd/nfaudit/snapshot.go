package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tordrt/nfaudit"
	"github.com/tordrt/nfaudit/internal/config"
)

var snapshotOutput string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save a snapshot of the target for offline audits",
	Long:  `Capture table metadata and rows into a YAML file that "nfaudit check --db-url file://<path>" can audit later without a database connection.`,
	Example: `  # Capture at most 5000 rows per table
  nfaudit snapshot --db-url postgres://localhost/shop --max-rows 5000 -o shop.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyCaptureFlags(cmd, cfg)
		return runSnapshot(cmd.Context(), cfg, snapshotOutput)
	},
}

func init() {
	addCaptureFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "", "snapshot file to write")
	_ = snapshotCmd.MarkFlagRequired("output")
}

func runSnapshot(ctx context.Context, c *config.Config, path string) error {
	snap, err := openSnapshot(ctx, c)
	if err != nil {
		return err
	}

	if err := nfaudit.SaveSnapshot(path, snap); err != nil {
		return config.GeneralError("writing snapshot", err)
	}

	logger.Info("Snapshot written", "path", path, "tables", len(snap.Tables))
	return nil
}
