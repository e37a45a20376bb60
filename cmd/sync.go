package cmd

import (
	"context"

	syncFeature "catalog-sync/feature/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dryRunSync bool

// syncCmd mirrors the catalog into the HubDB table.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the course catalog into the HubDB table",
	Long: `Fetches every course of the catalog, creates or updates one HubDB row per course,
deletes rows of courses no longer in the catalog and publishes the table.

Per-course failures are logged and counted; they do not fail the command.

Examples:
  # Full sync
  catalog-sync sync

  # Show what would change without writing
  catalog-sync sync --dry-run`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Plan and count without writing to HubDB")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	ctx, cancel := rt.runContext(contextOrBackground(cmd))
	defer cancel()

	rt.logger.Info("Starting course sync", zap.String("table_id", rt.cfg.HubSpot.TableID), zap.Bool("dry_run", dryRunSync))

	report, err := rt.service.Run(ctx, syncFeature.ModeSync, syncFeature.RunOptions{DryRun: dryRunSync})
	if err != nil {
		return err
	}

	logReport(rt.logger, report)
	return nil
}

func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
