package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	syncFeature "catalog-sync/feature/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dryRunCleanup bool
	yesConfirm    bool
)

// cleanupCmd deletes every row of the configured tables.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete every row of the HubDB cleanup tables",
	Long: `Deletes every row of the configured cleanup tables (HUBSPOT_CLEANUP_TABLE_IDS,
defaulting to the catalog table) and publishes each table. Empty tables are skipped.

This is destructive and asks for confirmation unless --yes is given.

Examples:
  # Show how many rows would be deleted
  catalog-sync cleanup --dry-run

  # Delete with interactive confirmation
  catalog-sync cleanup

  # Delete with auto-confirm (non-interactive)
  catalog-sync cleanup --yes`,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().BoolVar(&dryRunCleanup, "dry-run", false, "Plan and count without deleting")
	cleanupCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm the deletion (non-interactive)")
	RootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	tables := rt.cfg.HubSpot.Tables()
	rt.logger.Warn("Cleanup will delete every row", zap.Strings("tables", tables), zap.Bool("dry_run", dryRunCleanup))

	if !dryRunCleanup && !confirmDestructiveAction(os.Stdin, os.Stdout, yesConfirm) {
		rt.logger.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	ctx, cancel := rt.runContext(contextOrBackground(cmd))
	defer cancel()

	report, err := rt.service.Run(ctx, syncFeature.ModeCleanup, syncFeature.RunOptions{DryRun: dryRunCleanup})
	if err != nil {
		return err
	}

	for _, t := range report.Tables {
		if t.Skipped != "" {
			rt.logger.Info("Table skipped", zap.String("table_id", t.TableID), zap.String("reason", t.Skipped))
			continue
		}
		rt.logger.Info("Table result",
			zap.String("table_id", t.TableID),
			zap.Int("deleted", t.Result.Deleted),
			zap.Int("failed", t.Result.Failed),
			zap.Bool("published", t.Result.Published))
	}

	logReport(rt.logger, report)
	return nil
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction(in io.Reader, out io.Writer, yes bool) bool {
	if yes {
		fmt.Fprintln(out, "\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Fprint(out, "\n⚠️  Type 'yes' to delete every row: ")
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
