package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tapsight-labs/possync/internal/core/domain"
)

var (
	syncDateFlag       string
	syncCategoriesFlag []string
)

var syncCmd = &cobra.Command{
	Use:   "sync [bar-id]",
	Short: "Collect and process one business date",
	Long: `Runs collection and processing for a single business date.
If a bar id is provided, only that bar is synchronised; otherwise every
configured bar runs. The date defaults to yesterday.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncDateFlag, "date", "", "business date to sync (YYYY-MM-DD, default yesterday)")
	syncCmd.Flags().StringSliceVar(&syncCategoriesFlag, "category", nil, "categories to sync (default all)")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if err := initApp(); err != nil {
		return err
	}

	date := domain.DateOf(time.Now().AddDate(0, 0, -1))
	if syncDateFlag != "" {
		parsed, err := domain.ParseDate(syncDateFlag)
		if err != nil {
			return err
		}
		date = parsed
	}

	categories, err := domain.ParseCategories(syncCategoriesFlag)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if len(args) > 0 {
		barID := args[0]
		cmd.Printf("Syncing %s for %s...\n", barID, date)

		result, err := orchestrator.RunDay(ctx, barID, date, categories)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		printRunResult(cmd, result)
		return nil
	}

	cmd.Printf("Syncing all bars for %s...\n", date)
	outcomes, err := fleet.SyncDay(ctx, date, categories)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	failures := 0
	for _, out := range outcomes {
		if out.Err != nil {
			failures++
			cmd.Printf("%s: failed: %v\n", out.BarID, out.Err)
			continue
		}
		cmd.Printf("%s: %d collected, %d processed, %d errors, %d skipped\n",
			out.BarID, out.Result.TotalCollected, out.Result.TotalProcessed,
			out.Result.ErrorCount(), len(out.Result.Skipped))
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d bars failed", failures, len(outcomes))
	}
	return nil
}

// printRunResult writes a per-phase summary for one run.
func printRunResult(cmd *cobra.Command, result *domain.RunResult) {
	cmd.Printf("Run %s for %s on %s\n", result.RunID, result.BarID, result.Date)
	cmd.Printf("  collected: %d records across %d categories\n",
		result.TotalCollected, len(result.Collection.Successes))
	cmd.Printf("  processed: %d records across %d categories\n",
		result.TotalProcessed, len(result.Processing.Successes))
	if len(result.Skipped) > 0 {
		cmd.Printf("  skipped (already stored): %v\n", result.Skipped)
	}
	for _, e := range result.Collection.Errors {
		cmd.Printf("  collection error [%s]: %s\n", e.Category, e.Error)
	}
	for _, e := range result.Processing.Errors {
		cmd.Printf("  processing error [%s]: %s\n", e.Category, e.Error)
	}
}
