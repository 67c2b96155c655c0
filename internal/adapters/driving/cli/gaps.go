package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tapsight-labs/possync/internal/core/domain"
)

var (
	gapsFromFlag     string
	gapsToFlag       string
	gapsCategoryFlag string
)

var gapsCmd = &cobra.Command{
	Use:   "gaps <bar-id>",
	Short: "List dates missing normalised data",
	Long: `Lists every date in an inclusive range with no normalised rows for a
category. A date counts as missing even when its raw report was collected
but never processed.`,
	Args: cobra.ExactArgs(1),
	RunE: runGaps,
}

func init() {
	gapsCmd.Flags().StringVar(&gapsFromFlag, "from", "", "first date of the range (YYYY-MM-DD)")
	gapsCmd.Flags().StringVar(&gapsToFlag, "to", "", "last date of the range (YYYY-MM-DD)")
	gapsCmd.Flags().StringVar(&gapsCategoryFlag, "category", "", "report category")
	gapsCmd.MarkFlagRequired("from")     //nolint:errcheck
	gapsCmd.MarkFlagRequired("to")       //nolint:errcheck
	gapsCmd.MarkFlagRequired("category") //nolint:errcheck
	rootCmd.AddCommand(gapsCmd)
}

func runGaps(cmd *cobra.Command, args []string) error {
	if err := initApp(); err != nil {
		return err
	}

	category, err := domain.ParseCategory(gapsCategoryFlag)
	if err != nil {
		return err
	}
	from, err := domain.ParseDate(gapsFromFlag)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := domain.ParseDate(gapsToFlag)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	missing, err := planner.FindMissingDates(cmd.Context(), args[0], category, from, to)
	if err != nil {
		return fmt.Errorf("finding gaps: %w", err)
	}

	if len(missing) == 0 {
		cmd.Printf("No gaps for %s/%s between %s and %s.\n", args[0], category, from, to)
		return nil
	}

	cmd.Printf("%d missing dates for %s/%s:\n", len(missing), args[0], category)
	for _, d := range missing {
		cmd.Println(" ", d)
	}
	return nil
}
