// Package cli implements the possync command line interface.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tapsight-labs/possync/internal/adapters/driven/config/file"
	"github.com/tapsight-labs/possync/internal/adapters/driven/delay"
	"github.com/tapsight-labs/possync/internal/adapters/driven/notify"
	"github.com/tapsight-labs/possync/internal/adapters/driven/storage/sqlite"
	"github.com/tapsight-labs/possync/internal/connectors/colibri"
	"github.com/tapsight-labs/possync/internal/core/ports/driven"
	"github.com/tapsight-labs/possync/internal/core/ports/driving"
	"github.com/tapsight-labs/possync/internal/core/services"
	"github.com/tapsight-labs/possync/internal/logger"
	"github.com/tapsight-labs/possync/internal/normalisers"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configDirFlag string
	verboseFlag   bool
)

// Wired services. Tests inject stubs here instead of calling initApp.
var (
	appConfig    *file.AppConfig
	appStore     *sqlite.Store
	orchestrator driving.Orchestrator
	planner      driving.Planner
	fleet        *services.Fleet
	notifier     driven.Notifier
)

var rootCmd = &cobra.Command{
	Use:   "possync",
	Short: "POS data synchronisation engine",
	Long: `possync pulls daily sales reports from the Colibri POS provider,
stores the raw payloads, and normalises them into queryable fact tables.

Runs are idempotent: re-invoking a date or range re-fetches nothing that
is already stored and re-processes nothing that is already normalised.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config", "", "config directory (default ~/.possync)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the CLI.
func Execute() error {
	defer closeApp()
	return rootCmd.Execute()
}

// SetVersion overrides the build version string.
func SetVersion(v string) {
	version = v
}

// initApp wires the application from config. Idempotent; commands call it
// once they know they need services.
func initApp() error {
	if orchestrator != nil {
		return nil
	}

	cfg, err := file.Load(configDirFlag)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	appConfig = cfg

	if verboseFlag || cfg.Verbose {
		logger.SetVerbose(true)
	}

	if len(cfg.Bars) == 0 {
		return fmt.Errorf("no bars configured; add a [[bars]] section to config.toml")
	}
	if cfg.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is not configured")
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	appStore = store

	provider := colibri.NewClient(colibri.Config{
		BaseURL:           cfg.Provider.BaseURL,
		StockURL:          cfg.Provider.StockURL,
		Timeout:           time.Duration(cfg.Provider.TimeoutSeconds) * time.Second,
		RequestsPerMinute: cfg.Provider.RequestsPerMinute,
	})

	minDelay, maxDelay := cfg.DelayBounds()
	pacing := delay.NewRandom(minDelay, maxDelay)

	orch := services.NewOrchestrator(
		cfg.Accounts(),
		provider,
		store.RawStore(),
		store.FactStore(),
		normalisers.NewRegistry(),
		pacing,
	)
	orchestrator = orch
	planner = orch.Planner()

	if cfg.Webhook.URL != "" {
		notifier = notify.NewWebhook(cfg.Webhook.URL, time.Duration(cfg.Webhook.TimeoutSeconds)*time.Second)
	}
	fleet = services.NewFleet(orch, cfg.BarIDs(), notifier, 0)

	return nil
}

// closeApp releases resources opened by initApp.
func closeApp() {
	if appStore != nil {
		appStore.Close() //nolint:errcheck
		appStore = nil
	}
}
