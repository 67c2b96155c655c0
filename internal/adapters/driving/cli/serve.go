package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tapsight-labs/possync/internal/adapters/driving/httpapi"
	"github.com/tapsight-labs/possync/internal/core/services"
	"github.com/tapsight-labs/possync/internal/logger"
)

var serveAddrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and background scheduler",
	Long: `Starts the HTTP trigger surface and, when enabled in config, the
background scheduler that syncs the previous business day for every
configured bar on an interval.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddrFlag, "addr", ":8642", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := initApp(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := httpapi.NewServer(orchestrator, planner, version)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cmd.Printf("Listening on %s\n", serveAddrFlag)
		return server.Start(serveAddrFlag)
	})

	if appConfig.Scheduler.Enabled {
		scheduler := services.NewScheduler(appConfig.SchedulerSettings(), appStore.SchedulerStore(), fleet)
		g.Go(func() error {
			logger.Info("Scheduler started")
			err := scheduler.Start(gctx)
			if err == context.Canceled {
				return nil
			}
			return err
		})
		g.Go(func() error {
			<-gctx.Done()
			return scheduler.Stop()
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
