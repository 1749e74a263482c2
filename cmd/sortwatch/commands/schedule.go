package commands

import (
	"os/signal"
	"syscall"

	"sortwatch/internal/metrics"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the pipeline on a fixed cadence with a metrics endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		runner, cleanup, err := buildRunner(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		go metrics.Serve(cfg.MetricsAddr)

		log.Info().Dur("interval", cfg.Interval).Msg("Scheduler starting")
		runner.Schedule(ctx, cfg.Interval)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}
