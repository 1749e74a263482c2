package commands

import (
	"context"
	"time"

	"sortwatch/internal/pipeline"
	"sortwatch/internal/publish"
	"sortwatch/internal/warehouse"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var ifStale time.Duration

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one pipeline run and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		runner, cleanup, err := buildRunner(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if ifStale > 0 {
			return runner.RunIfStale(ctx, ifStale)
		}
		return runner.RunOnce(ctx)
	},
}

// buildRunner wires the warehouse and object-store clients behind a Runner.
func buildRunner(ctx context.Context) (*pipeline.Runner, func(), error) {
	store, err := warehouse.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	objects, err := publish.NewObjectPublisher(ctx, cfg.Object)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	log.Debug().Msg("Runner wired")
	return pipeline.NewRunner(store, objects, cfg), store.Close, nil
}

func init() {
	runCmd.Flags().DurationVar(&ifStale, "if-stale", 0, "skip the run when the last checkpoint is younger than this duration")
	rootCmd.AddCommand(runCmd)
}
