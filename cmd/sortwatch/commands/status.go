package commands

import (
	"encoding/json"
	"fmt"

	"sortwatch/internal/warehouse"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the last run checkpoint as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := warehouse.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()

		marker, ok, err := store.LastRunMarker(ctx)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("{}")
			return nil
		}

		out, err := json.MarshalIndent(map[string]any{
			"run_id":          marker.RunID,
			"window_start":    marker.WindowStart,
			"window_end":      marker.WindowEnd,
			"package_count":   marker.Packages,
			"aggregate_count": marker.Aggregates,
			"finished_at":     marker.FinishedAt,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
