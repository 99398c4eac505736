package main

import (
	"github.com/spf13/cobra"
)

func newWatchCommand(root *rootOptions) *cobra.Command {
	var runNow bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run ingest on the configured cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer root.app.Close()
			return root.app.Watch(cmd.Context(), runNow)
		},
	}

	cmd.Flags().BoolVar(&runNow, "run-now", false, "run once immediately before waiting for the schedule")
	return cmd
}
