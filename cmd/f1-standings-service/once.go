package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/fortuna/services/f1-standings-service/internal/delivery"
	"github.com/spf13/cobra"
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run a single poll cycle and print the messages as JSON",
	Long: `Fetches the schedule and the enabled standings once, prints every resulting
message (including error messages) as JSON to stdout and exits. The exit status is
non-zero when any category failed. Configured Redis and Postgres sinks receive the
messages as well unless --stdout-only is given.`,
	RunE: runOnce,
}

var (
	onceIndent     bool
	onceStdoutOnly bool
)

func init() {
	onceCmd.Flags().BoolVar(&onceIndent, "indent", false, "Indent the JSON output")
	onceCmd.Flags().BoolVar(&onceStdoutOnly, "stdout-only", false, "Skip the Redis and Postgres sinks")
}

func runOnce(cmd *cobra.Command, args []string) error {
	logger := slog.Default()
	ctx := context.Background()

	fanout := delivery.NewFanout(logger).
		Add("stdout", delivery.NewJSONLines(os.Stdout, onceIndent))

	if !onceStdoutOnly {
		_, cleanup, err := addOptionalSinks(ctx, cfg, fanout, logger)
		defer cleanup()
		if err != nil {
			return err
		}
	}

	return newPoller(cfg, fanout, logger).RunOnce(ctx)
}
