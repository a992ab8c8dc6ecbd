package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"blacksys/internal/logging"
	"blacksys/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var filters []string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the blacksys log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := logging.FilePath(cfg)
			out := cmd.OutOrStdout()

			tail, offset, err := logs.Last(path, lines)
			if err != nil {
				return err
			}
			for _, line := range logs.Matching(tail, filters...) {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), path, offset, 500*time.Millisecond, func(line string) {
				if len(logs.Matching([]string{line}, filters...)) > 0 {
					fmt.Fprintln(out, line)
				}
			})
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().StringSliceVar(&filters, "grep", nil, "Only show lines containing every term (case-insensitive), e.g. a run id")
	return cmd
}
