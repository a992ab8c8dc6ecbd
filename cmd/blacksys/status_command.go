package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"blacksys/internal/crack"
	"blacksys/internal/deps"
	"blacksys/internal/history"
	"blacksys/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show tool availability, directory checks, and stored trackers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			var lines []string

			lines = append(lines, renderSectionHeader("Tools", colorize)...)
			for _, status := range deps.CheckBinaries(deps.AllRequirements(cfg)) {
				kind, msg := statusOK, status.Path
				if !status.Available {
					kind, msg = statusError, status.Detail
				}
				lines = append(lines, renderStatusLine(status.Name, kind, msg, colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Directories", colorize)...)
			results := preflight.LocalChecks(cfg)
			if !offline {
				results = append(results, preflight.CheckSteamStore(cmd.Context(), cfg.Steam.StoreAPIURL))
			}
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusWarn
				}
				lines = append(lines, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Library replacement", colorize)...)
			var missing []string
			present := 0
			for _, a := range crack.NewReplacer(cfg.Steam.ReplacementDir).Available() {
				if a.Present {
					present++
				} else {
					missing = append(missing, string(a.Kind))
				}
			}
			switch {
			case len(missing) == 0:
				lines = append(lines, renderStatusLine("Replacement files", statusOK, fmt.Sprintf("%d present", present), colorize))
			case present == 0:
				lines = append(lines, renderStatusLine("Replacement files", statusWarn, "none present", colorize))
			default:
				lines = append(lines, renderStatusLine("Replacement files", statusWarn, "missing "+strings.Join(missing, ", "), colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("State", colorize)...)
			store, err := ctx.trackerStore()
			if err != nil {
				return err
			}
			list, err := store.List()
			if err != nil {
				lines = append(lines, renderStatusLine("Trackers", statusError, err.Error(), colorize))
			} else {
				lines = append(lines, renderStatusLine("Trackers", statusInfo, fmt.Sprintf("%d stored in %s", len(list), store.Path()), colorize))
			}
			lines = append(lines, renderStatusLine("History", statusInfo, filepath.Join(cfg.Paths.StateDir, history.FileName), colorize))

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the Steam store reachability check")
	return cmd
}
