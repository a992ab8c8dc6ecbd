package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"blacksys/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string
	var runs bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded transcode outcomes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cmd.Context(), cfg.Paths.StateDir)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if runs {
				list, err := store.Runs(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(list))
				for _, r := range list {
					finished := ""
					if !r.FinishedAt.IsZero() {
						finished = r.FinishedAt.Local().Format("2006-01-02 15:04:05")
					}
					rows = append(rows, []string{r.ID, r.Kind, r.StartedAt.Local().Format("2006-01-02 15:04:05"), finished, strconv.Itoa(r.Albums)})
				}
				fmt.Fprintln(out, renderTable([]string{"Run", "Kind", "Started", "Finished", "Albums"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight}))
				return nil
			}

			var outcomes []history.Outcome
			if runID != "" {
				outcomes, err = store.ForRun(cmd.Context(), runID)
			} else {
				outcomes, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			if len(outcomes) == 0 {
				fmt.Fprintln(out, "No outcomes recorded")
				return nil
			}
			rows := make([][]string, 0, len(outcomes))
			for _, o := range outcomes {
				files := ""
				if o.Status != history.StatusSkipped {
					files = fmt.Sprintf("%d/%d", o.FilesOK, o.FilesOK+o.FilesFailed)
				}
				rows = append(rows, []string{
					o.RecordedAt.Local().Format("2006-01-02 15:04"),
					o.Album,
					o.Preset,
					files,
					string(o.Status),
					o.Error,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"When", "Album", "Preset", "Files", "Status", "Error"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of rows")
	cmd.Flags().StringVar(&runID, "run", "", "Show the outcomes of one run")
	cmd.Flags().BoolVar(&runs, "runs", false, "List runs instead of outcomes")
	return cmd
}
