package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"blacksys/internal/tags"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "inspect <file>...",
		Short:       "Print the tags of MP3 or FLAC files",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, path := range args {
				summary, err := tags.Inspect(path)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				track := strconv.Itoa(summary.Track)
				if summary.TrackTotal > 0 {
					track += "/" + strconv.Itoa(summary.TrackTotal)
				}
				fmt.Fprintf(out, "%s (%s)\n", path, summary.Format)
				fmt.Fprintf(out, "  %s - %s - %s [%s] cover: %s\n", summary.Artist, summary.Album, summary.Title, track, yesNo(summary.HasPicture))

				rows := make([][]string, 0, len(summary.Fields))
				for _, f := range summary.Fields {
					rows = append(rows, []string{f.Frame, f.Description, f.Value})
				}
				fmt.Fprintln(out, renderTable([]string{"Frame", "Description", "Value"}, rows, nil))
			}
			return nil
		},
	}
}
