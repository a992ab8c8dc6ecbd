package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newTrackersCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trackers",
		Short: "Manage the stored tracker announce URLs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.trackerStore()
			if err != nil {
				return err
			}
			return newPrompter(cmd).ManageTrackers(store)
		},
	}
	cmd.AddCommand(newTrackersListCommand(ctx))
	cmd.AddCommand(newTrackersAddCommand(ctx))
	cmd.AddCommand(newTrackersRemoveCommand(ctx))
	return cmd
}

func newTrackersListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored trackers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.trackerStore()
			if err != nil {
				return err
			}
			list, err := store.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintf(out, "No trackers stored in %s\n", store.Path())
				return nil
			}
			rows := make([][]string, 0, len(list))
			for i, tr := range list {
				rows = append(rows, []string{strconv.Itoa(i + 1), tr.Name, tr.URL})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Name", "Announce URL"}, rows, []columnAlignment{alignRight}))
			return nil
		},
	}
}

func newTrackersAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <announce-url>",
		Short: "Add a tracker",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.trackerStore()
			if err != nil {
				return err
			}
			added, err := store.Add(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added tracker: %s\n", added.Name)
			return nil
		},
	}
}

func newTrackersRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <number>",
		Short: "Remove a tracker by its number in 'trackers list'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid tracker number %q", args[0])
			}
			store, err := ctx.trackerStore()
			if err != nil {
				return err
			}
			removed, err := store.Remove(index)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted tracker: %s\n", removed.Name)
			return nil
		},
	}
}
