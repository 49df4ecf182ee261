package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hydrotools/summaflow/pkg/history"
)

var runsLimit int

// NewRunsCmd creates the `runs` command over the history ledger.
func NewRunsCmd() *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List and inspect past runs",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(history.DefaultPath())
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(context.Background(), runsLimit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("no runs recorded")
				return nil
			}
			for _, r := range records {
				id := r.Suffix
				if r.Ensemble != "" {
					id = r.Ensemble + "/" + r.Suffix
				}
				fmt.Printf("%4d  %s  %s  %s  %s\n",
					r.ID,
					r.StartedAt.Local().Format(time.DateTime),
					statusLabel(r.Status),
					id,
					dimStyle.Sprint(formatDuration(r.Duration)),
				)
			}
			return nil
		},
	}
	listCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Maximum runs to show (0 for all)")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}
			store, err := history.Open(history.DefaultPath())
			if err != nil {
				return err
			}
			defer store.Close()

			r, err := store.Get(context.Background(), id)
			if err != nil {
				return err
			}
			fmt.Printf("suffix:       %s\n", r.Suffix)
			if r.Ensemble != "" {
				fmt.Printf("ensemble:     %s\n", r.Ensemble)
			}
			fmt.Printf("status:       %s\n", statusLabel(r.Status))
			fmt.Printf("mode:         %s\n", r.Mode)
			fmt.Printf("file manager: %s\n", r.FileManager)
			fmt.Printf("started:      %s\n", r.StartedAt.Local().Format(time.DateTime))
			fmt.Printf("duration:     %s\n", formatDuration(r.Duration))
			if r.OutputPath != "" {
				fmt.Printf("output:       %s\n", r.OutputPath)
			}
			if r.Error != "" {
				fmt.Printf("error:        %s\n", r.Error)
			}
			return nil
		},
	}

	runsCmd.AddCommand(listCmd)
	runsCmd.AddCommand(showCmd)
	return runsCmd
}
