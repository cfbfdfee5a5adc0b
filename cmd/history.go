package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"mnavtracker/config"
	"mnavtracker/history"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs recorded in the history database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.HistoryPath == "" {
			return &config.InitError{Op: "history", Err: errors.New("history_path is not configured")}
		}

		store, err := history.Open(cfg.HistoryPath)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "STARTED\tOUTCOME\tZEROS\tDURATION\tRUN\tERROR")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
				r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Outcome, r.ZeroCount,
				r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond), r.ID, r.Error)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}
