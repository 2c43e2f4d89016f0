package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/spaplan/app"
	"github.com/kilianp07/spaplan/config"
	"github.com/kilianp07/spaplan/core/runlog"
)

var (
	historyOp    string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded bridge operations",
	Args:  cobra.NoArgs,
	RunE:  listHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyOp, "op", "", "only show this operation, e.g. read_schedule")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "show at most this many records, 0 for all")
	rootCmd.AddCommand(historyCmd)
}

func listHistory(cmd *cobra.Command, _ []string) error {
	return withService(func(cfg *config.Config, svc *app.Service) error {
		if cfg.History.Backend == "none" {
			return fmt.Errorf("history is disabled, set history.backend")
		}
		recs, err := svc.History.Query(cmd.Context(), runlog.Query{Operation: historyOp, Limit: historyLimit})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, r := range recs {
			line := fmt.Sprintf("%s  %-14s %-17s files=%d rows=%d %dms  %s",
				r.Timestamp.Local().Format(time.DateTime), r.Operation, r.Outcome, r.Files, r.Rows, r.DurationMS, r.Dir)
			if r.Error != "" {
				line += "\n    " + r.Error
			}
			if _, err := fmt.Fprintln(out, line); err != nil {
				return err
			}
		}
		return nil
	})
}
