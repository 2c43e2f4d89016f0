package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/spaplan/app"
	"github.com/kilianp07/spaplan/config"
)

var waitTimeout time.Duration

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Block until the scheduler has written its results",
	Args:  cobra.NoArgs,
	RunE:  waitScheduled,
}

func init() {
	waitCmd.Flags().DurationVarP(&waitTimeout, "timeout", "t", 0, "give up after this long, overrides wait.timeout_seconds")
	rootCmd.AddCommand(waitCmd)
}

func waitScheduled(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withService(func(cfg *config.Config, svc *app.Service) error {
		timeout := cfg.Wait.Timeout()
		if cmd.Flags().Changed("timeout") {
			timeout = waitTimeout
		}
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		if err := svc.Bridge.WaitScheduled(ctx); err != nil {
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "scheduled")
		return err
	})
}
