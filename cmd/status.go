package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/spaplan/app"
	"github.com/kilianp07/spaplan/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which exchange files are present",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(func(_ *config.Config, svc *app.Service) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "dir: %s\nwritten: %t\nscheduled: %t\n",
				svc.Bridge.Dir().Path(), svc.Bridge.IsWritten(), svc.Bridge.IsScheduled())
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
