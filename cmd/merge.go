package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/spaplan/app"
	"github.com/kilianp07/spaplan/config"
	"github.com/kilianp07/spaplan/pkg/manifest"
)

var mergeOut string

var mergeCmd = &cobra.Command{
	Use:   "merge <manifest>",
	Short: "Merge the scheduler's results into a plan manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  mergeSchedule,
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOut, "out", "o", "", "output manifest, defaults to stdout")
	rootCmd.AddCommand(mergeCmd)
}

func mergeSchedule(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}
	plan, err := m.Plan()
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return withService(func(_ *config.Config, svc *app.Service) error {
		if err := svc.Bridge.ReadSchedule(plan); err != nil {
			return err
		}
		if mergeOut != "" {
			return savePlan(mergeOut, plan)
		}
		merged, err := manifest.FromPlan(plan)
		if err != nil {
			return err
		}
		return manifest.Encode(cmd.OutOrStdout(), merged)
	})
}
