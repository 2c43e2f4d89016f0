package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/spaplan/app"
	"github.com/kilianp07/spaplan/config"
	"github.com/kilianp07/spaplan/pkg/manifest"
)

var writeCmd = &cobra.Command{
	Use:   "write <manifest>",
	Short: "Write the SPA request files for a plan manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  writePlan,
}

func init() {
	rootCmd.AddCommand(writeCmd)
}

func writePlan(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}
	plan, err := m.Plan()
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return withService(func(_ *config.Config, svc *app.Service) error {
		if err := svc.Bridge.WritePlan(plan); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %d modules to %s\n", len(plan.Modules()), svc.Bridge.Dir().Path())
		return err
	})
}
