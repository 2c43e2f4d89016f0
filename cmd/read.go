package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/spaplan/app"
	"github.com/kilianp07/spaplan/config"
	"github.com/kilianp07/spaplan/core/model"
	"github.com/kilianp07/spaplan/pkg/manifest"
)

var readOut string

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the SPA request files back into a plan",
	Args:  cobra.NoArgs,
	RunE:  readPlan,
}

func init() {
	readCmd.Flags().StringVarP(&readOut, "out", "o", "", "write the plan as a manifest to this file")
	rootCmd.AddCommand(readCmd)
}

func readPlan(cmd *cobra.Command, _ []string) error {
	return withService(func(_ *config.Config, svc *app.Service) error {
		plan, err := svc.Bridge.ReadPlan()
		if err != nil {
			return err
		}
		if readOut != "" {
			return savePlan(readOut, plan)
		}
		selected := 0
		for _, g := range plan.Groups() {
			if g.Selected() {
				selected++
			}
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "modules: %d\ngroups: %d (%d selected)\n",
			len(plan.Modules()), len(plan.Groups()), selected)
		return err
	})
}

func savePlan(path string, plan *model.Plan) error {
	m, err := manifest.FromPlan(plan)
	if err != nil {
		return err
	}
	return manifest.Save(path, m)
}
