package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/spaplan/app"
	"github.com/kilianp07/spaplan/config"
	"github.com/kilianp07/spaplan/pkg/export"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the schedule found in the working directory",
	Args:  cobra.NoArgs,
	RunE:  exportSchedule,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format: json or csv")
	rootCmd.AddCommand(exportCmd)
}

func exportSchedule(cmd *cobra.Command, _ []string) error {
	if exportFormat != "json" && exportFormat != "csv" {
		return fmt.Errorf("unknown format %q", exportFormat)
	}
	return withService(func(_ *config.Config, svc *app.Service) error {
		plan, err := svc.Bridge.ReadPlan()
		if err != nil {
			return err
		}
		if err := svc.Bridge.ReadSchedule(plan); err != nil {
			return err
		}
		entries, err := export.Entries(plan)
		if err != nil {
			return err
		}
		if exportFormat == "csv" {
			return export.WriteCSV(cmd.OutOrStdout(), entries)
		}
		return export.WriteJSON(cmd.OutOrStdout(), entries)
	})
}
