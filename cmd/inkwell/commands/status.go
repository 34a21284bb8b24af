package commands

import (
	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/bootstrap"
	"github.com/inkwell-app/inkwell/internal/printer"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current onboarding stage",
	Long: `Show which onboarding stage is currently authoritative.

The stage is recomputed from the artifacts on disk every time, in fixed
order: consent, device link, site setup, designer. The first unmet
precondition wins.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

var stageHints = map[bootstrap.Stage]string{
	bootstrap.StageConsent:    "Run 'inkwell consent confirm' to accept the terms of service.",
	bootstrap.StageDeviceLink: "Run 'inkwell link <one-time-code>' to link your tablet.",
	bootstrap.StageSiteSetup:  "Run 'inkwell init <folder-name>' to pick the source folder.",
	bootstrap.StageDesigner:   "Run 'inkwell preview' to build your site, 'inkwell publish' to publish it.",
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	stage := a.Stage()
	printer.Printf("Stage: %s\n", stage)
	printer.Info("%s\n", stageHints[stage])

	if url := a.SiteURL(); url != "" {
		printer.Printf("Site:  %s\n", url)
	}
	return nil
}
