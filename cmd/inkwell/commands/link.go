package commands

import (
	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/printer"
)

var linkCmd = &cobra.Command{
	Use:   "link <one-time-code>",
	Short: "Link your tablet account",
	Long: `Link your tablet account using the one-time code shown on the device.

On success the device credential is stored locally; it can be removed
again with 'inkwell unlink-device'.`,
	Args: cobra.ExactArgs(1),
	RunE: runLink,
}

var unlinkDeviceCmd = &cobra.Command{
	Use:   "unlink-device",
	Short: "Remove the linked tablet account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.UnlinkDevice()
		printer.Success("Device unlinked\n")
		printer.Info("Next: %s\n", stageHints[a.Stage()])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(unlinkDeviceCmd)
}

func runLink(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if result := a.LinkDevice(cmd.Context(), args[0]); !result.Success {
		return printer.Error("Device link failed", result.Msg, []string{
			"Check that the one-time code was copied exactly as shown on the tablet",
			"Generate a fresh code - they expire quickly",
		})
	}

	printer.Success("Device linked\n")
	printer.Info("Next: %s\n", stageHints[a.Stage()])
	return nil
}
