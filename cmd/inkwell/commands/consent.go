package commands

import (
	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/printer"
)

var consentCmd = &cobra.Command{
	Use:   "consent",
	Short: "Accept or decline the terms of service",
}

var consentConfirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Accept the terms of service",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if result := a.ConfirmConsent(); !result.Success {
			return printer.Error("Failed to record consent", result.Msg, nil)
		}
		printer.Success("Terms of service accepted\n")
		printer.Info("Next: %s\n", stageHints[a.Stage()])
		return nil
	},
}

var consentDeclineCmd = &cobra.Command{
	Use:   "decline",
	Short: "Decline the terms of service",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.DeclineConsent()
		printer.Warning("Terms of service declined - inkwell can't be used until they are accepted\n")
		return nil
	},
}

func init() {
	consentCmd.AddCommand(consentConfirmCmd)
	consentCmd.AddCommand(consentDeclineCmd)
	rootCmd.AddCommand(consentCmd)
}
