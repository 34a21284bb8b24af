package commands

import (
	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/printer"
)

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Delete the fetched material and generated site",
	Long: `Delete the locally cached notebook material and the generated site.

Nothing else is touched; the next 'inkwell preview' rebuilds both from
the cloud.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.ClearCache()
		printer.Success("Cache cleared\n")
		return nil
	},
}

var startOverCmd = &cobra.Command{
	Use:   "start-over",
	Short: "Unlink everything and return to first launch",
	Long: `Delete every stored artifact: consent, device link, alias,
subscription marker, login session, and the cached material and build
trees. The next command starts onboarding from the beginning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.StartOver()
		printer.Success("All local state removed\n")
		printer.Info("Next: %s\n", stageHints[a.Stage()])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCacheCmd)
	rootCmd.AddCommand(startOverCmd)
}
