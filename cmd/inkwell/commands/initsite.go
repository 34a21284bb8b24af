package commands

import (
	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/printer"
)

var initCmd = &cobra.Command{
	Use:   "init <folder-name>",
	Short: "Pick the tablet folder your site is built from",
	Long: `Bind a folder on your tablet as the source of the site.

The folder name is normalized (surrounding whitespace trimmed, doubled
spaces collapsed) before the site generator registers it.`,
	Args: cobra.ExactArgs(1),
	RunE: runInitSite,
}

var unlinkFolderCmd = &cobra.Command{
	Use:   "unlink-folder",
	Short: "Forget the bound source folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.UnlinkFolder()
		printer.Success("Folder unlinked\n")
		printer.Info("Next: %s\n", stageHints[a.Stage()])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(unlinkFolderCmd)
}

func runInitSite(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if result := a.InitSite(cmd.Context(), args[0]); !result.Success {
		return printer.Error("Site setup failed", result.Msg, nil)
	}

	printer.Success("Site source configured\n")
	printer.Info("Next: %s\n", stageHints[a.Stage()])
	return nil
}
