package commands

import (
	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/printer"
)

var aliasCmd = &cobra.Command{
	Use:   "alias <alias>",
	Short: "Reserve the public address for your site",
	Long: `Reserve the public URL segment for your published site.

Aliases are globally unique: the hosting service reserves the name for
your account before it is stored locally. A reserved alias never needs
re-reserving.`,
	Args: cobra.ExactArgs(1),
	RunE: runAlias,
}

func init() {
	rootCmd.AddCommand(aliasCmd)
}

func runAlias(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if result := a.SaveSiteAlias(cmd.Context(), args[0]); !result.Success {
		return printer.Error("Alias reservation failed", result.Msg, []string{
			"Pick a different alias and try again",
		})
	}

	printer.Success("Alias reserved\n")
	printer.Printf("Your site will be published at %s\n", a.SiteURL())
	return nil
}
