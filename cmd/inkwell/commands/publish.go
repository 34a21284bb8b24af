package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/auth"
	"github.com/inkwell-app/inkwell/internal/printer"
	"github.com/inkwell-app/inkwell/internal/publish"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish your site",
	Long: `Package the fetched notebook material and upload it to the hosting
service. Requires a reserved alias and a valid login session.

Run 'inkwell preview' first so there is current material to publish.`,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	printer.Step("Publishing...\n")
	status, err := a.Publish(cmd.Context())
	if err != nil {
		switch {
		case errors.Is(err, publish.ErrAliasRequired):
			return printer.Error("No alias reserved", "Your site needs a public address before it can be published.", []string{
				"Run 'inkwell alias <alias>' to reserve one",
			})
		case errors.Is(err, auth.ErrNotAuthenticated):
			return printer.Error("Not logged in", "Publishing requires a login session.", []string{
				"Run 'inkwell login <refresh-token>' first",
			})
		default:
			return printer.Error("Publish failed", err.Error(), []string{
				"Try again - this attempt has been fully rolled back",
			})
		}
	}

	// The pipeline hands back the raw status; success is the 200-399 range.
	if status >= 200 && status < 400 {
		printer.Success("Site published (status %d)\n", status)
		printer.Printf("Live at %s\n", a.SiteURL())
		return nil
	}
	return printer.Error("Hosting service rejected the upload", fmt.Sprintf("The server answered with status %d.", status), []string{
		"Try publishing again",
	})
}
