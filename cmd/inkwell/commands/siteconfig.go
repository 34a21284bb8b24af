package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/appdata"
	"github.com/inkwell-app/inkwell/internal/printer"
)

var (
	siteTitle string
	siteTheme string
)

var siteConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the site configuration",
}

var siteConfigShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current site configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		loaded, err := a.LoadSiteConfig()
		if err != nil {
			if errors.Is(err, appdata.ErrNotFound) {
				return printer.Error("No site is configured", "Nothing has been set up yet.", []string{
					"Run 'inkwell init <folder-name>' first",
				})
			}
			return err
		}

		printer.Printf("Folder: %s\n", loaded.SiteRoot)
		printer.Printf("Title:  %s\n", loaded.Title)
		printer.Printf("Theme:  %s\n", loaded.Theme)
		if loaded.Alias != "" {
			printer.Printf("Alias:  %s\n", loaded.Alias)
		} else {
			printer.Info("No alias reserved yet - run 'inkwell alias <alias>' before publishing\n")
		}
		return nil
	},
}

var siteConfigSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the site title or theme",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		loaded, err := a.LoadSiteConfig()
		if err != nil {
			if errors.Is(err, appdata.ErrNotFound) {
				return printer.Error("No site is configured", "Nothing has been set up yet.", []string{
					"Run 'inkwell init <folder-name>' first",
				})
			}
			return err
		}

		if cmd.Flags().Changed("title") {
			loaded.Title = siteTitle
		}
		if cmd.Flags().Changed("theme") {
			loaded.Theme = siteTheme
		}
		if err := a.SaveSiteConfig(loaded.Config); err != nil {
			return err
		}

		printer.Success("Site configuration saved\n")
		return nil
	},
}

func init() {
	siteConfigSetCmd.Flags().StringVar(&siteTitle, "title", "", "Site title")
	siteConfigSetCmd.Flags().StringVar(&siteTheme, "theme", "", "Site theme")
	siteConfigCmd.AddCommand(siteConfigShowCmd)
	siteConfigCmd.AddCommand(siteConfigSetCmd)
	rootCmd.AddCommand(siteConfigCmd)
}
