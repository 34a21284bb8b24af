package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/app"
	"github.com/inkwell-app/inkwell/internal/config"
)

var (
	version string
	commit  string
	date    string

	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Inkwell - publish your tablet notebooks as a website",
	Long: `Inkwell turns the notebooks on your tablet into a published personal
website. Link your device once, pick a source folder, preview the
generated site locally, and publish it to your inkwell.site address.

All state lives as plain files under one data directory; every command
re-reads it, so you can always see where you are with 'inkwell status'.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "inkwell.yml", "Path to the optional configuration file")
}

// newApp loads configuration and builds the application session shared
// by every command implementation.
func newApp() (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}
