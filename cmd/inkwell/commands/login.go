package commands

import (
	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/auth"
	"github.com/inkwell-app/inkwell/internal/printer"
)

var loginCmd = &cobra.Command{
	Use:   "login <refresh-token>",
	Short: "Store a login session for publishing",
	Long: `Store the refresh token obtained from the browser login flow.

The token is exchanged for a fresh id token immediately, both to verify
it and so the first publish doesn't have to.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Delete the stored login session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.Logout()
		printer.Success("Logged out\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if err := a.Auth.SaveSession(auth.Session{RefreshToken: args[0]}); err != nil {
		return err
	}
	if _, err := a.Auth.Login(cmd.Context()); err != nil {
		return printer.Error("Login failed", err.Error(), []string{
			"Obtain a fresh refresh token from the browser flow and retry",
		})
	}

	printer.Success("Logged in\n")
	return nil
}
