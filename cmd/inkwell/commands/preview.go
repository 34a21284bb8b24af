package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/printer"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Fetch your notebooks, build the site, and serve it locally",
	Long: `Run the build pipeline and serve the result on a local address.

Fetch mirrors your notebook content from the cloud; Generate turns it
into a static site. If Fetch fails, Generate is not attempted. The
preview URL carries a cache-busting parameter, so reloading it always
shows the latest build.

The server keeps running until interrupted; re-running the command in
another terminal rebuilds the content in place.`,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	printer.Step("Fetching notebooks and generating site...\n")
	result := a.LoadPreview(cmd.Context())
	if !result.Success {
		return printer.Error("Preview build failed", result.Msg, []string{
			"Run 'inkwell status' to check that setup is complete",
			"Try again - transient cloud errors are common",
		})
	}

	printer.Success("Site built\n")
	printer.Printf("Preview: %s\n", result.URL)
	printer.Info("Serving until interrupted (Ctrl-C to stop)\n")

	// Serve until the process is interrupted. The pipeline is done; the
	// preview server is the only thing left running.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	<-signals

	return nil
}
