package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/winmcp/winmcp/internal/output"
	"github.com/winmcp/winmcp/internal/platform"
	"github.com/winmcp/winmcp/internal/window"
)

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List open top-level windows",
	Long:  "List visible top-level windows with their process, status, and bounds.",
	RunE:  runWindows,
}

func init() {
	rootCmd.AddCommand(windowsCmd)
}

func runWindows(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	winsvc := window.NewService(provider.Windows, provider.Processes, nil)
	windows, err := winsvc.ListWindows()
	if err != nil {
		return err
	}
	return output.Print(os.Stdout, outputFormat, windows)
}
