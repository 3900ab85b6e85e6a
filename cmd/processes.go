package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/winmcp/winmcp/internal/output"
	"github.com/winmcp/winmcp/internal/platform"
	"github.com/winmcp/winmcp/internal/process"
)

var processesCmd = &cobra.Command{
	Use:   "processes",
	Short: "List running processes",
	Long:  "List running processes sorted by memory usage, optionally filtered by name.",
	RunE:  runProcesses,
}

func init() {
	rootCmd.AddCommand(processesCmd)
	processesCmd.Flags().String("name", "", "Filter by name substring")
	processesCmd.Flags().Int("limit", 20, "Maximum rows")
}

func runProcesses(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	limit, _ := cmd.Flags().GetInt("limit")

	procs, err := process.NewService(provider.Processes, nil).List(name, limit)
	if err != nil {
		return err
	}
	return output.Print(os.Stdout, outputFormat, procs)
}
