package cmd

import (
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/winmcp/winmcp/internal/output"
	"github.com/winmcp/winmcp/internal/platform"
	"github.com/winmcp/winmcp/internal/window"
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List installed applications",
	Long:  "List applications found in the Start Menu program folders.",
	RunE:  runApps,
}

func init() {
	rootCmd.AddCommand(appsCmd)
}

// appEntry is the YAML output for one installed application.
type appEntry struct {
	Name string `yaml:"name" json:"name"`
	Path string `yaml:"path" json:"path"`
}

func runApps(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	apps := window.NewService(provider.Windows, provider.Processes, nil).InstalledApps()
	entries := make([]appEntry, 0, len(apps))
	for name, path := range apps {
		entries = append(entries, appEntry{Name: name, Path: path})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return output.Print(os.Stdout, outputFormat, entries)
}
