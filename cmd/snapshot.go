package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/winmcp/winmcp/internal/capture"
	"github.com/winmcp/winmcp/internal/output"
	"github.com/winmcp/winmcp/internal/platform"
	"github.com/winmcp/winmcp/internal/tree"
	"github.com/winmcp/winmcp/internal/window"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture the desktop state with all labeled UI elements",
	Long: `Walk the accessibility tree of every open window and print the desktop
state: windows, the active window, and the interactive and informative
elements with their labels and screen coordinates.`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().Int("max-depth", 0, "Maximum tree depth per window (0 = default)")
	snapshotCmd.Flags().Int("pool", 0, "Concurrent window walks (0 = default)")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	conf := cfg.Snapshot()
	captureCfg := capture.Config{
		PoolSize:      conf.Capture.PoolSize,
		WindowTimeout: conf.Capture.WindowTimeout,
		Walker: tree.Config{
			MaxDepth:       conf.Capture.MaxDepth,
			ChildRetries:   conf.Capture.ChildRetries,
			DedupTolerance: conf.Capture.DedupTolerance,
		},
	}
	if depth, _ := cmd.Flags().GetInt("max-depth"); depth > 0 {
		captureCfg.Walker.MaxDepth = depth
	}
	if pool, _ := cmd.Flags().GetInt("pool"); pool > 0 {
		captureCfg.PoolSize = pool
	}

	winsvc := window.NewService(provider.Windows, provider.Processes, nil)
	orch := capture.New(winsvc, provider.Automation, provider.Windows, captureCfg, nil)

	state, err := orch.Capture(context.Background())
	if err != nil {
		return err
	}
	return output.Print(os.Stdout, outputFormat, output.SnapshotResult{State: state})
}
