// Package cmd holds the winmcp command-line interface.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/winmcp/winmcp/internal/config"
	"github.com/winmcp/winmcp/internal/output"
	"github.com/winmcp/winmcp/internal/version"

	// Register the Windows platform provider.
	_ "github.com/winmcp/winmcp/internal/platform/win"
)

var rootCmd = &cobra.Command{
	Use:   "winmcp",
	Short: "Control the Windows desktop from AI agents",
	Long:  "An MCP server and CLI that lets AI agents observe and control the Windows desktop through UI Automation.",
}

// outputFormat is resolved once in the persistent pre-run and used by every
// subcommand that prints a result.
var outputFormat output.Format

// cfg is loaded once before any command runs.
var cfg *config.Config

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "", "Output format: yaml, json, agent")
	rootCmd.PersistentFlags().String("config", "", "Config file path")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		// Logs go to stderr; stdout carries results (and the MCP stdio
		// transport).
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		configPath, _ := rootCmd.PersistentFlags().GetString("config")
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		format, _ := rootCmd.PersistentFlags().GetString("format")

		// Smart default: piped output means an agent is reading, so use the
		// compact agent format; a terminal gets yaml.
		if format == "" {
			if output.IsOutputPiped() {
				format = "agent"
			} else {
				format = "yaml"
			}
		}

		switch format {
		case "yaml":
			outputFormat = output.FormatYAML
		case "json":
			outputFormat = output.FormatJSON
		case "agent":
			outputFormat = output.FormatAgent
		default:
			return fmt.Errorf("unsupported format: %s (use yaml, json, or agent)", format)
		}
		return nil
	}
}
