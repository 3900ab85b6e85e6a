package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/winmcp/winmcp/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing desktop control tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes the desktop
snapshot and input tools. AI agents call tools directly without shell
overhead.

Supported transports:
  stdio             Standard I/O (default, for Claude Code / MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  winmcp serve
  winmcp serve --transport streamable-http --port 8931
  winmcp serve --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 0, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", -1, "Snapshot cache TTL in milliseconds (0 to disable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Flags override the config file when set. The command works on a
	// snapshot copy so a config hot reload cannot race these reads.
	conf := cfg.Snapshot()
	if transport, _ := cmd.Flags().GetString("transport"); transport != "" {
		conf.Server.Transport = transport
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		conf.Server.Port = port
	}
	if ttlMs, _ := cmd.Flags().GetInt("cache-ttl"); ttlMs >= 0 {
		conf.Server.CacheTTL = time.Duration(ttlMs) * time.Millisecond
	}

	srv, err := server.New(&conf, nil)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer srv.Close()

	return srv.Serve(conf.Server.Transport, conf.Server.Port)
}
