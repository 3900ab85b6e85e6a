// Package server exposes the desktop-control tool surface over MCP.
package server

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/winmcp/winmcp/internal/analytics"
	"github.com/winmcp/winmcp/internal/capture"
	"github.com/winmcp/winmcp/internal/config"
	"github.com/winmcp/winmcp/internal/platform"
	"github.com/winmcp/winmcp/internal/process"
	"github.com/winmcp/winmcp/internal/tree"
	"github.com/winmcp/winmcp/internal/version"
	"github.com/winmcp/winmcp/internal/window"
)

// Server wires the platform provider, capture orchestrator, and MCP tool
// registrations together. One provider mutex serializes tool execution:
// input injection and UI reads against the same desktop do not interleave
// well.
type Server struct {
	provider   *platform.Provider
	windows    *window.Service
	orch       *capture.Orchestrator
	procs      *process.Service
	cache      *StateCache
	rec        *analytics.Recorder
	log        *slog.Logger
	providerMu sync.Mutex
	mcp        *mcpserver.MCPServer
}

// New builds a fully wired server from configuration.
func New(cfg *config.Config, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	provider, err := platform.NewProvider()
	if err != nil {
		return nil, err
	}

	winsvc := window.NewService(provider.Windows, provider.Processes, log)
	orch := capture.New(winsvc, provider.Automation, provider.Windows, capture.Config{
		PoolSize:      cfg.Capture.PoolSize,
		WindowTimeout: cfg.Capture.WindowTimeout,
		Walker: tree.Config{
			MaxDepth:       cfg.Capture.MaxDepth,
			ChildRetries:   cfg.Capture.ChildRetries,
			DedupTolerance: cfg.Capture.DedupTolerance,
		},
	}, log)

	var rec *analytics.Recorder
	if cfg.Analytics.Enabled {
		rec, err = analytics.Open(cfg.Analytics.Path, log)
		if err != nil {
			// Analytics is best effort; the server runs without it.
			log.Warn("analytics disabled", "error", err)
			rec = nil
		}
	}

	s := &Server{
		provider: provider,
		windows:  winsvc,
		orch:     orch,
		procs:    process.NewService(provider.Processes, log),
		cache:    NewStateCache(cfg.Server.CacheTTL),
		rec:      rec,
		log:      log,
	}
	s.mcp = mcpserver.NewMCPServer("winmcp", version.Version)
	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on the configured transport.
func (s *Server) Serve(transport string, port int) error {
	switch transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", transport)
	}
}

// Close releases server resources.
func (s *Server) Close() error {
	return s.rec.Close()
}

// record logs one tool invocation to the local analytics store.
func (s *Server) record(tool string, ok bool, start time.Time) {
	s.rec.Record(tool, ok, time.Since(start))
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("snapshot",
			mcp.WithDescription("Capture the complete desktop state: open windows, the active window, and all interactive/informative UI elements with labels and screen coordinates. Call this first to understand the desktop before acting."),
		),
		s.handleSnapshot,
	)

	s.mcp.AddTool(
		mcp.NewTool("windows",
			mcp.WithDescription("List top-level windows with process, status, and bounds"),
		),
		s.handleWindows,
	)

	s.mcp.AddTool(
		mcp.NewTool("click",
			mcp.WithDescription("Click a UI element by snapshot label or at screen coordinates"),
			mcp.WithNumber("label", mcp.Description("Element label from the latest snapshot")),
			mcp.WithNumber("x", mcp.Description("Click at X coordinate")),
			mcp.WithNumber("y", mcp.Description("Click at Y coordinate")),
			mcp.WithString("button", mcp.Description("Mouse button: left, right, middle")),
			mcp.WithBoolean("double", mcp.Description("Double-click")),
		),
		s.handleClick,
	)

	s.mcp.AddTool(
		mcp.NewTool("type",
			mcp.WithDescription("Type text, optionally clicking an element first to focus it"),
			mcp.WithString("text", mcp.Description("Text to type"), mcp.Required()),
			mcp.WithNumber("label", mcp.Description("Focus element by snapshot label first")),
			mcp.WithNumber("delay", mcp.Description("Delay between keystrokes in ms")),
		),
		s.handleType,
	)

	s.mcp.AddTool(
		mcp.NewTool("keys",
			mcp.WithDescription("Press a key combination, e.g. 'ctrl+c', 'alt+tab', 'enter'"),
			mcp.WithString("combo", mcp.Description("Key combination"), mcp.Required()),
		),
		s.handleKeys,
	)

	s.mcp.AddTool(
		mcp.NewTool("scroll",
			mcp.WithDescription("Scroll at a screen position or within a labeled element"),
			mcp.WithString("direction", mcp.Description("up, down, left, right"), mcp.Required()),
			mcp.WithNumber("amount", mcp.Description("Scroll clicks (default 3)")),
			mcp.WithNumber("label", mcp.Description("Scroll within element by snapshot label")),
			mcp.WithNumber("x", mcp.Description("Scroll at X coordinate")),
			mcp.WithNumber("y", mcp.Description("Scroll at Y coordinate")),
		),
		s.handleScroll,
	)

	s.mcp.AddTool(
		mcp.NewTool("screenshot",
			mcp.WithDescription("Capture a screenshot of the full virtual screen"),
			mcp.WithNumber("scale", mcp.Description("Scale factor 0.1-1.0 (default 0.5)")),
		),
		s.handleScreenshot,
	)

	s.mcp.AddTool(
		mcp.NewTool("processes",
			mcp.WithDescription("List running processes sorted by memory usage"),
			mcp.WithString("name", mcp.Description("Filter by name substring")),
			mcp.WithNumber("limit", mcp.Description("Max rows (default 20)")),
		),
		s.handleProcesses,
	)

	s.mcp.AddTool(
		mcp.NewTool("kill_process",
			mcp.WithDescription("Terminate a process by pid. Critical system processes are protected."),
			mcp.WithNumber("pid", mcp.Description("Process id"), mcp.Required()),
		),
		s.handleKillProcess,
	)

	s.mcp.AddTool(
		mcp.NewTool("registry_get",
			mcp.WithDescription("Read a registry value"),
			mcp.WithString("path", mcp.Description(`Key path, e.g. HKCU\Software\Foo`), mcp.Required()),
			mcp.WithString("name", mcp.Description("Value name"), mcp.Required()),
		),
		s.handleRegistryGet,
	)

	s.mcp.AddTool(
		mcp.NewTool("registry_set",
			mcp.WithDescription("Write a registry value. Sensitive system keys are refused."),
			mcp.WithString("path", mcp.Description("Key path"), mcp.Required()),
			mcp.WithString("name", mcp.Description("Value name"), mcp.Required()),
			mcp.WithString("value", mcp.Description("Value data"), mcp.Required()),
			mcp.WithString("type", mcp.Description("String, ExpandString, DWord, QWord (default String)")),
		),
		s.handleRegistrySet,
	)

	s.mcp.AddTool(
		mcp.NewTool("registry_delete",
			mcp.WithDescription("Delete a registry value or key. Sensitive system keys are refused."),
			mcp.WithString("path", mcp.Description("Key path"), mcp.Required()),
			mcp.WithString("name", mcp.Description("Value name; omit to delete the key")),
		),
		s.handleRegistryDelete,
	)

	s.mcp.AddTool(
		mcp.NewTool("registry_list",
			mcp.WithDescription("List values and subkeys under a registry key"),
			mcp.WithString("path", mcp.Description("Key path"), mcp.Required()),
		),
		s.handleRegistryList,
	)

	s.mcp.AddTool(
		mcp.NewTool("shell",
			mcp.WithDescription("Run a PowerShell command with a timeout. Destructive command families are blocked."),
			mcp.WithString("command", mcp.Description("Command to run"), mcp.Required()),
			mcp.WithNumber("timeout", mcp.Description("Timeout in seconds (default 10)")),
		),
		s.handleShell,
	)

	s.mcp.AddTool(
		mcp.NewTool("installed_apps",
			mcp.WithDescription("List applications installed in the Start Menu"),
		),
		s.handleInstalledApps,
	)
}
