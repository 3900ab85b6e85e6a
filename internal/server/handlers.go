package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	xdraw "golang.org/x/image/draw"
	"gopkg.in/yaml.v3"

	"github.com/winmcp/winmcp/internal/geometry"
	"github.com/winmcp/winmcp/internal/output"
	"github.com/winmcp/winmcp/internal/platform"
	"github.com/winmcp/winmcp/internal/registry"
)

// clickSampleScale shrinks an element's box around its center before
// sampling the click point, keeping jittered clicks well inside the target.
const clickSampleScale = 0.5

// ActionResult is the YAML body returned by write tools.
type ActionResult struct {
	OK     bool   `yaml:"ok"`
	Action string `yaml:"action"`
	Detail string `yaml:"detail,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

// resultToText serializes an ActionResult for the MCP response.
func resultToText(result ActionResult) string {
	b, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Sprintf("ok: %v\naction: %s\nerror: %s", result.OK, result.Action, result.Error)
	}
	return string(b)
}

func (s *Server) actionOK(tool, detail string, start time.Time) (*mcp.CallToolResult, error) {
	s.record(tool, true, start)
	return mcp.NewToolResultText(resultToText(ActionResult{OK: true, Action: tool, Detail: detail})), nil
}

func (s *Server) actionErr(tool string, start time.Time, err error) (*mcp.CallToolResult, error) {
	s.record(tool, false, start)
	return mcp.NewToolResultError(resultToText(ActionResult{Action: tool, Error: err.Error()})), nil
}

func (s *Server) handleSnapshot(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	s.providerMu.Lock()
	state, err := s.cache.Get(ctx, s.orch.Capture)
	s.providerMu.Unlock()
	if err != nil {
		return s.actionErr("snapshot", start, err)
	}

	s.record("snapshot", true, start)
	return mcp.NewToolResultText(output.SnapshotResult{State: state}.AgentString()), nil
}

func (s *Server) handleWindows(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	s.providerMu.Lock()
	windows, err := s.windows.ListWindows()
	s.providerMu.Unlock()
	if err != nil {
		return s.actionErr("windows", start, err)
	}

	b, err := yaml.Marshal(windows)
	if err != nil {
		return s.actionErr("windows", start, err)
	}
	s.record("windows", true, start)
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handleClick(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	params := request.GetArguments()
	button := mouseButton(stringParam(params, "button", "left"))
	count := 1
	if boolParam(params, "double", false) {
		count = 2
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	x, y, desc, err := s.resolvePoint(params)
	if err != nil {
		return s.actionErr("click", start, err)
	}
	if err := s.provider.Inputter.Click(x, y, button, count); err != nil {
		return s.actionErr("click", start, err)
	}
	s.cache.Invalidate()
	return s.actionOK("click", fmt.Sprintf("clicked %s at (%d,%d)", desc, x, y), start)
}

func (s *Server) handleType(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	params := request.GetArguments()
	text := stringParam(params, "text", "")
	delay := time.Duration(intParam(params, "delay", 0)) * time.Millisecond

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	if hasParam(params, "label") {
		x, y, _, err := s.resolvePoint(params)
		if err != nil {
			return s.actionErr("type", start, err)
		}
		if err := s.provider.Inputter.Click(x, y, platform.MouseLeft, 1); err != nil {
			return s.actionErr("type", start, err)
		}
	}
	if err := s.provider.Inputter.TypeText(text, delay); err != nil {
		return s.actionErr("type", start, err)
	}
	s.cache.Invalidate()
	return s.actionOK("type", fmt.Sprintf("typed %d characters", len(text)), start)
}

func (s *Server) handleKeys(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	combo := stringParam(request.GetArguments(), "combo", "")
	if combo == "" {
		return s.actionErr("keys", start, fmt.Errorf("combo parameter is required"))
	}

	keys := strings.Split(strings.ToLower(combo), "+")
	for i := range keys {
		keys[i] = strings.TrimSpace(keys[i])
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	if err := s.provider.Inputter.KeyCombo(keys); err != nil {
		return s.actionErr("keys", start, err)
	}
	s.cache.Invalidate()
	return s.actionOK("keys", fmt.Sprintf("pressed %s", combo), start)
}

func (s *Server) handleScroll(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	params := request.GetArguments()
	direction := stringParam(params, "direction", "down")
	amount := intParam(params, "amount", 3)

	var dx, dy int
	switch direction {
	case "up":
		dy = amount
	case "down":
		dy = -amount
	case "left":
		dx = -amount
	case "right":
		dx = amount
	default:
		return s.actionErr("scroll", start, fmt.Errorf("unknown scroll direction %q", direction))
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	x, y, err := s.scrollPoint(params)
	if err != nil {
		return s.actionErr("scroll", start, err)
	}
	if err := s.provider.Inputter.Scroll(x, y, dx, dy); err != nil {
		return s.actionErr("scroll", start, err)
	}
	s.cache.Invalidate()
	return s.actionOK("scroll", fmt.Sprintf("scrolled %s by %d", direction, amount), start)
}

func (s *Server) handleScreenshot(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	scale := floatParam(request.GetArguments(), "scale", 0.5)
	if scale <= 0 || scale > 1 {
		scale = 0.5
	}

	s.providerMu.Lock()
	img, err := s.provider.Screenshotter.CaptureScreen()
	s.providerMu.Unlock()
	if err != nil {
		return s.actionErr("screenshot", start, err)
	}

	if scale < 1 {
		img = scaleImage(img, scale)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return s.actionErr("screenshot", start, err)
	}

	s.record("screenshot", true, start)
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.ImageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
				MIMEType: "image/png",
			},
		},
	}, nil
}

func (s *Server) handleProcesses(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	params := request.GetArguments()
	name := stringParam(params, "name", "")
	limit := intParam(params, "limit", 20)

	procs, err := s.procs.List(name, limit)
	if err != nil {
		return s.actionErr("processes", start, err)
	}
	b, err := yaml.Marshal(procs)
	if err != nil {
		return s.actionErr("processes", start, err)
	}
	s.record("processes", true, start)
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handleKillProcess(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	pid := intParam(request.GetArguments(), "pid", 0)
	if pid <= 0 {
		return s.actionErr("kill_process", start, fmt.Errorf("pid parameter is required"))
	}
	if err := s.procs.Kill(pid); err != nil {
		return s.actionErr("kill_process", start, err)
	}
	return s.actionOK("kill_process", fmt.Sprintf("terminated pid %d", pid), start)
}

func (s *Server) handleRegistryGet(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	params := request.GetArguments()
	path := stringParam(params, "path", "")
	name := stringParam(params, "name", "")

	value, err := s.provider.Registry.Get(path, name)
	if err != nil {
		return s.actionErr("registry_get", start, err)
	}
	b, err := yaml.Marshal(value)
	if err != nil {
		return s.actionErr("registry_get", start, err)
	}
	s.record("registry_get", true, start)
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handleRegistrySet(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	params := request.GetArguments()
	path := stringParam(params, "path", "")
	name := stringParam(params, "name", "")
	value := stringParam(params, "value", "")
	valueType := stringParam(params, "type", "String")

	if err := checkRegistryWrite(path); err != nil {
		return s.actionErr("registry_set", start, err)
	}
	if err := s.provider.Registry.Set(path, name, value, valueType); err != nil {
		return s.actionErr("registry_set", start, err)
	}
	return s.actionOK("registry_set", fmt.Sprintf("set %s\\%s", path, name), start)
}

func (s *Server) handleRegistryDelete(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	params := request.GetArguments()
	path := stringParam(params, "path", "")
	name := stringParam(params, "name", "")

	if err := checkRegistryWrite(path); err != nil {
		return s.actionErr("registry_delete", start, err)
	}
	if err := s.provider.Registry.Delete(path, name); err != nil {
		return s.actionErr("registry_delete", start, err)
	}
	return s.actionOK("registry_delete", fmt.Sprintf("deleted %s\\%s", path, name), start)
}

func (s *Server) handleRegistryList(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	path := stringParam(request.GetArguments(), "path", "")

	values, subkeys, err := s.provider.Registry.List(path)
	if err != nil {
		return s.actionErr("registry_list", start, err)
	}
	b, err := yaml.Marshal(map[string]interface{}{
		"values":  values,
		"subkeys": subkeys,
	})
	if err != nil {
		return s.actionErr("registry_list", start, err)
	}
	s.record("registry_list", true, start)
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handleShell(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	params := request.GetArguments()
	command := stringParam(params, "command", "")
	timeout := time.Duration(intParam(params, "timeout", 10)) * time.Second

	out, status, err := s.provider.Shell.Execute(command, timeout)
	if err != nil {
		return s.actionErr("shell", start, err)
	}
	b, merr := yaml.Marshal(map[string]interface{}{
		"status": status,
		"output": out,
	})
	if merr != nil {
		return s.actionErr("shell", start, merr)
	}
	s.record("shell", true, start)
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handleInstalledApps(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	apps := s.windows.InstalledApps()

	names := make([]string, 0, len(apps))
	for name := range apps {
		names = append(names, name)
	}
	sort.Strings(names)
	b, err := yaml.Marshal(names)
	if err != nil {
		return s.actionErr("installed_apps", start, err)
	}
	s.record("installed_apps", true, start)
	return mcp.NewToolResultText(string(b)), nil
}

// resolvePoint turns label or x/y parameters into a screen coordinate. Label
// resolution reads the last snapshot without refreshing, so the point matches
// what the agent saw; a clicked label samples a jittered point inside the
// element. Caller holds providerMu.
func (s *Server) resolvePoint(params map[string]interface{}) (x, y int, desc string, err error) {
	if hasParam(params, "label") {
		label := intParam(params, "label", -1)
		state := s.cache.Last()
		if state == nil {
			return 0, 0, "", fmt.Errorf("no snapshot yet; call snapshot first")
		}
		node, err := state.FindNode(label)
		if err != nil {
			return 0, 0, "", err
		}
		p := geometry.RandomPointWithin(node.BoundingBox, clickSampleScale)
		return p.X, p.Y, fmt.Sprintf("[%d] %s %q", node.Label, node.ControlType, node.Name), nil
	}
	if !hasParam(params, "x") || !hasParam(params, "y") {
		return 0, 0, "", fmt.Errorf("provide either label or both x and y")
	}
	x = intParam(params, "x", 0)
	y = intParam(params, "y", 0)
	return x, y, "coordinates", nil
}

// scrollPoint picks where a scroll lands: an explicit label or coordinate
// pair wins, then the active window's center from the last snapshot, then
// the virtual-screen center. Caller holds providerMu.
func (s *Server) scrollPoint(params map[string]interface{}) (int, int, error) {
	if hasParam(params, "label") || hasParam(params, "x") || hasParam(params, "y") {
		x, y, _, err := s.resolvePoint(params)
		return x, y, err
	}
	if state := s.cache.Last(); state != nil && state.ActiveWindow != nil {
		c := state.ActiveWindow.BoundingBox.GetCenter()
		return c.X, c.Y, nil
	}
	c := s.provider.Windows.VirtualScreen().GetCenter()
	return c.X, c.Y, nil
}

// checkRegistryWrite refuses writes under sensitive system keys regardless
// of which backend serves the call.
func checkRegistryWrite(path string) error {
	_, subkey, err := registry.ParsePath(path)
	if err != nil {
		return err
	}
	return registry.CheckWrite(subkey)
}

func mouseButton(name string) platform.MouseButton {
	switch strings.ToLower(name) {
	case "right":
		return platform.MouseRight
	case "middle":
		return platform.MouseMiddle
	default:
		return platform.MouseLeft
	}
}

// scaleImage downsamples with bilinear filtering. Screenshots go to vision
// models; half resolution is usually plenty and much cheaper to ship.
func scaleImage(img image.Image, scale float64) image.Image {
	b := img.Bounds()
	w := int(float64(b.Dx()) * scale)
	h := int(float64(b.Dy()) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
