// Package platform defines the narrow contracts between the capture core
// and the operating system. OS-specific packages implement these interfaces
// and register a constructor via init(); nothing downstream of this package
// touches provider-native types.
package platform

import (
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/winmcp/winmcp/internal/model"
)

// RawWindow is one unfiltered entry from OS window enumeration. The window
// enumerator converts these into model.Window at the boundary.
type RawWindow struct {
	Handle    uintptr
	Title     string
	ClassName string
	ProcessID int
	Rect      model.BoundingBox
	Status    model.Status
}

// WindowAPI exposes the OS window manager.
type WindowAPI interface {
	// ListTopLevel enumerates visible top-level windows on the current
	// virtual desktop, unfiltered.
	ListTopLevel() ([]RawWindow, error)

	// ActiveHandle returns the foreground window's handle, or ok=false
	// when no window is focused.
	ActiveHandle() (handle uintptr, ok bool)

	// VirtualScreen returns the union rectangle of all monitors. May have
	// negative origin.
	VirtualScreen() model.BoundingBox

	// DPIScale returns the effective DPI scale factor (1.0 = 96 DPI).
	DPIScale() float64

	// VirtualDesktops returns the active desktop and all desktops. When
	// the OS API is unavailable implementations return the default
	// desktop fallback, not an error.
	VirtualDesktops() (active model.VirtualDesktop, all []model.VirtualDesktop)
}

// ProcessInfo is one process table entry.
type ProcessInfo struct {
	PID    int    `yaml:"pid"    json:"pid"`
	Name   string `yaml:"name"   json:"name"`
	Memory uint64 `yaml:"memory" json:"memory"`
}

// ProcessAPI exposes process enumeration and termination.
type ProcessAPI interface {
	// ResolveName returns the executable name for a pid. Access-denied is
	// an error the caller degrades to a placeholder.
	ResolveName(pid int) (string, error)

	// List returns the current process table.
	List() ([]ProcessInfo, error)

	// Kill terminates the process with the given pid.
	Kill(pid int) error
}

// MouseButton identifies a mouse button for click injection.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// Inputter injects mouse and keyboard input.
type Inputter interface {
	Click(x, y int, button MouseButton, count int) error
	MoveMouse(x, y int) error
	Scroll(x, y int, dx, dy int) error
	TypeText(text string, delay time.Duration) error
	KeyCombo(keys []string) error
}

// Screenshotter captures the screen.
type Screenshotter interface {
	// CaptureScreen grabs the full virtual screen.
	CaptureScreen() (image.Image, error)
}

// Shell executes shell commands.
type Shell interface {
	// Execute runs a command with a timeout and returns combined output
	// and the exit status.
	Execute(command string, timeout time.Duration) (output string, status int, err error)
}

// RegistryValue is one value under a registry key.
type RegistryValue struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
	Data string `yaml:"data" json:"data"`
}

// Registry exposes registry CRUD. Paths use the "HKCU\Software\..." form.
type Registry interface {
	Get(path, name string) (RegistryValue, error)
	Set(path, name, value, valueType string) error
	Delete(path, name string) error
	List(path string) (values []RegistryValue, subkeys []string, err error)
}

// Provider bundles all platform backends for the current OS.
type Provider struct {
	Windows       WindowAPI
	Automation    Automation
	Processes     ProcessAPI
	Inputter      Inputter
	Screenshotter Screenshotter
	Shell         Shell
	Registry      Registry
}

// ErrUnsupported is returned on unsupported platforms.
var ErrUnsupported = fmt.Errorf("winmcp is not supported on %s/%s; supported: windows/amd64, windows/arm64", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/win for the Windows registration.
var NewProviderFunc func() (*Provider, error)

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}
