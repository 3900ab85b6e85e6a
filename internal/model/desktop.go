package model

import (
	"fmt"
	"strings"
)

// VirtualDesktop is virtual-desktop metadata. When the OS virtual desktop
// API is unavailable the enumerator falls back to a single default desktop.
type VirtualDesktop struct {
	ID   string `yaml:"id"   json:"id"`
	Name string `yaml:"name" json:"name"`
}

// DefaultDesktop is the fallback used when virtual-desktop metadata cannot
// be queried.
var DefaultDesktop = VirtualDesktop{
	ID:   "00000000-0000-0000-0000-000000000000",
	Name: "Default Desktop",
}

// DesktopState is the result of one capture: the window list, the active
// window, and the globally labeled node lists. It is immutable once
// returned and superseded wholesale by the next capture.
type DesktopState struct {
	ActiveDesktop    VirtualDesktop    `yaml:"active_desktop"          json:"active_desktop"`
	AllDesktops      []VirtualDesktop  `yaml:"all_desktops"            json:"all_desktops"`
	ActiveWindow     *Window           `yaml:"active_window,omitempty" json:"active_window,omitempty"`
	Windows          []Window          `yaml:"windows"                 json:"windows"`
	InteractiveNodes []TreeElementNode `yaml:"interactive_nodes"       json:"interactive_nodes"`
	InformativeNodes []TreeElementNode `yaml:"informative_nodes"       json:"informative_nodes"`
}

// WindowsToString renders the non-active windows as agent-readable lines.
func (s *DesktopState) WindowsToString() string {
	if len(s.Windows) == 0 {
		return "No other windows open."
	}
	var b strings.Builder
	for _, w := range s.Windows {
		fmt.Fprintf(&b, "- %s (pid %d, %s)\n", w.Name, w.ProcessID, w.Status)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ActiveWindowToString renders the active window, or a placeholder when the
// desktop itself is focused.
func (s *DesktopState) ActiveWindowToString() string {
	if s.ActiveWindow == nil {
		return "No active window."
	}
	w := s.ActiveWindow
	return fmt.Sprintf("%s (pid %d, %s)", w.Name, w.ProcessID, w.Status)
}

// InteractiveNodesToString renders the labeled interactive elements.
func (s *DesktopState) InteractiveNodesToString() string {
	if len(s.InteractiveNodes) == 0 {
		return "No interactive elements found."
	}
	var b strings.Builder
	for _, n := range s.InteractiveNodes {
		fmt.Fprintf(&b, "[%d] %s %q window=%q center=(%d,%d)",
			n.Label, n.ControlType, n.Name, n.WindowName, n.Center.X, n.Center.Y)
		if n.Value != "" {
			fmt.Fprintf(&b, " value=%q", n.Value)
		}
		if n.Shortcut != "" {
			fmt.Fprintf(&b, " shortcut=%q", n.Shortcut)
		}
		if n.IsFocused {
			b.WriteString(" focused")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// InformativeNodesToString renders the informative (text) elements.
func (s *DesktopState) InformativeNodesToString() string {
	if len(s.InformativeNodes) == 0 {
		return "No informative elements found."
	}
	var b strings.Builder
	for _, n := range s.InformativeNodes {
		fmt.Fprintf(&b, "[%d] %s %q window=%q\n", n.Label, n.ControlType, n.Name, n.WindowName)
	}
	return strings.TrimRight(b.String(), "\n")
}

// DesktopsToString renders virtual-desktop metadata.
func (s *DesktopState) DesktopsToString() string {
	var b strings.Builder
	for _, d := range s.AllDesktops {
		marker := " "
		if d.ID == s.ActiveDesktop.ID {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s (%s)\n", marker, d.Name, d.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FindNode returns the node with the given capture-local label, searching
// interactive nodes first, then informative ones.
func (s *DesktopState) FindNode(label int) (*TreeElementNode, error) {
	for i := range s.InteractiveNodes {
		if s.InteractiveNodes[i].Label == label {
			return &s.InteractiveNodes[i], nil
		}
	}
	for i := range s.InformativeNodes {
		if s.InformativeNodes[i].Label == label {
			return &s.InformativeNodes[i], nil
		}
	}
	return nil, fmt.Errorf("no element with label %d in current snapshot", label)
}
