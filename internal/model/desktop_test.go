package model

import (
	"strings"
	"testing"
)

func sampleState() *DesktopState {
	return &DesktopState{
		ActiveDesktop: DefaultDesktop,
		AllDesktops:   []VirtualDesktop{DefaultDesktop},
		ActiveWindow: &Window{
			Name: "Notepad", ProcessID: 1234, Status: StatusNormal,
		},
		Windows: []Window{
			{Name: "Calculator", ProcessID: 5678, Status: StatusMinimized},
		},
		InteractiveNodes: []TreeElementNode{
			{
				Label: 0, ControlType: "ButtonControl", Name: "Save",
				WindowName: "Notepad", Center: Center{X: 100, Y: 200},
			},
			{
				Label: 1, ControlType: "EditControl", Name: "Body",
				WindowName: "Notepad", Center: Center{X: 400, Y: 300},
				Value: "hello", Shortcut: "Ctrl+E", IsFocused: true,
			},
		},
		InformativeNodes: []TreeElementNode{
			{Label: 2, ControlType: "TextControl", Name: "Ln 1, Col 1", WindowName: "Notepad"},
		},
	}
}

func TestInteractiveNodesToString(t *testing.T) {
	s := sampleState()
	out := s.InteractiveNodesToString()

	if !strings.Contains(out, `[0] ButtonControl "Save" window="Notepad" center=(100,200)`) {
		t.Errorf("missing basic node line:\n%s", out)
	}
	if !strings.Contains(out, `value="hello"`) || !strings.Contains(out, `shortcut="Ctrl+E"`) {
		t.Errorf("missing value/shortcut annotations:\n%s", out)
	}
	if !strings.Contains(out, "focused") {
		t.Errorf("missing focused marker:\n%s", out)
	}
	// The unfocused button must not carry the marker.
	firstLine := strings.SplitN(out, "\n", 2)[0]
	if strings.Contains(firstLine, "focused") {
		t.Errorf("unfocused node marked focused: %s", firstLine)
	}
}

func TestInformativeNodesToString(t *testing.T) {
	out := sampleState().InformativeNodesToString()
	if !strings.Contains(out, `[2] TextControl "Ln 1, Col 1" window="Notepad"`) {
		t.Errorf("unexpected informative rendering:\n%s", out)
	}
}

func TestWindowsToStringEmpty(t *testing.T) {
	s := &DesktopState{}
	if got := s.WindowsToString(); got != "No other windows open." {
		t.Errorf("WindowsToString() = %q", got)
	}
	if got := s.ActiveWindowToString(); got != "No active window." {
		t.Errorf("ActiveWindowToString() = %q", got)
	}
	if got := s.InteractiveNodesToString(); got != "No interactive elements found." {
		t.Errorf("InteractiveNodesToString() = %q", got)
	}
}

func TestFindNode(t *testing.T) {
	s := sampleState()

	n, err := s.FindNode(1)
	if err != nil {
		t.Fatalf("FindNode(1): %v", err)
	}
	if n.Name != "Body" {
		t.Errorf("FindNode(1).Name = %q, want Body", n.Name)
	}

	// Informative nodes are addressable too.
	n, err = s.FindNode(2)
	if err != nil {
		t.Fatalf("FindNode(2): %v", err)
	}
	if n.ControlType != "TextControl" {
		t.Errorf("FindNode(2).ControlType = %q", n.ControlType)
	}

	if _, err := s.FindNode(99); err == nil {
		t.Error("FindNode(99) succeeded, want error")
	}
}

func TestDesktopsToString(t *testing.T) {
	s := sampleState()
	out := s.DesktopsToString()
	if !strings.HasPrefix(out, "* Default Desktop") {
		t.Errorf("active desktop not marked:\n%s", out)
	}
}
