package output

import (
	"fmt"
	"strings"

	"github.com/winmcp/winmcp/internal/model"
)

// SnapshotResult wraps a DesktopState for printing.
type SnapshotResult struct {
	State *model.DesktopState `yaml:"state" json:"state"`
}

// AgentString renders the snapshot in the compact sectioned form agents
// consume: active window, other windows, then the labeled element lists.
// Labels here are the same capture-local indices used by follow-up
// actions.
func (r SnapshotResult) AgentString() string {
	s := r.State
	var b strings.Builder

	fmt.Fprintf(&b, "Active desktop: %s\n", s.ActiveDesktop.Name)
	b.WriteString("\nActive window:\n")
	b.WriteString(s.ActiveWindowToString())
	b.WriteString("\n\nOther windows:\n")
	b.WriteString(s.WindowsToString())
	b.WriteString("\n\nInteractive elements:\n")
	b.WriteString(s.InteractiveNodesToString())
	b.WriteString("\n\nInformative elements:\n")
	b.WriteString(s.InformativeNodesToString())
	b.WriteString("\n")
	return b.String()
}
