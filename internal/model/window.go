package model

// Status describes the show state of a top-level window.
type Status string

const (
	StatusNormal    Status = "Normal"
	StatusMinimized Status = "Minimized"
	StatusMaximized Status = "Maximized"
	StatusHidden    Status = "Hidden"
)

// Window is one top-level window at enumeration time. Handle is a weak
// reference into the window manager; the window may close at any moment
// and every consumer must tolerate the handle going stale.
type Window struct {
	Name        string      `yaml:"name"         json:"name"`
	Handle      uintptr     `yaml:"handle"       json:"handle"`
	ProcessID   int         `yaml:"process_id"   json:"process_id"`
	Status      Status      `yaml:"status"       json:"status"`
	IsBrowser   bool        `yaml:"is_browser"   json:"is_browser"`
	Depth       int         `yaml:"depth"        json:"depth"`
	BoundingBox BoundingBox `yaml:"bounding_box" json:"bounding_box"`
}

// Minimized reports whether the window is currently minimized.
func (w Window) Minimized() bool {
	return w.Status == StatusMinimized
}
