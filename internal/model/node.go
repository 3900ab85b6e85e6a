package model

// TreeElementNode is one interactable or informative unit of UI discovered
// during a capture. Nodes are created fresh on every capture and never
// mutated afterwards; the Label is the capture-local index callers use to
// refer to the node for follow-up actions. Labels from a prior capture are
// meaningless against a newer one.
type TreeElementNode struct {
	Label       int         `yaml:"label"              json:"label"`
	Name        string      `yaml:"name"               json:"name"`
	ControlType string      `yaml:"control_type"       json:"control_type"`
	WindowName  string      `yaml:"window_name"        json:"window_name"`
	BoundingBox BoundingBox `yaml:"bounding_box"       json:"bounding_box"`
	Center      Center      `yaml:"center"             json:"center"`
	Value       string      `yaml:"value,omitempty"    json:"value,omitempty"`
	Shortcut    string      `yaml:"shortcut,omitempty" json:"shortcut,omitempty"`
	IsFocused   bool        `yaml:"is_focused,omitempty" json:"is_focused,omitempty"`
	Actions     []string    `yaml:"actions,omitempty"  json:"actions,omitempty"`
}
