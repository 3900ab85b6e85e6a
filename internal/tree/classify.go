// Package tree walks one window's accessibility subtree, classifying
// elements into interactive and informative nodes with reconciled screen
// rectangles.
package tree

// Category is the classification of one accessibility element.
type Category int

const (
	// Ignored elements are neither emitted nor special; their children
	// are still visited.
	Ignored Category = iota
	// Interactive elements accept user input and are emitted.
	Interactive
	// Informative elements carry display text and are emitted.
	Informative
	// Structural elements are transparent containers: not emitted, but
	// their subtree is walked.
	Structural
	// Document elements behave like Structural but mark document content;
	// a document whose role is interactive is promoted to Interactive.
	Document
)

func (c Category) String() string {
	switch c {
	case Interactive:
		return "Interactive"
	case Informative:
		return "Informative"
	case Structural:
		return "Structural"
	case Document:
		return "Document"
	default:
		return "Ignored"
	}
}

// interactiveControlTypes are control-type names that are interactive on
// their own.
var interactiveControlTypes = map[string]bool{
	"ButtonControl":      true,
	"ListItemControl":    true,
	"MenuItemControl":    true,
	"EditControl":        true,
	"CheckBoxControl":    true,
	"RadioButtonControl": true,
	"ComboBoxControl":    true,
	"HyperlinkControl":   true,
	"SplitButtonControl": true,
	"TabItemControl":     true,
	"TreeItemControl":    true,
	"DataItemControl":    true,
	"HeaderItemControl":  true,
	"TextBoxControl":     true,
	"SpinnerControl":     true,
	"ScrollBarControl":   true,
}

// interactiveRoles are legacy accessibility role names that mark an element
// interactive even when its control type is generic (e.g. a CustomControl
// whose role is PushButton).
var interactiveRoles = map[string]bool{
	"PushButton":         true,
	"SplitButton":        true,
	"ButtonDropDown":     true,
	"ButtonMenu":         true,
	"ButtonDropDownGrid": true,
	"OutlineButton":      true,
	"Link":               true,
	"Text":               true,
	"IpAddress":          true,
	"HotkeyField":        true,
	"ComboBox":           true,
	"DropList":           true,
	"CheckButton":        true,
	"RadioButton":        true,
	"MenuItem":           true,
	"ListItem":           true,
	"PageTab":            true,
	"OutlineItem":        true,
	"Slider":             true,
	"SpinButton":         true,
	"Dial":               true,
	"ScrollBar":          true,
	"Grip":               true,
	"ColumnHeader":       true,
	"RowHeader":          true,
	"Cell":               true,
}

var documentControlTypes = map[string]bool{
	"DocumentControl": true,
}

var structuralControlTypes = map[string]bool{
	"PaneControl":   true,
	"GroupControl":  true,
	"CustomControl": true,
}

var informativeControlTypes = map[string]bool{
	"TextControl":      true,
	"ImageControl":     true,
	"StatusBarControl": true,
}

// Classify maps a control-type name and a legacy role name to a Category.
// Pure and total: unknown inputs map to Ignored, never an error. An element
// is Interactive when either vocabulary says so; the role check catches
// generic control types fronting interactive controls.
func Classify(controlType, role string) Category {
	if interactiveControlTypes[controlType] || interactiveRoles[role] {
		return Interactive
	}
	if documentControlTypes[controlType] {
		return Document
	}
	if informativeControlTypes[controlType] {
		return Informative
	}
	if structuralControlTypes[controlType] {
		return Structural
	}
	return Ignored
}

// defaultActions is the action vocabulary exposed on emitted nodes.
var defaultActions = []string{"Click", "Press", "Jump", "Check", "Uncheck", "Double Click"}

// ActionsFor returns the subset of the action vocabulary applicable to a
// control type.
func ActionsFor(controlType string) []string {
	switch controlType {
	case "CheckBoxControl", "RadioButtonControl":
		return []string{"Click", "Check", "Uncheck"}
	case "EditControl", "TextBoxControl", "ComboBoxControl":
		return []string{"Click", "Press"}
	case "HyperlinkControl":
		return []string{"Click", "Jump"}
	case "ButtonControl", "SplitButtonControl", "MenuItemControl":
		return []string{"Click", "Press", "Double Click"}
	default:
		return []string{"Click"}
	}
}

// DefaultActions returns the full action vocabulary.
func DefaultActions() []string {
	out := make([]string, len(defaultActions))
	copy(out, defaultActions)
	return out
}
