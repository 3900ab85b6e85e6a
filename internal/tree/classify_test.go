package tree

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		controlType string
		role        string
		want        Category
	}{
		{"button", "ButtonControl", "", Interactive},
		{"edit", "EditControl", "", Interactive},
		{"checkbox", "CheckBoxControl", "", Interactive},
		{"custom_with_pushbutton_role", "CustomControl", "PushButton", Interactive},
		{"pane_with_link_role", "PaneControl", "Link", Interactive},
		{"text", "TextControl", "", Informative},
		{"image", "ImageControl", "", Informative},
		{"statusbar", "StatusBarControl", "", Informative},
		{"document", "DocumentControl", "", Document},
		{"pane", "PaneControl", "", Structural},
		{"group", "GroupControl", "", Structural},
		{"custom", "CustomControl", "", Structural},
		{"window", "WindowControl", "", Ignored},
		{"titlebar", "TitleBarControl", "", Ignored},
		{"unknown_type", "BogusControl", "", Ignored},
		{"unknown_both", "", "", Ignored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.controlType, tt.role); got != tt.want {
				t.Errorf("Classify(%q, %q) = %v, want %v", tt.controlType, tt.role, got, tt.want)
			}
		})
	}
}

func TestClassifyRoleWinsOverStructuralType(t *testing.T) {
	// A generic container fronting an interactive control must surface as
	// interactive, not disappear into the structure.
	if got := Classify("GroupControl", "CheckButton"); got != Interactive {
		t.Errorf("Classify(GroupControl, CheckButton) = %v, want Interactive", got)
	}
}

func TestActionsFor(t *testing.T) {
	tests := []struct {
		controlType string
		want        []string
	}{
		{"CheckBoxControl", []string{"Click", "Check", "Uncheck"}},
		{"EditControl", []string{"Click", "Press"}},
		{"HyperlinkControl", []string{"Click", "Jump"}},
		{"ButtonControl", []string{"Click", "Press", "Double Click"}},
		{"ListItemControl", []string{"Click"}},
	}
	for _, tt := range tests {
		got := ActionsFor(tt.controlType)
		if len(got) != len(tt.want) {
			t.Errorf("ActionsFor(%q) = %v, want %v", tt.controlType, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ActionsFor(%q) = %v, want %v", tt.controlType, got, tt.want)
				break
			}
		}
	}
}

func TestDefaultActionsIsACopy(t *testing.T) {
	a := DefaultActions()
	a[0] = "mutated"
	if DefaultActions()[0] != "Click" {
		t.Error("DefaultActions returned shared backing storage")
	}
}

func TestCategoryString(t *testing.T) {
	if Interactive.String() != "Interactive" || Ignored.String() != "Ignored" {
		t.Errorf("unexpected Category strings: %s, %s", Interactive, Ignored)
	}
}
