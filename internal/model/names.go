package model

import "strings"

// shellClassNames maps internal shell window class names to the display
// names agents actually recognize.
var shellClassNames = map[string]string{
	"Progman":                "Desktop",
	"Shell_TrayWnd":          "Taskbar",
	"Shell_SecondaryTrayWnd": "Taskbar",
	"Microsoft.UI.Content.PopupWindowSiteBridge": "Context Menu",
}

// DisplayName normalizes an internal shell class name to a user-friendly
// display name. Unrecognized names pass through unchanged.
func DisplayName(name string) string {
	if display, ok := shellClassNames[name]; ok {
		return display
	}
	return name
}

// browserProcesses is the process-name allow-list used to classify browser
// windows. Lookups are case-insensitive and ignore the .exe suffix.
var browserProcesses = map[string]bool{
	"chrome":   true,
	"msedge":   true,
	"firefox":  true,
	"opera":    true,
	"brave":    true,
	"vivaldi":  true,
	"iexplore": true,
}

// IsBrowserProcess reports whether the process name belongs to a known
// browser.
func IsBrowserProcess(name string) bool {
	name = strings.TrimSuffix(strings.ToLower(name), ".exe")
	return browserProcesses[name]
}
