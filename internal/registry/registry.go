// Package registry parses registry paths and guards writes against
// sensitive system keys. The actual key access lives behind the platform
// Registry interface.
package registry

import (
	"fmt"
	"strings"
)

// hiveAliases maps path prefixes to canonical hive names.
var hiveAliases = map[string]string{
	"HKLM":                "HKEY_LOCAL_MACHINE",
	"HKEY_LOCAL_MACHINE":  "HKEY_LOCAL_MACHINE",
	"HKCU":                "HKEY_CURRENT_USER",
	"HKEY_CURRENT_USER":   "HKEY_CURRENT_USER",
	"HKCR":                "HKEY_CLASSES_ROOT",
	"HKEY_CLASSES_ROOT":   "HKEY_CLASSES_ROOT",
	"HKU":                 "HKEY_USERS",
	"HKEY_USERS":          "HKEY_USERS",
	"HKCC":                "HKEY_CURRENT_CONFIG",
	"HKEY_CURRENT_CONFIG": "HKEY_CURRENT_CONFIG",
}

// sensitiveKeyPrefixes are subkey prefixes writes are refused under.
var sensitiveKeyPrefixes = []string{
	`system\currentcontrolset`,
	`software\microsoft\windows nt\currentversion\winlogon`,
	`software\microsoft\windows\currentversion\run`,
	`software\microsoft\windows\currentversion\runonce`,
	`software\policies`,
	`security`,
	`sam`,
}

// ParsePath splits "HKCU\Software\Foo" into the canonical hive name and
// the subkey path.
func ParsePath(path string) (hive, subkey string, err error) {
	path = strings.Trim(path, `\`)
	if path == "" {
		return "", "", fmt.Errorf("empty registry path")
	}
	head, rest, _ := strings.Cut(path, `\`)
	canonical, ok := hiveAliases[strings.ToUpper(head)]
	if !ok {
		return "", "", fmt.Errorf("unknown registry hive %q", head)
	}
	return canonical, rest, nil
}

// CheckWrite returns an error when the subkey is under a sensitive prefix.
func CheckWrite(subkey string) error {
	lower := strings.ToLower(strings.Trim(subkey, `\`))
	for _, prefix := range sensitiveKeyPrefixes {
		if lower == prefix || strings.HasPrefix(lower, prefix+`\`) {
			return fmt.Errorf("write to sensitive registry key %q refused", subkey)
		}
	}
	return nil
}
