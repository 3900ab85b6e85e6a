//go:build windows

package win

import (
	"fmt"
	"strconv"

	winreg "golang.org/x/sys/windows/registry"

	"github.com/winmcp/winmcp/internal/platform"
	"github.com/winmcp/winmcp/internal/registry"
)

var hiveKeys = map[string]winreg.Key{
	"HKEY_LOCAL_MACHINE":  winreg.LOCAL_MACHINE,
	"HKEY_CURRENT_USER":   winreg.CURRENT_USER,
	"HKEY_CLASSES_ROOT":   winreg.CLASSES_ROOT,
	"HKEY_USERS":          winreg.USERS,
	"HKEY_CURRENT_CONFIG": winreg.CURRENT_CONFIG,
}

// registryAPI implements platform.Registry on x/sys registry. Path parsing
// and the sensitive-key write guard live in internal/registry; this layer
// only touches keys.
type registryAPI struct{}

func openKey(path string, access uint32) (winreg.Key, string, error) {
	hive, subkey, err := registry.ParsePath(path)
	if err != nil {
		return 0, "", err
	}
	root, ok := hiveKeys[hive]
	if !ok {
		return 0, "", fmt.Errorf("unsupported registry hive %q", hive)
	}
	k, err := winreg.OpenKey(root, subkey, access)
	if err != nil {
		return 0, "", fmt.Errorf("open %s: %w", path, err)
	}
	return k, subkey, nil
}

func (registryAPI) Get(path, name string) (platform.RegistryValue, error) {
	k, _, err := openKey(path, winreg.QUERY_VALUE)
	if err != nil {
		return platform.RegistryValue{}, err
	}
	defer k.Close()

	if s, _, err := k.GetStringValue(name); err == nil {
		return platform.RegistryValue{Name: name, Type: "String", Data: s}, nil
	}
	if n, _, err := k.GetIntegerValue(name); err == nil {
		return platform.RegistryValue{Name: name, Type: "DWord", Data: strconv.FormatUint(n, 10)}, nil
	}
	if ss, _, err := k.GetStringsValue(name); err == nil {
		data := ""
		for i, s := range ss {
			if i > 0 {
				data += "\n"
			}
			data += s
		}
		return platform.RegistryValue{Name: name, Type: "MultiString", Data: data}, nil
	}
	if b, _, err := k.GetBinaryValue(name); err == nil {
		return platform.RegistryValue{Name: name, Type: "Binary", Data: fmt.Sprintf("%x", b)}, nil
	}
	return platform.RegistryValue{}, fmt.Errorf("value %q not found under %s", name, path)
}

func (registryAPI) Set(path, name, value, valueType string) error {
	k, subkey, err := openKey(path, winreg.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()
	if err := registry.CheckWrite(subkey); err != nil {
		return err
	}

	switch valueType {
	case "", "String":
		return k.SetStringValue(name, value)
	case "ExpandString":
		return k.SetExpandStringValue(name, value)
	case "DWord":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("DWord value %q: %w", value, err)
		}
		return k.SetDWordValue(name, uint32(n))
	case "QWord":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("QWord value %q: %w", value, err)
		}
		return k.SetQWordValue(name, n)
	default:
		return fmt.Errorf("unsupported value type %q", valueType)
	}
}

func (registryAPI) Delete(path, name string) error {
	hive, subkey, err := registry.ParsePath(path)
	if err != nil {
		return err
	}
	if err := registry.CheckWrite(subkey); err != nil {
		return err
	}
	root, ok := hiveKeys[hive]
	if !ok {
		return fmt.Errorf("unsupported registry hive %q", hive)
	}

	if name == "" {
		if err := winreg.DeleteKey(root, subkey); err != nil {
			return fmt.Errorf("delete key %s: %w", path, err)
		}
		return nil
	}
	k, err := winreg.OpenKey(root, subkey, winreg.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer k.Close()
	if err := k.DeleteValue(name); err != nil {
		return fmt.Errorf("delete value %q under %s: %w", name, path, err)
	}
	return nil
}

func (r registryAPI) List(path string) ([]platform.RegistryValue, []string, error) {
	k, _, err := openKey(path, winreg.QUERY_VALUE|winreg.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, nil, err
	}
	defer k.Close()

	names, err := k.ReadValueNames(-1)
	if err != nil {
		return nil, nil, fmt.Errorf("read value names under %s: %w", path, err)
	}
	values := make([]platform.RegistryValue, 0, len(names))
	for _, name := range names {
		v, err := r.Get(path, name)
		if err != nil {
			// Unreadable or unsupported type; report presence only.
			v = platform.RegistryValue{Name: name, Type: "Unknown"}
		}
		values = append(values, v)
	}

	subkeys, err := k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, nil, fmt.Errorf("read subkeys under %s: %w", path, err)
	}
	return values, subkeys, nil
}
