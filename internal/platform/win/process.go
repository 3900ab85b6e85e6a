//go:build windows

package win

import (
	"fmt"
	"path/filepath"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/winmcp/winmcp/internal/platform"
)

// processAPI implements platform.ProcessAPI on the toolhelp snapshot and
// process handle APIs from x/sys/windows.
type processAPI struct{}

// ResolveName returns the executable base name for a pid. Limited query
// rights are enough and work across elevation boundaries for most
// processes.
func (processAPI) ResolveName(pid int) (string, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return "", fmt.Errorf("open pid %d: %w", pid, err)
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", fmt.Errorf("query image name for pid %d: %w", pid, err)
	}
	full := windows.UTF16ToString(buf[:size])
	return filepath.Base(strings.ReplaceAll(full, `\`, string(filepath.Separator))), nil
}

// List walks a toolhelp snapshot and attaches working-set sizes where the
// process allows querying.
func (p processAPI) List() ([]platform.ProcessInfo, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("process snapshot: %w", err)
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	if err := windows.Process32First(snap, &entry); err != nil {
		return nil, fmt.Errorf("first process entry: %w", err)
	}

	var procs []platform.ProcessInfo
	for {
		procs = append(procs, platform.ProcessInfo{
			PID:    int(entry.ProcessID),
			Name:   windows.UTF16ToString(entry.ExeFile[:]),
			Memory: workingSet(entry.ProcessID),
		})
		if err := windows.Process32Next(snap, &entry); err != nil {
			break
		}
	}
	return procs, nil
}

func (processAPI) Kill(pid int) error {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		return fmt.Errorf("open pid %d for terminate: %w", pid, err)
	}
	defer windows.CloseHandle(h)
	if err := windows.TerminateProcess(h, 1); err != nil {
		return fmt.Errorf("terminate pid %d: %w", pid, err)
	}
	return nil
}

// workingSet returns the process working set in bytes, or 0 when the
// process cannot be queried.
func workingSet(pid uint32) uint64 {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return 0
	}
	defer windows.CloseHandle(h)

	var counters windows.PROCESS_MEMORY_COUNTERS
	if err := windows.GetProcessMemoryInfo(h, &counters, uint32(unsafe.Sizeof(counters))); err != nil {
		return 0
	}
	return uint64(counters.WorkingSetSize)
}
