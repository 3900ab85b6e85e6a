// Package process lists and terminates processes with a protected-process
// blocklist so an agent cannot take down critical system services.
package process

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/winmcp/winmcp/internal/platform"
)

// protectedProcesses are names that must never be terminated.
var protectedProcesses = map[string]bool{
	"csrss.exe":           true,
	"lsass.exe":           true,
	"services.exe":        true,
	"smss.exe":            true,
	"svchost.exe":         true,
	"wininit.exe":         true,
	"winlogon.exe":        true,
	"msmpeng.exe":         true,
	"system":              true,
	"registry":            true,
	"memory compression":  true,
	"system idle process": true,
}

// IsProtected reports whether the process name is on the blocklist.
func IsProtected(name string) bool {
	return protectedProcesses[strings.ToLower(strings.TrimSpace(name))]
}

// Service wraps the platform process API with filtering and safety checks.
type Service struct {
	api platform.ProcessAPI
	log *slog.Logger
}

// NewService builds a process service.
func NewService(api platform.ProcessAPI, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{api: api, log: log}
}

// List returns processes sorted by memory descending, optionally filtered
// by a case-insensitive name substring and truncated to limit.
func (s *Service) List(nameFilter string, limit int) ([]platform.ProcessInfo, error) {
	procs, err := s.api.List()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	if nameFilter != "" {
		filter := strings.ToLower(nameFilter)
		filtered := procs[:0]
		for _, p := range procs {
			if strings.Contains(strings.ToLower(p.Name), filter) {
				filtered = append(filtered, p)
			}
		}
		procs = filtered
	}
	sort.Slice(procs, func(i, j int) bool { return procs[i].Memory > procs[j].Memory })
	if limit > 0 && len(procs) > limit {
		procs = procs[:limit]
	}
	return procs, nil
}

// Kill terminates the process after checking the blocklist.
func (s *Service) Kill(pid int) error {
	name, err := s.api.ResolveName(pid)
	if err == nil && IsProtected(name) {
		return fmt.Errorf("refusing to terminate protected process %q (pid %d)", name, pid)
	}
	if err := s.api.Kill(pid); err != nil {
		return fmt.Errorf("kill pid %d: %w", pid, err)
	}
	s.log.Info("process terminated", "pid", pid, "name", name)
	return nil
}
