// Package window enumerates top-level windows and resolves their owning
// processes, converting raw OS enumeration into model.Window values.
package window

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/winmcp/winmcp/internal/model"
	"github.com/winmcp/winmcp/internal/platform"
)

const (
	// processCacheMax bounds the process-name cache. When full the cache
	// is cleared wholesale; entries are cheap to repopulate.
	processCacheMax = 512

	// appsCacheTTL bounds how long the installed-apps inventory is reused.
	appsCacheTTL = time.Hour

	// UnknownProcess is the placeholder when a process name cannot be
	// resolved (access denied, exited).
	UnknownProcess = "Unknown"
)

// Service lists top-level windows, classifies browsers, and caches
// process-name lookups. Safe for concurrent use.
type Service struct {
	api   platform.WindowAPI
	procs platform.ProcessAPI
	log   *slog.Logger

	procMu    sync.Mutex
	procNames map[int]string

	appsMu       sync.Mutex
	apps         map[string]string
	appsFetched  time.Time
	appsDirsFunc func() []string
}

// NewService builds a window service over the platform APIs.
func NewService(api platform.WindowAPI, procs platform.ProcessAPI, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		api:          api,
		procs:        procs,
		log:          log,
		procNames:    make(map[int]string),
		appsDirsFunc: startMenuDirs,
	}
}

// ListWindows enumerates visible, meaningful top-level windows in z-order.
// A handle dying between enumeration and property read skips that window
// only; enumeration failure is fatal and surfaced to the caller.
func (s *Service) ListWindows() ([]model.Window, error) {
	raw, err := s.api.ListTopLevel()
	if err != nil {
		return nil, fmt.Errorf("enumerate windows: %w", err)
	}

	windows := make([]model.Window, 0, len(raw))
	for i, r := range raw {
		if r.Status == model.StatusHidden {
			continue
		}
		box := r.Rect
		if box.IsEmpty() && r.Status != model.StatusMinimized {
			continue
		}

		name := s.windowName(r)
		if name == "" {
			continue
		}

		windows = append(windows, model.Window{
			Name:        name,
			Handle:      r.Handle,
			ProcessID:   r.ProcessID,
			Status:      r.Status,
			IsBrowser:   s.IsBrowser(r.ProcessID),
			Depth:       i,
			BoundingBox: box,
		})
	}
	return windows, nil
}

// ActiveWindow returns the window matching the foreground handle, or nil
// when the desktop itself is focused or the foreground window is gone.
func (s *Service) ActiveWindow(windows []model.Window) *model.Window {
	handle, ok := s.api.ActiveHandle()
	if !ok {
		return nil
	}
	for i := range windows {
		if windows[i].Handle == handle {
			if windows[i].Name == "Desktop" {
				return nil
			}
			w := windows[i]
			return &w
		}
	}
	return nil
}

// ProcessName resolves a pid to an executable name through the bounded
// cache. Failures degrade to UnknownProcess and are never propagated.
func (s *Service) ProcessName(pid int) string {
	s.procMu.Lock()
	if name, ok := s.procNames[pid]; ok {
		s.procMu.Unlock()
		return name
	}
	s.procMu.Unlock()

	name, err := s.procs.ResolveName(pid)
	if err != nil {
		s.log.Debug("process name lookup failed", "pid", pid, "error", err)
		return UnknownProcess
	}

	s.procMu.Lock()
	if len(s.procNames) >= processCacheMax {
		s.procNames = make(map[int]string)
	}
	s.procNames[pid] = name
	s.procMu.Unlock()
	return name
}

// IsBrowser reports whether the pid belongs to a known browser process.
func (s *Service) IsBrowser(pid int) bool {
	return model.IsBrowserProcess(s.ProcessName(pid))
}

// windowName picks the display name for a raw window: shell class names
// normalize to their friendly form, everything else uses the title.
func (s *Service) windowName(r platform.RawWindow) string {
	if display := model.DisplayName(r.ClassName); display != r.ClassName {
		return display
	}
	return strings.TrimSpace(r.Title)
}

// InstalledApps returns the Start Menu shortcut inventory, name -> path,
// cached for appsCacheTTL. Concurrent misses may refresh twice; the last
// write wins and both results are equally fresh.
func (s *Service) InstalledApps() map[string]string {
	s.appsMu.Lock()
	defer s.appsMu.Unlock()
	if s.apps != nil && time.Since(s.appsFetched) < appsCacheTTL {
		return s.apps
	}

	apps := make(map[string]string)
	for _, dir := range s.appsDirsFunc() {
		if dir == "" {
			continue
		}
		_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(path), ".lnk") {
				return nil
			}
			name := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
			if name != "" {
				if _, exists := apps[name]; !exists {
					apps[name] = path
				}
			}
			return nil
		})
	}
	s.apps = apps
	s.appsFetched = time.Now()
	return apps
}

// startMenuDirs lists the per-machine and per-user Start Menu program
// folders.
func startMenuDirs() []string {
	return []string{
		filepath.Join(os.Getenv("PROGRAMDATA"), `Microsoft\Windows\Start Menu\Programs`),
		filepath.Join(os.Getenv("APPDATA"), `Microsoft\Windows\Start Menu\Programs`),
	}
}
