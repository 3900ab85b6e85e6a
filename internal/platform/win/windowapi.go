//go:build windows

package win

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/winmcp/winmcp/internal/model"
	"github.com/winmcp/winmcp/internal/platform"
)

const (
	smXVirtualScreen  = 76
	smYVirtualScreen  = 77
	smCXVirtualScreen = 78
	smCYVirtualScreen = 79

	gwlExStyle     = -20
	wsExToolWindow = 0x00000080
)

// windowAPI implements platform.WindowAPI on user32.
type windowAPI struct{}

// ListTopLevel enumerates top-level windows in z-order. Tool windows and
// untitled non-shell windows are kept here; the window service filters.
func (windowAPI) ListTopLevel() ([]platform.RawWindow, error) {
	var raw []platform.RawWindow

	cb := syscall.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		exStyle, _, _ := procGetWindowLongW.Call(hwnd, uintptr(uint32(int32(gwlExStyle))))
		if uint32(exStyle)&wsExToolWindow != 0 {
			return 1
		}

		var pid uint32
		procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))

		raw = append(raw, platform.RawWindow{
			Handle:    hwnd,
			Title:     windowText(hwnd),
			ClassName: className(hwnd),
			ProcessID: int(pid),
			Rect:      windowRect(hwnd),
			Status:    windowStatus(hwnd),
		})
		return 1
	})

	ret, _, err := procEnumWindows.Call(cb, 0)
	if ret == 0 {
		return nil, fmt.Errorf("EnumWindows: %w", err)
	}
	return raw, nil
}

func (windowAPI) ActiveHandle() (uintptr, bool) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	return hwnd, hwnd != 0
}

func (windowAPI) VirtualScreen() model.BoundingBox {
	x, _, _ := procGetSystemMetrics.Call(smXVirtualScreen)
	y, _, _ := procGetSystemMetrics.Call(smYVirtualScreen)
	w, _, _ := procGetSystemMetrics.Call(smCXVirtualScreen)
	h, _, _ := procGetSystemMetrics.Call(smCYVirtualScreen)
	left := int(int32(x))
	top := int(int32(y))
	return model.NewBoundingBox(left, top, left+int(int32(w)), top+int(int32(h)))
}

func (windowAPI) DPIScale() float64 {
	if procGetDpiForSystem.Find() != nil {
		return 1.0
	}
	dpi, _, _ := procGetDpiForSystem.Call()
	if dpi == 0 {
		return 1.0
	}
	return float64(dpi) / 96.0
}

// VirtualDesktops reports the default desktop. The virtual desktop COM API
// is undocumented and breaks across Windows builds, so enumeration is not
// attempted.
func (windowAPI) VirtualDesktops() (model.VirtualDesktop, []model.VirtualDesktop) {
	return model.DefaultDesktop, []model.VirtualDesktop{model.DefaultDesktop}
}

func windowText(hwnd uintptr) string {
	buf := make([]uint16, 512)
	n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return syscall.UTF16ToString(buf[:n])
}

func className(hwnd uintptr) string {
	buf := make([]uint16, 256)
	n, _, _ := procGetClassNameW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return syscall.UTF16ToString(buf[:n])
}

func windowRect(hwnd uintptr) model.BoundingBox {
	var r rect
	ret, _, _ := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return model.BoundingBox{}
	}
	return model.NewBoundingBox(int(r.Left), int(r.Top), int(r.Right), int(r.Bottom))
}

func windowStatus(hwnd uintptr) model.Status {
	if visible, _, _ := procIsWindowVisible.Call(hwnd); visible == 0 {
		return model.StatusHidden
	}
	if iconic, _, _ := procIsIconic.Call(hwnd); iconic != 0 {
		return model.StatusMinimized
	}
	if zoomed, _, _ := procIsZoomed.Call(hwnd); zoomed != 0 {
		return model.StatusMaximized
	}
	return model.StatusNormal
}

// enablePerMonitorDPI opts the process into per-monitor-v2 DPI awareness so
// coordinates from UIA and the input injector agree with physical pixels.
func enablePerMonitorDPI() {
	if procSetProcessDpiAwareCtx.Find() != nil {
		return
	}
	// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 is (HANDLE)(-4).
	procSetProcessDpiAwareCtx.Call(^uintptr(3))
}
