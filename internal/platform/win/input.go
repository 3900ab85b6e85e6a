//go:build windows

package win

import (
	"fmt"
	"strings"
	"time"
	"unsafe"

	"github.com/winmcp/winmcp/internal/platform"
)

const (
	inputMouse    = 0
	inputKeyboard = 1

	mouseEventfMove       = 0x0001
	mouseEventfLeftDown   = 0x0002
	mouseEventfLeftUp     = 0x0004
	mouseEventfRightDown  = 0x0008
	mouseEventfRightUp    = 0x0010
	mouseEventfMiddleDown = 0x0020
	mouseEventfMiddleUp   = 0x0040
	mouseEventfWheel      = 0x0800
	mouseEventfHWheel     = 0x1000
	mouseEventfAbsolute   = 0x8000
	mouseEventfVirtDesk   = 0x4000

	keyEventfKeyUp   = 0x0002
	keyEventfUnicode = 0x0004

	wheelDelta = 120
)

// input mirrors the Win32 INPUT struct. The union is sized for MOUSEINPUT,
// the largest member on both amd64 and arm64.
type input struct {
	Type uint32
	_    uint32
	Mi   mouseInput
}

type mouseInput struct {
	Dx        int32
	Dy        int32
	MouseData uint32
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

type keyboardInput struct {
	VK        uint16
	Scan      uint16
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
	_         [8]byte
}

// inputter implements platform.Inputter on SendInput.
type inputter struct {
	screen windowAPI
}

func sendInputs(inputs []input) error {
	n, _, err := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(n) != len(inputs) {
		return fmt.Errorf("SendInput injected %d of %d events: %v", n, len(inputs), err)
	}
	return nil
}

// normalize converts screen pixels to the 0..65535 coordinate space
// SendInput uses for absolute moves over the virtual desktop.
func (in inputter) normalize(x, y int) (int32, int32) {
	screen := in.screen.VirtualScreen()
	w, h := screen.Width, screen.Height
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	nx := (x - screen.Left) * 65535 / w
	ny := (y - screen.Top) * 65535 / h
	return int32(nx), int32(ny)
}

func (in inputter) MoveMouse(x, y int) error {
	nx, ny := in.normalize(x, y)
	return sendInputs([]input{{
		Type: inputMouse,
		Mi: mouseInput{
			Dx:    nx,
			Dy:    ny,
			Flags: mouseEventfMove | mouseEventfAbsolute | mouseEventfVirtDesk,
		},
	}})
}

func (in inputter) Click(x, y int, button platform.MouseButton, count int) error {
	if err := in.MoveMouse(x, y); err != nil {
		return err
	}

	var down, up uint32
	switch button {
	case platform.MouseRight:
		down, up = mouseEventfRightDown, mouseEventfRightUp
	case platform.MouseMiddle:
		down, up = mouseEventfMiddleDown, mouseEventfMiddleUp
	default:
		down, up = mouseEventfLeftDown, mouseEventfLeftUp
	}

	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		err := sendInputs([]input{
			{Type: inputMouse, Mi: mouseInput{Flags: down}},
			{Type: inputMouse, Mi: mouseInput{Flags: up}},
		})
		if err != nil {
			return err
		}
		if count > 1 {
			// Within the system double-click interval.
			time.Sleep(50 * time.Millisecond)
		}
	}
	return nil
}

func (in inputter) Scroll(x, y, dx, dy int) error {
	if x != 0 || y != 0 {
		if err := in.MoveMouse(x, y); err != nil {
			return err
		}
	}
	if dy != 0 {
		err := sendInputs([]input{{
			Type: inputMouse,
			Mi: mouseInput{
				MouseData: uint32(int32(dy * wheelDelta)),
				Flags:     mouseEventfWheel,
			},
		}})
		if err != nil {
			return err
		}
	}
	if dx != 0 {
		err := sendInputs([]input{{
			Type: inputMouse,
			Mi: mouseInput{
				MouseData: uint32(int32(dx * wheelDelta)),
				Flags:     mouseEventfHWheel,
			},
		}})
		if err != nil {
			return err
		}
	}
	return nil
}

// TypeText injects text as KEYEVENTF_UNICODE events, which works for any
// codepoint without layout-dependent virtual key mapping.
func (in inputter) TypeText(text string, delay time.Duration) error {
	for _, r := range text {
		for _, unit := range utf16Units(r) {
			err := sendInputs([]input{
				keyInput(keyboardInput{Scan: unit, Flags: keyEventfUnicode}),
				keyInput(keyboardInput{Scan: unit, Flags: keyEventfUnicode | keyEventfKeyUp}),
			})
			if err != nil {
				return err
			}
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	return nil
}

// KeyCombo presses the named keys in order and releases them in reverse.
func (in inputter) KeyCombo(keys []string) error {
	vks := make([]uint16, 0, len(keys))
	for _, name := range keys {
		vk, ok := virtualKeys[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return fmt.Errorf("unknown key %q", name)
		}
		vks = append(vks, vk)
	}

	events := make([]input, 0, len(vks)*2)
	for _, vk := range vks {
		events = append(events, keyInput(keyboardInput{VK: vk}))
	}
	for i := len(vks) - 1; i >= 0; i-- {
		events = append(events, keyInput(keyboardInput{VK: vks[i], Flags: keyEventfKeyUp}))
	}
	return sendInputs(events)
}

// keyInput builds an INPUT carrying a KEYBDINPUT in the union slot.
func keyInput(ki keyboardInput) input {
	var in input
	in.Type = inputKeyboard
	*(*keyboardInput)(unsafe.Pointer(&in.Mi)) = ki
	return in
}

// utf16Units expands a rune to its UTF-16 code units, including surrogate
// pairs for characters outside the BMP.
func utf16Units(r rune) []uint16 {
	if r < 0x10000 {
		return []uint16{uint16(r)}
	}
	r -= 0x10000
	return []uint16{
		uint16(0xD800 + (r >> 10)),
		uint16(0xDC00 + (r & 0x3FF)),
	}
}

// virtualKeys maps key names accepted by the keys tool to virtual key codes.
var virtualKeys = map[string]uint16{
	"ctrl": 0x11, "control": 0x11,
	"alt": 0x12, "shift": 0x10,
	"win": 0x5B, "meta": 0x5B,
	"enter": 0x0D, "return": 0x0D,
	"esc": 0x1B, "escape": 0x1B,
	"tab": 0x09, "space": 0x20,
	"backspace": 0x08, "delete": 0x2E, "del": 0x2E,
	"insert": 0x2D, "home": 0x24, "end": 0x23,
	"pageup": 0x21, "pagedown": 0x22,
	"up": 0x26, "down": 0x28, "left": 0x25, "right": 0x27,
	"f1": 0x70, "f2": 0x71, "f3": 0x72, "f4": 0x73,
	"f5": 0x74, "f6": 0x75, "f7": 0x76, "f8": 0x77,
	"f9": 0x78, "f10": 0x79, "f11": 0x7A, "f12": 0x7B,
	"0": 0x30, "1": 0x31, "2": 0x32, "3": 0x33, "4": 0x34,
	"5": 0x35, "6": 0x36, "7": 0x37, "8": 0x38, "9": 0x39,
	"a": 0x41, "b": 0x42, "c": 0x43, "d": 0x44, "e": 0x45,
	"f": 0x46, "g": 0x47, "h": 0x48, "i": 0x49, "j": 0x4A,
	"k": 0x4B, "l": 0x4C, "m": 0x4D, "n": 0x4E, "o": 0x4F,
	"p": 0x50, "q": 0x51, "r": 0x52, "s": 0x53, "t": 0x54,
	"u": 0x55, "v": 0x56, "w": 0x57, "x": 0x58, "y": 0x59,
	"z": 0x5A,
}
