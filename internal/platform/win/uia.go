//go:build windows

package win

import (
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	"github.com/winmcp/winmcp/internal/model"
	"github.com/winmcp/winmcp/internal/platform"
)

// UI Automation COM identifiers.
var (
	clsidCUIAutomation = guid{0xff48dba4, 0x60ef, 0x4201, [8]byte{0xaa, 0x87, 0x54, 0x10, 0x3e, 0xef, 0x59, 0x4e}}
	iidIUIAutomation   = guid{0x30cbe57d, 0xd9d0, 0x452a, [8]byte{0xab, 0x13, 0x7a, 0xc5, 0xac, 0x48, 0x25, 0xee}}
)

type guid struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

const (
	coinitMultithreaded = 0x0
	clsctxInprocServer  = 0x1

	treeScopeChildren = 0x2

	// UIA property ids used through GetCurrentPropertyValue.
	uiaLegacyRolePropertyID = 30012
	uiaValueValuePropertyID = 30045

	// Control type ids start at 50000.
	controlTypeFirst = 50000
)

// controlTypeNames maps UIA control type ids to the canonical names used by
// the classifier, in id order from UIA_ButtonControlTypeId.
var controlTypeNames = []string{
	"ButtonControl", "CalendarControl", "CheckBoxControl", "ComboBoxControl",
	"EditControl", "HyperlinkControl", "ImageControl", "ListItemControl",
	"ListControl", "MenuControl", "MenuBarControl", "MenuItemControl",
	"ProgressBarControl", "RadioButtonControl", "ScrollBarControl",
	"SliderControl", "SpinnerControl", "StatusBarControl", "TabControl",
	"TabItemControl", "TextControl", "ToolBarControl", "ToolTipControl",
	"TreeControl", "TreeItemControl", "CustomControl", "GroupControl",
	"ThumbControl", "DataGridControl", "DataItemControl", "DocumentControl",
	"SplitButtonControl", "WindowControl", "PaneControl", "HeaderControl",
	"HeaderItemControl", "TableControl", "TitleBarControl",
	"SeparatorControl", "SemanticZoomControl", "AppBarControl",
}

func controlTypeName(id int32) string {
	i := int(id) - controlTypeFirst
	if i < 0 || i >= len(controlTypeNames) {
		return fmt.Sprintf("Control%d", id)
	}
	return controlTypeNames[i]
}

// msaaRoleNames maps MSAA ROLE_SYSTEM_* ids to the legacy role names the
// classifier matches against, indexed by role id. Index 0 is unused.
var msaaRoleNames = []string{
	"",
	"TitleBar", "MenuBar", "ScrollBar", "Grip", "Sound", "Cursor", "Caret",
	"Alert", "Window", "Client", "MenuPopup", "MenuItem", "ToolTip",
	"Application", "Document", "Pane", "Chart", "Dialog", "Border",
	"Grouping", "Separator", "ToolBar", "StatusBar", "Table",
	"ColumnHeader", "RowHeader", "Column", "Row", "Cell", "Link",
	"HelpBalloon", "Character", "List", "ListItem", "Outline",
	"OutlineItem", "PageTab", "PropertyPage", "Indicator", "Graphic",
	"StaticText", "Text", "PushButton", "CheckButton", "RadioButton",
	"ComboBox", "DropList", "ProgressBar", "Dial", "HotkeyField",
	"Slider", "SpinButton", "Diagram", "Animation", "Equation",
	"ButtonDropDown", "ButtonMenu", "ButtonDropDownGrid", "WhiteSpace",
	"PageTabList", "Clock", "SplitButton", "IpAddress", "OutlineButton",
}

func msaaRoleName(id int32) string {
	if id <= 0 || int(id) >= len(msaaRoleNames) {
		return ""
	}
	return msaaRoleNames[id]
}

// comCall invokes the vtable slot at index with the object as the implicit
// this argument.
func comCall(obj unsafe.Pointer, index uintptr, args ...uintptr) (uintptr, error) {
	vtbl := *(**[64]uintptr)(obj)
	full := append([]uintptr{uintptr(obj)}, args...)
	hr, _, _ := syscall.SyscallN(vtbl[index], full...)
	if int32(hr) < 0 {
		return hr, fmt.Errorf("com call %d failed: hresult 0x%08x", index, uint32(hr))
	}
	return hr, nil
}

func comRelease(obj unsafe.Pointer) {
	if obj != nil {
		comCall(obj, 2) // IUnknown::Release
	}
}

// automation implements platform.Automation over IUIAutomation. One
// instance is shared by all capture goroutines; COM runs in the
// multithreaded apartment so concurrent calls are legal.
type automation struct {
	uia      unsafe.Pointer // IUIAutomation
	trueCond unsafe.Pointer // IUIAutomationCondition, never released
}

// newAutomation initializes COM and creates the shared IUIAutomation client.
func newAutomation() (*automation, error) {
	hr, _, _ := procCoInitializeEx.Call(0, coinitMultithreaded)
	// S_FALSE (1) means already initialized on this thread, which is fine.
	if int32(hr) < 0 {
		return nil, fmt.Errorf("CoInitializeEx: hresult 0x%08x", uint32(hr))
	}

	var uia unsafe.Pointer
	hr, _, _ = procCoCreateInstance.Call(
		uintptr(unsafe.Pointer(&clsidCUIAutomation)),
		0,
		clsctxInprocServer,
		uintptr(unsafe.Pointer(&iidIUIAutomation)),
		uintptr(unsafe.Pointer(&uia)),
	)
	if int32(hr) < 0 {
		return nil, fmt.Errorf("create UI Automation client: hresult 0x%08x", uint32(hr))
	}

	// IUIAutomation::CreateTrueCondition, vtable slot 21.
	var cond unsafe.Pointer
	if _, err := comCall(uia, 21, uintptr(unsafe.Pointer(&cond))); err != nil {
		comRelease(uia)
		return nil, fmt.Errorf("create true condition: %w", err)
	}

	return &automation{uia: uia, trueCond: cond}, nil
}

// ElementFromHandle resolves the automation root for a window handle.
// IUIAutomation::ElementFromHandle, vtable slot 6.
func (a *automation) ElementFromHandle(handle uintptr) (platform.Element, error) {
	var raw unsafe.Pointer
	_, err := comCall(a.uia, 6, handle, uintptr(unsafe.Pointer(&raw)))
	if err != nil {
		return nil, fmt.Errorf("element from handle %#x: %w", handle, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("element from handle %#x: no element", handle)
	}
	return newElement(a, raw), nil
}

// element wraps IUIAutomationElement. Released by finalizer; the walker
// holds elements only for the duration of a traversal.
type element struct {
	auto *automation
	raw  unsafe.Pointer
}

func newElement(auto *automation, raw unsafe.Pointer) *element {
	el := &element{auto: auto, raw: raw}
	runtime.SetFinalizer(el, func(e *element) { comRelease(e.raw) })
	return el
}

// IUIAutomationElement vtable slots for the current-value getters.
const (
	elFindAll                 = 6
	elGetCurrentPropertyValue = 10
	elGetControlType          = 19
	elGetName                 = 21
	elGetAcceleratorKey       = 22
	elGetHasKeyboardFocus     = 24
	elGetIsEnabled            = 26
	elGetIsOffscreen          = 36
	elGetBoundingRectangle    = 41
)

func (e *element) Name() (string, error) {
	return e.bstrProp(elGetName)
}

func (e *element) ControlType() (string, error) {
	var id int32
	if _, err := comCall(e.raw, elGetControlType, uintptr(unsafe.Pointer(&id))); err != nil {
		return "", err
	}
	runtime.KeepAlive(e)
	return controlTypeName(id), nil
}

// Role reads the MSAA role through the LegacyIAccessible pattern's role
// property and maps the numeric id to its legacy name. The legacy vocabulary
// is what catches interactive controls fronted by generic control types.
func (e *element) Role() (string, error) {
	var v variant
	if _, err := comCall(e.raw, elGetCurrentPropertyValue,
		uiaLegacyRolePropertyID, uintptr(unsafe.Pointer(&v))); err != nil {
		return "", err
	}
	runtime.KeepAlive(e)
	defer procVariantClear.Call(uintptr(unsafe.Pointer(&v)))
	if v.vt != vtI4 {
		return "", nil
	}
	return msaaRoleName(int32(v.val)), nil
}

func (e *element) Shortcut() (string, error) {
	return e.bstrProp(elGetAcceleratorKey)
}

func (e *element) IsEnabled() (bool, error) {
	return e.boolProp(elGetIsEnabled)
}

func (e *element) IsOffscreen() (bool, error) {
	return e.boolProp(elGetIsOffscreen)
}

func (e *element) IsFocused() (bool, error) {
	return e.boolProp(elGetHasKeyboardFocus)
}

func (e *element) Rect() (model.BoundingBox, error) {
	var r rect
	if _, err := comCall(e.raw, elGetBoundingRectangle, uintptr(unsafe.Pointer(&r))); err != nil {
		return model.BoundingBox{}, err
	}
	runtime.KeepAlive(e)
	return model.NewBoundingBox(int(r.Left), int(r.Top), int(r.Right), int(r.Bottom)), nil
}

// Value reads the value pattern's current value through the property
// system, which answers empty for elements without the pattern instead of
// failing.
func (e *element) Value() (string, error) {
	var v variant
	if _, err := comCall(e.raw, elGetCurrentPropertyValue,
		uiaValueValuePropertyID, uintptr(unsafe.Pointer(&v))); err != nil {
		return "", err
	}
	runtime.KeepAlive(e)
	defer procVariantClear.Call(uintptr(unsafe.Pointer(&v)))
	if v.vt != vtBSTR || v.val == 0 {
		return "", nil
	}
	return bstrToString(v.val), nil
}

// Children returns direct children in the order UIA reports them.
// IUIAutomationElement::FindAll with TreeScope_Children.
func (e *element) Children() ([]platform.Element, error) {
	var arr unsafe.Pointer
	if _, err := comCall(e.raw, elFindAll,
		treeScopeChildren,
		uintptr(e.auto.trueCond),
		uintptr(unsafe.Pointer(&arr))); err != nil {
		return nil, fmt.Errorf("find children: %w", err)
	}
	runtime.KeepAlive(e)
	if arr == nil {
		return nil, nil
	}
	defer comRelease(arr)

	// IUIAutomationElementArray: get_Length slot 3, GetElement slot 4.
	var length int32
	if _, err := comCall(arr, 3, uintptr(unsafe.Pointer(&length))); err != nil {
		return nil, fmt.Errorf("children length: %w", err)
	}

	children := make([]platform.Element, 0, length)
	for i := int32(0); i < length; i++ {
		var child unsafe.Pointer
		if _, err := comCall(arr, 4, uintptr(i), uintptr(unsafe.Pointer(&child))); err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		if child != nil {
			children = append(children, newElement(e.auto, child))
		}
	}
	return children, nil
}

func (e *element) bstrProp(slot uintptr) (string, error) {
	var bstr uintptr
	if _, err := comCall(e.raw, slot, uintptr(unsafe.Pointer(&bstr))); err != nil {
		return "", err
	}
	runtime.KeepAlive(e)
	if bstr == 0 {
		return "", nil
	}
	defer procSysFreeString.Call(bstr)
	return bstrToString(bstr), nil
}

func (e *element) boolProp(slot uintptr) (bool, error) {
	var b int32
	if _, err := comCall(e.raw, slot, uintptr(unsafe.Pointer(&b))); err != nil {
		return false, err
	}
	runtime.KeepAlive(e)
	return b != 0, nil
}

const (
	vtI4   = 3
	vtBSTR = 8
)

// variant is a minimal VARIANT layout: 8 bytes of header then the value
// union. Only VT_I4 and VT_BSTR payloads are read; everything else is
// cleared and ignored.
type variant struct {
	vt       uint16
	reserved [3]uint16
	val      uintptr
	_        uintptr
}

func bstrToString(bstr uintptr) string {
	n, _, _ := procSysStringLen.Call(bstr)
	if n == 0 {
		return ""
	}
	chars := unsafe.Slice((*uint16)(unsafe.Pointer(bstr)), n)
	return syscall.UTF16ToString(chars)
}
