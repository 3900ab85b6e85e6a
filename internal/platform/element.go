package platform

import "github.com/winmcp/winmcp/internal/model"

// Element is the capability interface over one live accessibility element.
// Every method may fail at any time: the underlying object belongs to
// another process and can vanish between calls. The walker owns all retry
// and isolation logic, so implementations should surface provider errors
// directly instead of masking them.
type Element interface {
	// Name returns the element's accessible name.
	Name() (string, error)

	// ControlType returns the provider's control-type name, e.g.
	// "ButtonControl".
	ControlType() (string, error)

	// Role returns the legacy accessibility role name, e.g. "PushButton".
	// The role catches interactive controls whose control type is generic.
	Role() (string, error)

	// Rect returns the element's screen rectangle as reported by the
	// provider, before any reconciliation.
	Rect() (model.BoundingBox, error)

	// Value returns the element's current value, if it has one.
	Value() (string, error)

	// Shortcut returns the element's accelerator key, if any.
	Shortcut() (string, error)

	// IsEnabled reports whether the element accepts input.
	IsEnabled() (bool, error)

	// IsOffscreen reports whether the provider considers the element
	// scrolled or positioned out of view.
	IsOffscreen() (bool, error)

	// IsFocused reports whether the element has keyboard focus.
	IsFocused() (bool, error)

	// Children returns the element's children in document order.
	Children() ([]Element, error)
}

// Automation creates live element roots from window handles.
type Automation interface {
	// ElementFromHandle binds to the accessibility root of a top-level
	// window. Fails when the window has already closed.
	ElementFromHandle(handle uintptr) (Element, error)
}
