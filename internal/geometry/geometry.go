// Package geometry holds the pure rectangle math used by the element walker:
// window/element/screen intersection with clamping, and randomized click-point
// sampling.
package geometry

import (
	"math/rand"

	"github.com/winmcp/winmcp/internal/model"
)

// Intersect computes the intersection of an element rectangle with its
// owning window's rectangle, clamped into the screen rectangle. Automation
// providers routinely report element rectangles that extend past the
// window's paint area or past the virtual screen; the result here is the
// actually visible region. Overlap requires strict inequality: touching
// edges produce a zero box, never negative dimensions.
func Intersect(window, element, screen model.BoundingBox) model.BoundingBox {
	left := max(window.Left, element.Left)
	top := max(window.Top, element.Top)
	right := min(window.Right, element.Right)
	bottom := min(window.Bottom, element.Bottom)

	left = max(screen.Left, left)
	top = max(screen.Top, top)
	right = min(screen.Right, right)
	bottom = min(screen.Bottom, bottom)

	if right > left && bottom > top {
		return model.NewBoundingBox(left, top, right, bottom)
	}
	// No visible intersection: either outside the window or off screen.
	return model.BoundingBox{}
}

// RandomPointWithin samples a uniformly random integer point inside the box
// shrunk around its center by scale. Repeated clicks on the same logical
// target then land on varying pixels, which sidesteps click debouncing in
// some UI frameworks. A degenerate box returns its single point.
func RandomPointWithin(box model.BoundingBox, scale float64) model.Center {
	scaledWidth := int(float64(box.Width) * scale)
	scaledHeight := int(float64(box.Height) * scale)
	scaledLeft := box.Left + (box.Width-scaledWidth)/2
	scaledTop := box.Top + (box.Height-scaledHeight)/2

	x := scaledLeft
	if scaledWidth > 0 {
		x += rand.Intn(scaledWidth + 1)
	}
	y := scaledTop
	if scaledHeight > 0 {
		y += rand.Intn(scaledHeight + 1)
	}
	return model.Center{X: x, Y: y}
}
