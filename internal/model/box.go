package model

import "fmt"

// BoundingBox is a screen rectangle in virtual-screen coordinates.
// Coordinates may be negative on multi-monitor setups. Width and Height
// are always Right-Left and Bottom-Top and never negative.
type BoundingBox struct {
	Left   int `yaml:"left"   json:"left"`
	Top    int `yaml:"top"    json:"top"`
	Right  int `yaml:"right"  json:"right"`
	Bottom int `yaml:"bottom" json:"bottom"`
	Width  int `yaml:"width"  json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Center is a point on screen.
type Center struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// NewBoundingBox builds a box from edge coordinates, deriving width and height.
func NewBoundingBox(left, top, right, bottom int) BoundingBox {
	return BoundingBox{
		Left:   left,
		Top:    top,
		Right:  right,
		Bottom: bottom,
		Width:  right - left,
		Height: bottom - top,
	}
}

// Area returns the pixel area of the box.
func (b BoundingBox) Area() int {
	return b.Width * b.Height
}

// IsEmpty reports whether the box has no visible area.
func (b BoundingBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// GetCenter returns the center point of the box.
func (b BoundingBox) GetCenter() Center {
	return Center{
		X: b.Left + b.Width/2,
		Y: b.Top + b.Height/2,
	}
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", b.Left, b.Top, b.Right, b.Bottom)
}
