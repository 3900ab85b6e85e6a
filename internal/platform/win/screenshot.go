//go:build windows

package win

import (
	"fmt"
	"image"
	"unsafe"
)

const (
	srcCopy      = 0x00CC0020
	dibRGBColors = 0
	biRGB        = 0
)

type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// screenshotter implements platform.Screenshotter with a GDI BitBlt into a
// DIB section, the cheapest route to raw pixels without extra copies.
type screenshotter struct {
	screen windowAPI
}

func (s screenshotter) CaptureScreen() (image.Image, error) {
	bounds := s.screen.VirtualScreen()
	width := int32(bounds.Width)
	height := int32(bounds.Height)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("virtual screen has no area")
	}

	screenDC, _, _ := procGetDC.Call(0)
	if screenDC == 0 {
		return nil, fmt.Errorf("GetDC failed")
	}
	defer procReleaseDC.Call(0, screenDC)

	memDC, _, _ := procCreateCompatibleDC.Call(screenDC)
	if memDC == 0 {
		return nil, fmt.Errorf("CreateCompatibleDC failed")
	}
	defer procDeleteDC.Call(memDC)

	// Top-down DIB (negative height) so row 0 is the top of the screen.
	bmi := bitmapInfoHeader{
		Size:        uint32(unsafe.Sizeof(bitmapInfoHeader{})),
		Width:       width,
		Height:      -height,
		Planes:      1,
		BitCount:    32,
		Compression: biRGB,
	}

	var bits uintptr
	bitmap, _, _ := procCreateDIBSection.Call(
		memDC,
		uintptr(unsafe.Pointer(&bmi)),
		dibRGBColors,
		uintptr(unsafe.Pointer(&bits)),
		0, 0,
	)
	if bitmap == 0 {
		return nil, fmt.Errorf("CreateDIBSection failed")
	}
	defer procDeleteObject.Call(bitmap)

	oldObj, _, _ := procSelectObject.Call(memDC, bitmap)
	if oldObj == 0 {
		return nil, fmt.Errorf("SelectObject failed")
	}
	defer procSelectObject.Call(memDC, oldObj)

	ret, _, _ := procBitBlt.Call(
		memDC,
		0, 0, uintptr(width), uintptr(height),
		screenDC,
		uintptr(uint32(int32(bounds.Left))), uintptr(uint32(int32(bounds.Top))),
		srcCopy,
	)
	if ret == 0 {
		return nil, fmt.Errorf("BitBlt failed")
	}

	// The DIB holds BGRA; swap to RGBA while copying out of the section,
	// which is freed with the bitmap.
	total := int(width) * int(height) * 4
	src := unsafe.Slice((*byte)(unsafe.Pointer(bits)), total)
	img := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	for i := 0; i < total; i += 4 {
		img.Pix[i] = src[i+2]
		img.Pix[i+1] = src[i+1]
		img.Pix[i+2] = src[i]
		img.Pix[i+3] = 0xFF
	}
	return img, nil
}
