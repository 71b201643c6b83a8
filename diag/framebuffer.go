package diag

import (
	"image/color"

	"github.com/tadakado/microbit-dal/fiber"
	"github.com/tadakado/microbit-dal/hal"
	"github.com/tadakado/microbit-dal/sparkos/fonts/const2bitcolor"
	"github.com/tadakado/microbit-dal/sparkos/fonts/font6x8cp1251"

	"tinygo.org/x/tinyfont"
)

// DefaultFont is used by Draw when no font is supplied: the system
// monospace font app/panic.go also draws with, so pulling in a dashboard
// never costs a second font's worth of data.
var DefaultFont tinyfont.Fonter = font6x8cp1251.Font

// Draw paints a scheduler snapshot as a left-aligned text block in the
// framebuffer's top-left corner, then presents it. It does not clear
// the framebuffer first — callers compose the dashboard with whatever
// else they are drawing that frame.
func Draw(fb hal.Framebuffer, font tinyfont.Fonter, fg color.RGBA, st fiber.Stats) error {
	if fb == nil {
		return nil
	}
	if font == nil {
		font = DefaultFont
	}

	fontHeight, fontOffset := int16(8), int16(7)
	if f, ok := font.(*const2bitcolor.Font); ok {
		if h, off, err := const2bitcolor.ComputeTerminalMetrics(f); err == nil {
			fontHeight, fontOffset = h, off
		}
	}

	d := fbDisplayer{fb: fb}
	y := int16(0)
	for _, line := range Lines(st) {
		tinyfont.WriteLine(d, font, 0, y+fontOffset, line, fg)
		y += fontHeight
		if int(y) >= fb.Height() {
			break
		}
	}
	return fb.Present()
}

// fbDisplayer adapts hal.Framebuffer to tinygo.org/x/drivers.Displayer,
// the interface tinyfont draws onto. Grounded in the teacher's
// app/panic.go panicDisplay, generalized beyond RGB565-only pixels is
// unnecessary here since hal.Framebuffer only ever reports that format
// on the host and TinyGo targets this module supports.
type fbDisplayer struct {
	fb hal.Framebuffer
}

func (d fbDisplayer) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d fbDisplayer) Display() error { return nil }

func (d fbDisplayer) SetPixel(x, y int16, c color.RGBA) {
	if d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	w, h := d.fb.Width(), d.fb.Height()
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= w || iy < 0 || iy >= h {
		return
	}
	pixel := uint16((uint16(c.R>>3)&0x1F)<<11 | (uint16(c.G>>2)&0x3F)<<5 | (uint16(c.B>>3) & 0x1F))
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}
