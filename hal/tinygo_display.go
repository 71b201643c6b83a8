//go:build tinygo

package hal

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// tinyGoDisplay adapts a tinygo.org/x/drivers.Displayer to the hal.Display
// contract. It is wired up by board-specific init code (not included here)
// calling SetPanel once the concrete driver has been configured; until
// then Framebuffer returns a stub that reports ErrNotImplemented on Present.
type tinyGoDisplay struct {
	panel drivers.Displayer
}

func newTinyGoDisplay() *tinyGoDisplay {
	return &tinyGoDisplay{}
}

// SetPanel binds the concrete display driver. Board bring-up code calls
// this once, after configuring the driver's SPI/I2C bus.
func (d *tinyGoDisplay) SetPanel(panel drivers.Displayer) {
	d.panel = panel
}

func (d *tinyGoDisplay) Framebuffer() Framebuffer {
	if d.panel == nil {
		return &unboundFramebuffer{}
	}
	return &panelFramebuffer{panel: d.panel}
}

type unboundFramebuffer struct{}

func (*unboundFramebuffer) Width() int             { return 0 }
func (*unboundFramebuffer) Height() int            { return 0 }
func (*unboundFramebuffer) Format() PixelFormat    { return PixelFormatRGB565 }
func (*unboundFramebuffer) StrideBytes() int       { return 0 }
func (*unboundFramebuffer) Buffer() []byte         { return nil }
func (*unboundFramebuffer) ClearRGB(r, g, b uint8) {}
func (*unboundFramebuffer) Present() error         { return ErrNotImplemented }

// panelFramebuffer forwards ClearRGB (pixel by pixel) and Present to the
// panel; it has no backing byte buffer, so Buffer always returns nil and
// drawing that writes through Buffer has no effect on the panel.
type panelFramebuffer struct {
	panel drivers.Displayer
}

func (f *panelFramebuffer) Width() int {
	w, _ := f.panel.Size()
	return int(w)
}

func (f *panelFramebuffer) Height() int {
	_, h := f.panel.Size()
	return int(h)
}

func (f *panelFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *panelFramebuffer) StrideBytes() int    { return f.Width() * 2 }
func (f *panelFramebuffer) Buffer() []byte      { return nil }

func (f *panelFramebuffer) ClearRGB(r, g, b uint8) {
	w, h := f.panel.Size()
	c := color.RGBA{R: r, G: g, B: b, A: 0xFF}
	for y := int16(0); y < h; y++ {
		for x := int16(0); x < w; x++ {
			f.panel.SetPixel(x, y, c)
		}
	}
}

func (f *panelFramebuffer) Present() error { return f.panel.Display() }
