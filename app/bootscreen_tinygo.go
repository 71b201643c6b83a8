//go:build tinygo && bootdebug

package app

import (
	"image/color"

	"github.com/tadakado/microbit-dal/hal"
	"github.com/tadakado/microbit-dal/sparkos/fonts/font6x8cp1251"

	"tinygo.org/x/tinyfont"
)

func bootScreen(h hal.HAL, msg string) {
	bootDiagSetStep(msg)
	if h == nil {
		return
	}
	disp := h.Display()
	if disp == nil {
		return
	}
	fb := disp.Framebuffer()
	if fb == nil {
		return
	}

	fb.ClearRGB(0, 0, 0)

	d := panicDisplay{fb: fb}
	font := font6x8cp1251.Font

	fg := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	tinyfont.WriteLine(d, font, 0, 12, "fiber boot", fg)
	tinyfont.WriteLine(d, font, 0, 28, msg, fg)
	_ = fb.Present()
}
