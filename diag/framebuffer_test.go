package diag

import (
	"image/color"
	"testing"

	"github.com/tadakado/microbit-dal/fiber"
	"github.com/tadakado/microbit-dal/hal"
)

func rgbaWhite() color.RGBA { return color.RGBA{R: 255, G: 255, B: 255, A: 255} }

type fakeFramebuffer struct {
	w, h      int
	buf       []byte
	presented int
}

func newFakeFramebuffer(w, h int) *fakeFramebuffer {
	return &fakeFramebuffer{w: w, h: h, buf: make([]byte, w*h*2)}
}

func (f *fakeFramebuffer) Width() int               { return f.w }
func (f *fakeFramebuffer) Height() int               { return f.h }
func (f *fakeFramebuffer) Format() hal.PixelFormat   { return hal.PixelFormatRGB565 }
func (f *fakeFramebuffer) StrideBytes() int          { return f.w * 2 }
func (f *fakeFramebuffer) Buffer() []byte            { return f.buf }
func (f *fakeFramebuffer) ClearRGB(r, g, b uint8)    {}
func (f *fakeFramebuffer) Present() error            { f.presented++; return nil }

func TestDrawPresentsAndTouchesPixels(t *testing.T) {
	fb := newFakeFramebuffer(128, 64)
	st := fiber.Stats{Run: 2, Sleep: 1, Ticks: 42}

	if err := Draw(fb, nil, rgbaWhite(), st); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if fb.presented != 1 {
		t.Fatalf("expected Present to be called once, got %d", fb.presented)
	}

	anyLit := false
	for _, b := range fb.buf {
		if b != 0 {
			anyLit = true
			break
		}
	}
	if !anyLit {
		t.Fatal("expected Draw to light at least one pixel")
	}
}

func TestDrawNilFramebufferIsNoop(t *testing.T) {
	if err := Draw(nil, nil, rgbaWhite(), fiber.Stats{}); err != nil {
		t.Fatalf("expected nil framebuffer to be a no-op, got %v", err)
	}
}
