// Command fiberviz opens a desktop window and draws every live fiber as
// a colored tile, one per queue slot, updated every frame: green for
// running, blue for sleeping, yellow for waiting on an event, and gray
// for pooled. It is a visual companion to fibersim's text console,
// grounded in hal/host_window.go's ebiten.RunGame wiring.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/tadakado/microbit-dal/eventbus"
	"github.com/tadakado/microbit-dal/fiber"
	"github.com/tadakado/microbit-dal/hal"
	"github.com/tadakado/microbit-dal/internal/buildinfo"
)

const (
	tileSize = 12
	tileGap  = 2
	cols     = 24
)

func main() {
	var workers int
	flag.IntVar(&workers, "workers", 12, "Number of demo worker fibers to seed.")
	flag.Parse()

	h := hal.New()
	sched := fiber.New(0)
	bus := eventbus.New()
	boot := sched.Init(h.Waiter(), h.SystemTasks())

	for i := 0; i < workers; i++ {
		id := i
		if _, err := sched.CreateFiber(func(c *fiber.Context) {
			for {
				c.Sleep(uint32(120 + id*31))
				bus.Post(uint16(id), uint16(c.Scheduler().Ticks()&0xFFFF))
				_ = c.ForkOnBlock(func(fc *fiber.Context) {
					fc.WaitForEvent(fiber.IDAny, fiber.ValueAny)
				})
			}
		}, nil); err != nil {
			fmt.Fprintln(os.Stderr, "fiberviz: create worker:", err)
			os.Exit(1)
		}
	}

	g := &vizGame{boot: boot, sched: sched, bus: bus, h: h}
	ebiten.SetWindowTitle("fiberviz (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(cols*(tileSize+tileGap)+tileGap, 20*(tileSize+tileGap)+tileGap+24)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type vizGame struct {
	boot  *fiber.Context
	sched *fiber.Scheduler
	bus   *eventbus.Bus
	h     hal.HAL
}

func (g *vizGame) Update() error {
	if t := g.h.Time(); t != nil {
		if ch := t.Ticks(); ch != nil {
		drain:
			for {
				select {
				case seq := <-ch:
					g.sched.Tick(seq)
				default:
					break drain
				}
			}
		}
	}
	g.boot.Yield()
	return nil
}

func (g *vizGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xFF})

	snap := g.sched.Snapshot()
	for i, fs := range snap {
		x := tileGap + (i%cols)*(tileSize+tileGap)
		y := tileGap + (i/cols)*(tileSize+tileGap)
		c := tileColor(fs.State)
		ebitenutil.DrawRect(screen, float64(x), float64(y), tileSize, tileSize, c)
	}

	st := g.sched.Stats()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
		"tick=%d run=%d sleep=%d wait=%d pool=%d posted=%d dropped=%d",
		st.Ticks, st.Run, st.Sleep, st.Wait, st.Pool, g.bus.Posted(), g.bus.Dropped(),
	), tileGap, 20*(tileSize+tileGap)+tileGap)
}

func (g *vizGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return cols*(tileSize+tileGap) + tileGap, 20*(tileSize+tileGap) + tileGap + 24
}

func tileColor(state fiber.QueueState) color.RGBA {
	switch state {
	case fiber.QueueRun:
		return color.RGBA{R: 0x30, G: 0xE0, B: 0x40, A: 0xFF}
	case fiber.QueueSleep:
		return color.RGBA{R: 0x30, G: 0x60, B: 0xE0, A: 0xFF}
	case fiber.QueueWait:
		return color.RGBA{R: 0xE0, G: 0xD0, B: 0x30, A: 0xFF}
	case fiber.QueuePool:
		return color.RGBA{R: 0x50, G: 0x50, B: 0x50, A: 0xFF}
	default:
		return color.RGBA{R: 0x80, G: 0x00, B: 0x80, A: 0xFF}
	}
}
