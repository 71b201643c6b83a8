// Package app wires a fiber.Scheduler, an eventbus.Bus and a hal.HAL
// together into a runnable system: it starts the collaborator
// goroutines the core packages need (a tick pump, an event pump) and
// seeds a handful of demo fibers so there is something visible on the
// dashboard the moment the process starts.
package app

import (
	"context"
	"image/color"

	"golang.org/x/sync/errgroup"

	"github.com/tadakado/microbit-dal/diag"
	"github.com/tadakado/microbit-dal/eventbus"
	"github.com/tadakado/microbit-dal/fiber"
	"github.com/tadakado/microbit-dal/hal"
)

// DefaultWorkers is the number of demo worker fibers started when
// Config.Workers is left at zero.
const DefaultWorkers = 4

var diagFG = color.RGBA{R: 0x20, G: 0xE0, B: 0x20, A: 0xFF}

// Config controls how the demo system is seeded.
type Config struct {
	// Workers is the number of demo worker fibers to create. Each one
	// sleeps, posts an event, then fork-on-blocks a wait for the next
	// event — enough to keep every queue occupied for the dashboard.
	Workers int
}

// System is a running Scheduler/Bus/HAL triple plus the collaborator
// goroutines keeping them fed. The zero value is not usable; construct
// one with StartWithConfig.
type System struct {
	Scheduler *fiber.Scheduler
	Bus       *eventbus.Bus
	HAL       hal.HAL

	boot   *fiber.Context
	cancel context.CancelFunc
	group  *errgroup.Group
}

// Close stops the collaborator goroutines and waits for them to
// return. It does not stop fiber goroutines; those are parked forever
// by design (see fiber.Context.Release) and exit only with the process.
func (s *System) Close() error {
	s.cancel()
	return s.group.Wait()
}

// Step redraws the diagnostics dashboard onto the HAL's framebuffer, if
// it has one. It never returns an error; the signature matches
// hal.RunWindow/RunHeadless's per-frame callback shape.
func (s *System) Step() error {
	if s.boot != nil {
		s.boot.Yield()
	}
	drawDashboard(s)
	return nil
}

// drawDashboard paints the current scheduler snapshot onto the HAL's
// framebuffer, if it has one. It does not itself touch the scheduler.
func drawDashboard(s *System) {
	stats := s.Scheduler.Stats()
	if disp := s.HAL.Display(); disp != nil {
		if fb := disp.Framebuffer(); fb != nil {
			_ = diag.Draw(fb, nil, diagFG, stats)
		}
	}
}

// New starts a system with default configuration and returns its
// per-frame step function, the shape hal.RunWindow/RunHeadless expect.
func New(h hal.HAL) func() error { return NewWithConfig(h, Config{}) }

// Run starts a system with default configuration and blocks forever;
// the TinyGo entry point has no frame loop to hang a step function off
// of, so the dashboard is instead redrawn from the boot fiber itself
// (see dashboardLoop).
func Run(h hal.HAL) { RunWithConfig(h, Config{}) }

// NewWithConfig starts a system and returns its step function.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	sys, err := StartWithConfig(h, cfg)
	if err != nil {
		return func() error { return err }
	}
	return sys.Step
}

// RunWithConfig starts a system and hands its boot fiber to
// dashboardLoop, which never returns.
func RunWithConfig(h hal.HAL, cfg Config) {
	sys, err := StartWithConfig(h, cfg)
	if err != nil {
		if l := h.Logger(); l != nil {
			l.WriteLineString("app: start failed: " + err.Error())
		}
		select {}
	}
	dashboardLoop(sys.boot, sys)
}

// StartWithConfig builds a Scheduler, an eventbus.Bus and the
// collaborator goroutines that drive them from h, seeds cfg.Workers
// demo fibers, and returns the running System. The boot fiber is left
// parked on the run queue: RunWithConfig drives it into dashboardLoop;
// a caller going through NewWithConfig instead leaves it parked and
// relies on its own frame loop calling System.Step.
func StartWithConfig(h hal.HAL, cfg Config) (*System, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	installPanicHandler(h)
	bootDiagStart(h)
	bootScreen(h, "scheduler init")

	sched := fiber.New(0)
	bus := eventbus.New()
	boot := sched.Init(h.Waiter(), h.SystemTasks())
	bootScreen(h, "workers")

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return pumpTicks(gctx, h, sched) })
	g.Go(func() error { return bus.Run(gctx, sched) })

	sys := &System{
		Scheduler: sched,
		Bus:       bus,
		HAL:       h,
		boot:      boot,
		cancel:    cancel,
		group:     g,
	}

	for i := 0; i < cfg.Workers; i++ {
		id := i
		if _, err := sched.CreateFiber(func(c *fiber.Context) {
			workerBody(c, id, bus)
		}, nil); err != nil {
			cancel()
			return nil, err
		}
	}

	return sys, nil
}

// pumpTicks ranges over h's tick source, feeding every value to the
// scheduler, until gctx is cancelled or the channel closes. Grounded in
// the teacher's own tick-forwarding goroutine in the original app.go.
func pumpTicks(gctx context.Context, h hal.HAL, sched *fiber.Scheduler) error {
	t := h.Time()
	if t == nil {
		return nil
	}
	ch := t.Ticks()
	if ch == nil {
		return nil
	}
	for {
		select {
		case <-gctx.Done():
			return gctx.Err()
		case seq, ok := <-ch:
			if !ok {
				return nil
			}
			sched.Tick(seq)
		}
	}
}

// dashboardLoop is the boot fiber's permanent job once RunWithConfig
// hands it control: redraw the dashboard, sleep, repeat. It never
// returns, matching every other fiber body in this tree.
func dashboardLoop(boot *fiber.Context, sys *System) {
	for {
		drawDashboard(sys)
		if l := sys.HAL.Logger(); l != nil {
			diag.WriteLog(l, sys.Scheduler.Stats())
		}
		boot.Sleep(500)
	}
}

// workerBody is the demo fiber body seeded by StartWithConfig: it
// sleeps on an id-dependent period, posts an event carrying its id,
// then optimistically waits for the next event on a throwaway
// goroutine, exercising Sleep, WaitForEvent and ForkOnBlock together so
// the dashboard always has activity in every queue.
func workerBody(c *fiber.Context, id int, bus *eventbus.Bus) {
	for {
		c.Sleep(uint32(150 + id*47))
		bus.Post(uint16(id), uint16(c.Scheduler().Ticks()&0xFFFF))
		_ = c.ForkOnBlock(func(fc *fiber.Context) {
			fc.WaitForEvent(fiber.IDAny, fiber.ValueAny)
		})
	}
}
