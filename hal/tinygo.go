//go:build tinygo

package hal

import (
	"context"
	"machine"
	"time"
)

type tinyGoHAL struct {
	logger *uartLogger
	led    *pinLED
	disp   *tinyGoDisplay
	clock  *tinyGoClock
	waiter *tinyGoWaiter
	tasks  *tinyGoSystemTasks
}

// New returns a bare-metal HAL implementation. UART0 on GP0 (TX) / GP1
// (RX), 115200 8N1; the on-board LED pin is configured as an output and
// exposed through LED().
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	return &tinyGoHAL{
		logger: &uartLogger{uart: uart},
		led:    &pinLED{pin: ledPin},
		disp:   newTinyGoDisplay(),
		clock:  newTinyGoClock(),
		waiter: &tinyGoWaiter{},
		tasks:  &tinyGoSystemTasks{},
	}
}

func (h *tinyGoHAL) Logger() Logger           { return h.logger }
func (h *tinyGoHAL) LED() LED                 { return h.led }
func (h *tinyGoHAL) Display() Display         { return h.disp }
func (h *tinyGoHAL) Time() Time               { return h.clock }
func (h *tinyGoHAL) Waiter() LowPowerWaiter   { return h.waiter }
func (h *tinyGoHAL) SystemTasks() SystemTasks { return h.tasks }

type tinyGoClock struct {
	ch  chan uint64
	seq uint64
}

func newTinyGoClock() *tinyGoClock {
	t := &tinyGoClock{ch: make(chan uint64, 16)}
	go func() {
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			t.seq++
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}()
	return t
}

func (t *tinyGoClock) Ticks() <-chan uint64 { return t.ch }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

// tinyGoWaiter has no radio-idle primitive wired up on this target yet,
// so it falls back to a short sleep rather than a true low-power wait.
type tinyGoWaiter struct{}

func (w *tinyGoWaiter) Wait(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(time.Millisecond):
	}
}

type tinyGoSystemTasks struct{}

func (*tinyGoSystemTasks) Run() {}
