// Command fibersim is a host-only interactive console for poking at a
// fiber.Scheduler directly: post events, advance the clock, fork a
// handler on a throwaway goroutine, and print a snapshot of every
// queue, without opening a window.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/shlex"

	"github.com/tadakado/microbit-dal/eventbus"
	"github.com/tadakado/microbit-dal/fiber"
	"github.com/tadakado/microbit-dal/hal"
)

func main() {
	var workers int
	flag.IntVar(&workers, "workers", 0, "Number of demo worker fibers to seed at startup.")
	flag.Parse()

	h := hal.New()
	sched := fiber.New(0)
	bus := eventbus.New()
	boot := sched.Init(h.Waiter(), h.SystemTasks())

	go func() {
		t := h.Time()
		if t == nil {
			return
		}
		for seq := range t.Ticks() {
			sched.Tick(seq)
		}
	}()
	go func() { _ = bus.Run(context.Background(), sched) }()

	for i := 0; i < workers; i++ {
		id := i
		sched.CreateFiber(func(c *fiber.Context) {
			for {
				c.Sleep(uint32(200 + id*25))
				bus.Post(uint16(id), uint16(c.Scheduler().Ticks()&0xFFFF))
			}
		}, nil)
	}

	fmt.Println("fibersim: type 'help' for commands, 'quit' to exit")
	repl(boot, sched, bus, h)
}

func repl(boot *fiber.Context, sched *fiber.Scheduler, bus *eventbus.Bus, h hal.HAL) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		args, err := shlex.Split(scanner.Text())
		if err != nil || len(args) == 0 {
			continue
		}
		if !runCommand(args, boot, sched, bus, h) {
			return
		}
	}
}

// runCommand executes one console command, returning false only for
// "quit"/"exit".
func runCommand(args []string, boot *fiber.Context, sched *fiber.Scheduler, bus *eventbus.Bus, h hal.HAL) bool {
	switch args[0] {
	case "quit", "exit":
		return false

	case "help":
		fmt.Println("commands: sleep <ms> | event <id> <value> | tick <ms> | fob | stats | quit")
		fmt.Println("sleep/fob run inline against a freshly spawned fiber so you can watch it join a queue.")

	case "sleep":
		if len(args) != 2 {
			fmt.Println("usage: sleep <ms>")
			return true
		}
		ms, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			fmt.Println("bad ms:", err)
			return true
		}
		sched.CreateFiber(func(c *fiber.Context) {
			c.Sleep(uint32(ms))
		}, nil)
		fmt.Printf("spawned a fiber sleeping %dms\n", ms)

	case "event":
		if len(args) != 3 {
			fmt.Println("usage: event <id> <value>")
			return true
		}
		id, err1 := strconv.ParseUint(args[1], 10, 16)
		val, err2 := strconv.ParseUint(args[2], 10, 16)
		if err1 != nil || err2 != nil {
			fmt.Println("bad id/value")
			return true
		}
		bus.Post(uint16(id), uint16(val))
		fmt.Printf("posted event id=%d value=%d (posted=%d dropped=%d)\n", id, val, bus.Posted(), bus.Dropped())

	case "tick":
		if len(args) != 2 {
			fmt.Println("usage: tick <ms>")
			return true
		}
		ms, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			fmt.Println("bad ms:", err)
			return true
		}
		sched.Tick(sched.Ticks() + ms)
		boot.Yield()
		fmt.Println("ticked to", sched.Ticks())

	case "fob":
		sched.CreateFiber(func(c *fiber.Context) {
			_ = c.ForkOnBlock(func(fc *fiber.Context) {
				fc.WaitForEvent(fiber.IDAny, fiber.ValueAny)
			})
		}, nil)
		boot.Yield()
		fmt.Println("ran an optimistic fork-on-block attempt")

	case "stats":
		st := sched.Stats()
		fmt.Printf("tick=%d run=%d sleep=%d wait=%d pool=%d live=%d hiwat=%d\n",
			st.Ticks, st.Run, st.Sleep, st.Wait, st.Pool, st.LiveFibers, st.StackHighWater)

	default:
		fmt.Println("unknown command:", args[0])
	}
	boot.Yield()
	return true
}
