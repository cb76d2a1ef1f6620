// This file is part of psxcore.
//
// psxcore is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// psxcore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with psxcore.  If not, see <https://www.gnu.org/licenses/>.

// Package debugger is the interactive CLI front-end: a raw-terminal REPL
// driving the scheduler one instruction at a time, a live
// stats dashboard, and an on-demand DOT snapshot of DMA/GPU state.
package debugger

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/adriapsx/psxcore/assert"
	"github.com/adriapsx/psxcore/debugger/term"
	"github.com/adriapsx/psxcore/hardware/cpu"
	"github.com/adriapsx/psxcore/paths"
	"github.com/adriapsx/psxcore/system"
)

// Debugger owns the REPL loop over a wired system.System. The system is not
// safe for concurrent access: dispatch must only ever run on the goroutine
// Run started on, even though "dashboard" spins up an HTTP server on its own
// goroutine alongside it.
type Debugger struct {
	sys  *system.System
	term *term.Terminal

	breakpoints map[uint32]bool
	quit        bool
	snapshotNum int

	replGoroutine uint64
}

// New attaches a debugger to sys, reading commands from stdin.
func New(sys *system.System) (*Debugger, error) {
	t, err := term.Open(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("debugger: %w", err)
	}
	return &Debugger{sys: sys, term: t, breakpoints: make(map[uint32]bool)}, nil
}

// Run reads and executes commands until "quit" or EOF.
func (d *Debugger) Run() error {
	if err := d.term.CanonicalMode(); err != nil {
		return err
	}
	d.replGoroutine = assert.GetGoRoutineID()
	d.term.Printf("psxcore debugger. type \"help\" for commands.\n")
	for !d.quit {
		d.term.Printf("(psx) ")
		line, err := d.term.ReadLine()
		if err != nil {
			return nil // EOF: exit cleanly
		}
		d.dispatch(strings.Fields(line))
	}
	return nil
}

// dispatch must only run on the REPL goroutine: it touches CPU/bus state
// that the scheduler assumes is single-threaded.
func (d *Debugger) dispatch(args []string) {
	if id := assert.GetGoRoutineID(); id != d.replGoroutine {
		panic(fmt.Sprintf("debugger: dispatch called from goroutine %d, want REPL goroutine %d", id, d.replGoroutine))
	}
	if len(args) == 0 {
		return
	}
	switch args[0] {
	case "step", "s":
		n := 1
		if len(args) > 1 {
			if v, err := strconv.Atoi(args[1]); err == nil {
				n = v
			}
		}
		for i := 0; i < n; i++ {
			d.sys.Scheduler.Trace()
		}
		d.printPC()
	case "continue", "c":
		d.runUntilBreak()
	case "break", "b":
		if len(args) < 2 {
			d.term.Printf("usage: break <hex addr>\n")
			return
		}
		addr, err := strconv.ParseUint(strings.TrimPrefix(args[1], "0x"), 16, 32)
		if err != nil {
			d.term.Printf("bad address: %s\n", args[1])
			return
		}
		d.breakpoints[uint32(addr)] = true
		d.term.Printf("breakpoint set at 0x%08X\n", addr)
	case "regs", "r":
		d.printRegs()
	case "mem", "m":
		if len(args) < 2 {
			d.term.Printf("usage: mem <hex addr>\n")
			return
		}
		addr, err := strconv.ParseUint(strings.TrimPrefix(args[1], "0x"), 16, 32)
		if err != nil {
			d.term.Printf("bad address: %s\n", args[1])
			return
		}
		v, ok := d.sys.Bus.Read32(uint32(addr))
		d.term.Printf("[0x%08X] = 0x%08X (ok=%v)\n", addr, v, ok)
	case "snapshot":
		path, err := d.snapshotPath(args)
		if err != nil {
			d.term.Printf("snapshot failed: %v\n", err)
			return
		}
		if err := d.writeSnapshot(path); err != nil {
			d.term.Printf("snapshot failed: %v\n", err)
			return
		}
		d.term.Printf("wrote %s\n", path)
	case "dashboard":
		addr := ":18066"
		if len(args) > 1 {
			addr = args[1]
		}
		startDashboard(addr)
		d.term.Printf("dashboard listening on %s\n", addr)
	case "quit", "q":
		d.quit = true
	case "help", "h", "?":
		d.printHelp()
	default:
		d.term.Printf("unknown command: %s (try \"help\")\n", args[0])
	}
}

// snapshotPath resolves where a ":snapshot" dump goes: an explicit second
// argument, or an auto-numbered file under the shared resource directory.
func (d *Debugger) snapshotPath(args []string) (string, error) {
	if len(args) > 1 {
		return args[1], nil
	}
	d.snapshotNum++
	return paths.ResourcePath("snapshots", fmt.Sprintf("snapshot-%03d.dot", d.snapshotNum))
}

// runUntilBreak runs the scheduler instruction by instruction until a
// breakpoint's PC is reached. This costs a Trace-per-instruction dispatch
// rather than Iter's larger slices, trading throughput for the ability to
// stop exactly on a set breakpoint.
func (d *Debugger) runUntilBreak() {
	for {
		d.sys.Scheduler.Trace()
		if d.breakpoints[d.sys.CPU.PC] {
			d.term.Printf("breakpoint hit at 0x%08X\n", d.sys.CPU.PC)
			return
		}
	}
}

func (d *Debugger) printPC() {
	d.term.Printf("PC=0x%08X\n", d.sys.CPU.PC)
}

func (d *Debugger) printRegs() {
	for i := uint32(0); i < 32; i += 4 {
		d.term.Printf("r%-2d=%08X r%-2d=%08X r%-2d=%08X r%-2d=%08X\n",
			i, d.sys.CPU.Reg(i), i+1, d.sys.CPU.Reg(i+1),
			i+2, d.sys.CPU.Reg(i+2), i+3, d.sys.CPU.Reg(i+3))
	}
	d.term.Printf("PC=%08X HI=%08X LO=%08X SR=%08X CAUSE=%08X EPC=%08X\n",
		d.sys.CPU.PC, d.sys.CPU.HI, d.sys.CPU.LO, d.sys.CPU.SR(),
		d.sys.CPU.COP0(cpu.Cop0Cause), d.sys.CPU.COP0(cpu.Cop0EPC))
}

func (d *Debugger) printHelp() {
	d.term.Printf(`commands:
  step [n]        dispatch n instructions (default 1)
  continue        run until a breakpoint is hit
  break <addr>    set a breakpoint at a hex PC
  regs            print GPRs, HI/LO and the COP0 exception state
  mem <addr>      read one word from the physical bus
  snapshot [path] write a DOT graph of DMA/GPU state
  dashboard [addr] start the live stats dashboard
  quit            exit the debugger
`)
}
