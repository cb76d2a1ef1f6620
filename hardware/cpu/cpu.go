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

// Package cpu implements the R3000A interpreter: the dispatch loop,
// exception handling, and the delayed-write model (branch slot and GPR load
// delay).
//
// Only load-class GPR writes (LB/LBU/LH/LHU/LW/LWL/LWR/MFC0/MFC2/CFC2) pass
// through the hardware/delay.Bank queue: such a write scheduled during
// instruction N's execute only becomes visible to instruction N+2, matching
// the R3000A's one-instruction load-delay slot; the branch target goes
// through a delay.Slot the same way. ALU and link results and COP0 writes
// commit immediately, and COP2 writes go straight to the gte.Engine; neither
// is delayed. See Step for the exact commit ordering.
package cpu

import (
	"github.com/adriapsx/psxcore/hardware/delay"
	"github.com/adriapsx/psxcore/hardware/gte"
	"github.com/adriapsx/psxcore/hardware/memory/bus"
	"github.com/adriapsx/psxcore/logger"
)

const resetVector = 0xBFC00000

// CPU is the interpreter's entire architectural state.
type CPU struct {
	regs   [32]uint32
	PC     uint32
	nextPC uint32

	HI, LO uint32

	cop0 [32]uint32
	cop2 gte.Engine

	gprDelay *delay.Bank
	branch   delay.Slot

	bus bus.CPUBus

	exceptionTaken bool

	// Trace, when set, logs one line per dispatched instruction via
	// logger.Logf under the "cpu" tag (instance.Config.TraceCPU wires this).
	Trace bool

	// Cycles accumulates the two-cycle-per-instruction baseline plus any
	// GTE cost reported by cop2.Execute, for the scheduler's NextEventCC
	// bookkeeping.
	Cycles uint64
}

// NewCPU constructs a CPU wired to b for memory access and cop2 for COP2
// dispatch, and resets it to the kseg1 BIOS entry point.
func NewCPU(b bus.CPUBus, cop2 gte.Engine) *CPU {
	c := &CPU{
		bus:      b,
		cop2:     cop2,
		gprDelay: delay.NewBank(32),
	}
	c.Reset()
	return c
}

// Reset restores the architectural state the R3000A presents after a
// hardware reset: PC at the BIOS entry, SR/CAUSE clear, PRId fixed.
func (c *CPU) Reset() {
	c.regs = [32]uint32{}
	c.PC = resetVector
	c.HI, c.LO = 0, 0
	c.cop0 = [32]uint32{}
	c.cop0[cop0PRId] = 0x00000002
	c.gprDelay.Clear()
	c.branch.Clear()
	c.exceptionTaken = false
}

// Step dispatches exactly one instruction (or, if an interrupt is now
// unmasked, the external-interrupt exception in its place) and returns the
// number of cycles it cost.
func (c *CPU) Step() uint32 {
	pc := c.PC

	if c.checkInterrupt(pc) {
		c.PC = c.nextPC
		return 0
	}

	delaySlot := c.branch.State() == delay.Ready

	word, ok := c.bus.Read32(pc)
	if !ok {
		c.raise(ExcIBE, pc, delaySlot, 0)
		c.PC = c.nextPC
		return 0
	}

	if c.Trace {
		logger.Logf("cpu", "%#08x: %#08x", pc, word)
	}

	nextPC := pc + 4
	c.exceptionTaken = false
	c.nextPC = nextPC // default; raise() and branch scheduling may override

	cost := c.execute(word, pc, delaySlot)

	if !c.exceptionTaken {
		// commit whatever reached Ready via the PREVIOUS dispatch's
		// Advance, then promote this dispatch's fresh Waiting entries to
		// Ready so they commit at the end of the next dispatch and are
		// visible to the one after.
		c.gprDelay.DrainReady(func(reg int, v uint32) { c.regs[reg] = v })
		if target, ok := c.branch.Commit(); ok {
			c.nextPC = target
		}
		c.gprDelay.AdvanceAll()
		c.branch.Advance()
	}

	c.PC = c.nextPC
	c.Cycles += uint64(cost)
	return cost
}

// scheduleBranch arms the branch slot so the instruction already fetched
// for the next dispatch (the delay slot) always runs, and target only
// takes effect for the dispatch after that.
func (c *CPU) scheduleBranch(target uint32) {
	c.branch.Schedule(target, false)
}
