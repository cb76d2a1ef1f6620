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

// Package scheduler implements the cooperative event loop that ties the
// CPU to the GPU/timers/interrupt controller without per-cycle polling: it
// runs the CPU instruction by instruction, and after
// every instruction pulls every other component's internal clock forward
// by the cycles just spent, so an MMIO access made mid-slice always
// observes a view consistent with the caller's position in time.
package scheduler

import (
	"github.com/adriapsx/psxcore/hardware/cpu"
	"github.com/adriapsx/psxcore/hardware/gpu"
	"github.com/adriapsx/psxcore/hardware/instance"
	"github.com/adriapsx/psxcore/hardware/interrupts"
	"github.com/adriapsx/psxcore/hardware/timer"
)

// Scheduler owns the global CPU-cycle clock and drives CPU dispatch,
// GPU/timer catch-up, and interrupt-line aggregation in lockstep.
//
// CPU/DMA/CPU+DMA bus-ownership arbitration collapses to "always CPU"
// here: hardware/dma's channels run their transfer to completion
// synchronously on the triggering CHCR write (see DESIGN.md's hardware/dma
// entry), so there is never a DMA burst in flight for the scheduler to
// interleave against. Only CPU instructions consume global clock cycles in
// this model.
type Scheduler struct {
	ins     *instance.Instance
	cpu     *cpu.CPU
	gpu     *gpu.GPU
	timers  *timer.Timers
	ic      *interrupts.Controller
	cc      uint64 // global CPU-cycle position since the last Reset
}

// New constructs a Scheduler over the console's already-wired components.
func New(ins *instance.Instance, c *cpu.CPU, g *gpu.GPU, ts *timer.Timers, ic *interrupts.Controller) *Scheduler {
	return &Scheduler{ins: ins, cpu: c, gpu: g, timers: ts, ic: ic}
}

// Iter runs until at least budgetCycles CPU cycles have been consumed (the
// last instruction of a slice may slightly overshoot, since instructions
// are not preemptible) and returns the number of cycles actually spent.
func (s *Scheduler) Iter(budgetCycles uint64) uint64 {
	var spent uint64
	for spent < budgetCycles {
		spent += s.dispatchOne()
	}
	return spent
}

// Trace runs exactly one instruction dispatch (including a pure interrupt
// take, which costs zero cycles) and returns its cost, for single-step
// debugger use.
func (s *Scheduler) Trace() uint64 {
	return s.dispatchOne()
}

// dispatchOne steps the CPU once, advances every other component's clock
// by the cycles spent, and re-latches the aggregated interrupt line.
func (s *Scheduler) dispatchOne() uint64 {
	cost := uint64(s.cpu.Step())
	s.cc += cost
	s.ins.Clock.Advance(cost)

	s.gpu.CatchUp(s.cc)
	s.timers.SystemTick(uint32(cost))
	s.cpu.LatchIRQ(s.ic.IRQActive())

	return cost
}

// Reset restarts the CPU at the BIOS vector and the GPU at its power-on
// display state, and zeroes the scheduler's own clock. DMA, Timers and the
// interrupt controller have no internal state worth re-homing on a soft
// reset beyond what a fresh BIOS boot sequence already reprograms through
// their MMIO registers, so they are left as-is.
func (s *Scheduler) Reset() {
	s.cpu.Reset()
	s.gpu.Reset()
	s.cc = 0
	s.ins.Normalise()
}
