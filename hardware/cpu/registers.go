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

package cpu

// COP0 register indices the R3000A actually implements; the rest of the
// 32-entry file reads back zero.
const (
	cop0BadVAddr = 8
	cop0SR       = 12
	cop0Cause    = 13
	cop0EPC      = 14
	cop0PRId     = 15
)

// SR bit layout.
const (
	srIEc = 1 << 0
	srKUc = 1 << 1
	srIEp = 1 << 2
	srKUp = 1 << 3
	srIEo = 1 << 4
	srKUo = 1 << 5
	srIM  = 0xFF00
	srBEV = 1 << 22
)

// CAUSE bit layout.
const (
	causeExcMask = 0x3E << 1 // bits 2-6, five-bit exception code
	causeIPMask  = 0xFF00    // bits 8-15, pending interrupt sources
	causeCEShift = 28
	causeBD      = 1 << 31
)

// Exported COP0 register indices, for debugger and test use.
const (
	Cop0BadVAddr = cop0BadVAddr
	Cop0SR       = cop0SR
	Cop0Cause    = cop0Cause
	Cop0EPC      = cop0EPC
	Cop0PRId     = cop0PRId
)

// Reg reads GPR i, for debugger and test use; register 0 is hardwired zero.
func (c *CPU) Reg(i uint32) uint32 { return c.reg(i) }

// SetReg commits an immediate GPR write, for debugger and test use.
func (c *CPU) SetReg(i uint32, v uint32) { c.setReg(i, v) }

// COP0 reads a COP0 register, for debugger and test use.
func (c *CPU) COP0(i uint32) uint32 { return c.readCOP0(i) }

// SR returns COP0.SR, for debugger and test use.
func (c *CPU) SR() uint32 { return c.sr() }

// SetSR writes COP0.SR directly, for debugger and test use.
func (c *CPU) SetSR(v uint32) { c.setSR(v) }

// reg reads GPR i; register 0 is hardwired to zero.
func (c *CPU) reg(i uint32) uint32 {
	if i == 0 {
		return 0
	}
	return c.regs[i&31]
}

// setReg commits a GPR write immediately (used for results that are not
// load-delayed, i.e. everything except LB/LBU/LH/LHU/LW/LWL/LWR/MFC0/MFC2/
// CFC2).
// Writes to register 0 are silently dropped.
func (c *CPU) setReg(i uint32, v uint32) {
	if i == 0 {
		return
	}
	c.regs[i&31] = v
	// an immediate write overtakes any in-flight load-delayed write to the
	// same register, matching real hardware: the delay slot never wins a
	// race against a same-cycle ALU result.
	c.gprDelay.Slot(int(i & 31)).Clear()
}

// scheduleLoad arms a load-delayed GPR write, visible starting two
// instructions from now (see Step in cpu.go for the delay-queue timing).
func (c *CPU) scheduleLoad(i uint32, v uint32, unaligned bool) {
	if i == 0 {
		return
	}
	c.gprDelay.Schedule(int(i&31), v, unaligned)
}

// pendingLoad reports the in-flight load-delayed value for reg, used by
// LWL/LWR to merge against a same-register LWL/LWR still in the queue
// instead of the last committed value. An ordinary pending load (e.g. a
// plain LW not yet committed) does not qualify: only a value itself
// produced by LWL/LWR is visible here, matching the Unaligned tag
// delay.Slot.Schedule records for it.
func (c *CPU) pendingLoad(i uint32) (uint32, bool) {
	s := c.gprDelay.Slot(int(i & 31))
	if s.Empty() || !s.Unaligned {
		return 0, false
	}
	return s.Value(), true
}

func (c *CPU) readCOP0(i uint32) uint32 {
	return c.cop0[i&31]
}

// writeCOP0 commits a COP0 write immediately. SR and CAUSE take effect the
// same instruction (interrupts are re-checked at the top of the very next
// dispatch by checkInterrupt), so these are not routed through the
// load-delay queue the way GPR loads are.
func (c *CPU) writeCOP0(i uint32, v uint32) {
	switch i & 31 {
	case cop0Cause:
		// only the software-interrupt-pending bits (IP1:0) are writable.
		c.cop0[cop0Cause] = (c.cop0[cop0Cause] &^ 0x300) | (v & 0x300)
	case cop0EPC, cop0PRId, cop0BadVAddr:
		// read-only from the CPU's point of view in this model.
	default:
		c.cop0[i&31] = v
	}
}

func (c *CPU) sr() uint32    { return c.cop0[cop0SR] }
func (c *CPU) setSR(v uint32) { c.cop0[cop0SR] = v }
func (c *CPU) cause() uint32 { return c.cop0[cop0Cause] }
