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

func opcode(w uint32) uint32  { return w >> 26 }
func fieldRS(w uint32) uint32 { return (w >> 21) & 0x1F }
func fieldRT(w uint32) uint32 { return (w >> 16) & 0x1F }
func fieldRD(w uint32) uint32 { return (w >> 11) & 0x1F }
func shamt(w uint32) uint32   { return (w >> 6) & 0x1F }
func funct(w uint32) uint32   { return w & 0x3F }
func imm16(w uint32) uint32   { return w & 0xFFFF }
func simm16(w uint32) int32   { return int32(int16(w & 0xFFFF)) }
func target26(w uint32) uint32 { return w & 0x3FFFFFF }

// execute decodes and runs one instruction word, returning its cycle cost
// (the two-cycle baseline plus any GTE cost reported for COP2 commands).
func (c *CPU) execute(w uint32, pc uint32, delaySlot bool) uint32 {
	const baseCost = 2

	switch opcode(w) {
	case 0x00: // SPECIAL
		c.execSpecial(w, pc, delaySlot)
	case 0x01: // REGIMM
		c.execRegimm(w, pc)
	case 0x02: // J
		c.scheduleBranch(((pc + 4) & 0xF0000000) | (target26(w) << 2))
	case 0x03: // JAL
		c.setReg(31, pc+8)
		c.scheduleBranch(((pc + 4) & 0xF0000000) | (target26(w) << 2))
	case 0x04: // BEQ
		if c.reg(fieldRS(w)) == c.reg(fieldRT(w)) {
			c.scheduleBranch(branchTarget(pc, w))
		}
	case 0x05: // BNE
		if c.reg(fieldRS(w)) != c.reg(fieldRT(w)) {
			c.scheduleBranch(branchTarget(pc, w))
		}
	case 0x06: // BLEZ
		if int32(c.reg(fieldRS(w))) <= 0 {
			c.scheduleBranch(branchTarget(pc, w))
		}
	case 0x07: // BGTZ
		if int32(c.reg(fieldRS(w))) > 0 {
			c.scheduleBranch(branchTarget(pc, w))
		}
	case 0x08: // ADDI
		v, ok := addOverflow(int32(c.reg(fieldRS(w))), simm16(w))
		if !ok {
			c.raise(ExcOv, pc, delaySlot, 0)
			return baseCost
		}
		c.setReg(fieldRT(w), uint32(v))
	case 0x09: // ADDIU
		c.setReg(fieldRT(w), c.reg(fieldRS(w))+uint32(simm16(w)))
	case 0x0A: // SLTI
		c.setReg(fieldRT(w), boolToWord(int32(c.reg(fieldRS(w))) < simm16(w)))
	case 0x0B: // SLTIU
		c.setReg(fieldRT(w), boolToWord(c.reg(fieldRS(w)) < uint32(simm16(w))))
	case 0x0C: // ANDI
		c.setReg(fieldRT(w), c.reg(fieldRS(w))&imm16(w))
	case 0x0D: // ORI
		c.setReg(fieldRT(w), c.reg(fieldRS(w))|imm16(w))
	case 0x0E: // XORI
		c.setReg(fieldRT(w), c.reg(fieldRS(w))^imm16(w))
	case 0x0F: // LUI
		c.setReg(fieldRT(w), imm16(w)<<16)
	case 0x10: // COP0
		c.execCop0(w)
	case 0x12: // COP2
		return baseCost + c.execCop2(w)
	case 0x20: // LB
		if v, ok := c.loadByte(c.reg(fieldRS(w))+uint32(simm16(w)), pc, delaySlot); ok {
			c.scheduleLoad(fieldRT(w), uint32(int32(int8(v))), false)
		}
	case 0x21: // LH
		addr := c.reg(fieldRS(w)) + uint32(simm16(w))
		if addr&1 != 0 {
			c.raiseAddrError(false, addr, pc, delaySlot)
			break
		}
		if v, ok := c.loadHalf(addr, pc, delaySlot); ok {
			c.scheduleLoad(fieldRT(w), uint32(int32(int16(v))), false)
		}
	case 0x22: // LWL
		c.execLWL(w, pc, delaySlot)
	case 0x23: // LW
		addr := c.reg(fieldRS(w)) + uint32(simm16(w))
		if addr&3 != 0 {
			c.raiseAddrError(false, addr, pc, delaySlot)
			break
		}
		if v, ok := c.loadWord(addr, pc, delaySlot); ok {
			c.scheduleLoad(fieldRT(w), v, false)
		}
	case 0x24: // LBU
		if v, ok := c.loadByte(c.reg(fieldRS(w))+uint32(simm16(w)), pc, delaySlot); ok {
			c.scheduleLoad(fieldRT(w), uint32(v), false)
		}
	case 0x25: // LHU
		addr := c.reg(fieldRS(w)) + uint32(simm16(w))
		if addr&1 != 0 {
			c.raiseAddrError(false, addr, pc, delaySlot)
			break
		}
		if v, ok := c.loadHalf(addr, pc, delaySlot); ok {
			c.scheduleLoad(fieldRT(w), uint32(v), false)
		}
	case 0x26: // LWR
		c.execLWR(w, pc, delaySlot)
	case 0x28: // SB
		c.storeByte(c.reg(fieldRS(w))+uint32(simm16(w)), byte(c.reg(fieldRT(w))), uint16(c.reg(fieldRT(w))), pc, delaySlot)
	case 0x29: // SH
		addr := c.reg(fieldRS(w)) + uint32(simm16(w))
		if addr&1 != 0 {
			c.raiseAddrError(true, addr, pc, delaySlot)
			break
		}
		c.storeHalf(addr, uint16(c.reg(fieldRT(w))), pc, delaySlot)
	case 0x2A: // SWL
		c.execSWL(w, pc, delaySlot)
	case 0x2B: // SW
		addr := c.reg(fieldRS(w)) + uint32(simm16(w))
		if addr&3 != 0 {
			c.raiseAddrError(true, addr, pc, delaySlot)
			break
		}
		c.storeWord(addr, c.reg(fieldRT(w)), pc, delaySlot)
	case 0x2E: // SWR
		c.execSWR(w, pc, delaySlot)
	case 0x32: // LWC2
		addr := c.reg(fieldRS(w)) + uint32(simm16(w))
		if addr&3 != 0 {
			c.raiseAddrError(false, addr, pc, delaySlot)
			break
		}
		if v, ok := c.loadWord(addr, pc, delaySlot); ok {
			c.cop2.WriteData(fieldRT(w), v)
		}
	case 0x3A: // SWC2
		addr := c.reg(fieldRS(w)) + uint32(simm16(w))
		if addr&3 != 0 {
			c.raiseAddrError(true, addr, pc, delaySlot)
			break
		}
		c.storeWord(addr, c.cop2.ReadData(fieldRT(w)), pc, delaySlot)
	default:
		c.raise(ExcRI, pc, delaySlot, 0)
	}

	return baseCost
}

func branchTarget(pc uint32, w uint32) uint32 {
	return pc + 4 + uint32(simm16(w)<<2)
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func addOverflow(a int32, b int32) (int32, bool) {
	sum := a + b
	if (a >= 0) == (b >= 0) && (sum >= 0) != (a >= 0) {
		return 0, false
	}
	return sum, true
}

func (c *CPU) execSpecial(w uint32, pc uint32, delaySlot bool) {
	rs, rt, rd, sh := fieldRS(w), fieldRT(w), fieldRD(w), shamt(w)

	switch funct(w) {
	case 0x00: // SLL
		c.setReg(rd, c.reg(rt)<<sh)
	case 0x02: // SRL
		c.setReg(rd, c.reg(rt)>>sh)
	case 0x03: // SRA
		c.setReg(rd, uint32(int32(c.reg(rt))>>sh))
	case 0x04: // SLLV
		c.setReg(rd, c.reg(rt)<<(c.reg(rs)&0x1F))
	case 0x06: // SRLV
		c.setReg(rd, c.reg(rt)>>(c.reg(rs)&0x1F))
	case 0x07: // SRAV
		c.setReg(rd, uint32(int32(c.reg(rt))>>(c.reg(rs)&0x1F)))
	case 0x08: // JR
		c.scheduleBranch(c.reg(rs))
	case 0x09: // JALR
		target := c.reg(rs)
		linkReg := rd
		if linkReg == 0 {
			linkReg = 31
		}
		c.setReg(linkReg, pc+8)
		c.scheduleBranch(target)
	case 0x0C: // SYSCALL
		c.raise(ExcSys, pc, delaySlot, 0)
	case 0x0D: // BREAK
		c.raise(ExcBp, pc, delaySlot, 0)
	case 0x10: // MFHI
		c.setReg(rd, c.HI)
	case 0x11: // MTHI
		c.HI = c.reg(rs)
	case 0x12: // MFLO
		c.setReg(rd, c.LO)
	case 0x13: // MTLO
		c.LO = c.reg(rs)
	case 0x18: // MULT
		p := int64(int32(c.reg(rs))) * int64(int32(c.reg(rt)))
		c.LO, c.HI = uint32(p), uint32(p>>32)
	case 0x19: // MULTU
		p := uint64(c.reg(rs)) * uint64(c.reg(rt))
		c.LO, c.HI = uint32(p), uint32(p>>32)
	case 0x1A: // DIV
		c.execDiv(int32(c.reg(rs)), int32(c.reg(rt)))
	case 0x1B: // DIVU
		c.execDivu(c.reg(rs), c.reg(rt))
	case 0x20: // ADD
		v, ok := addOverflow(int32(c.reg(rs)), int32(c.reg(rt)))
		if !ok {
			c.raise(ExcOv, pc, delaySlot, 0)
			return
		}
		c.setReg(rd, uint32(v))
	case 0x21: // ADDU
		c.setReg(rd, c.reg(rs)+c.reg(rt))
	case 0x22: // SUB
		v, ok := addOverflow(int32(c.reg(rs)), -int32(c.reg(rt)))
		if !ok {
			c.raise(ExcOv, pc, delaySlot, 0)
			return
		}
		c.setReg(rd, uint32(v))
	case 0x23: // SUBU
		c.setReg(rd, c.reg(rs)-c.reg(rt))
	case 0x24: // AND
		c.setReg(rd, c.reg(rs)&c.reg(rt))
	case 0x25: // OR
		c.setReg(rd, c.reg(rs)|c.reg(rt))
	case 0x26: // XOR
		c.setReg(rd, c.reg(rs)^c.reg(rt))
	case 0x27: // NOR
		c.setReg(rd, ^(c.reg(rs) | c.reg(rt)))
	case 0x2A: // SLT
		c.setReg(rd, boolToWord(int32(c.reg(rs)) < int32(c.reg(rt))))
	case 0x2B: // SLTU
		c.setReg(rd, boolToWord(c.reg(rs) < c.reg(rt)))
	default:
		c.raise(ExcRI, pc, delaySlot, 0)
	}
}

// execDiv implements the fully specified DIV edge cases: division by zero
// and the INT32_MIN / -1 overflow case both produce defined LO/HI instead
// of trapping, matching the R3000A's (undocumented-but-consistent) divide
// unit behaviour.
func (c *CPU) execDiv(x, y int32) {
	switch {
	case y == 0:
		if x < 0 {
			c.LO = 1
		} else {
			c.LO = 0xFFFFFFFF
		}
		c.HI = uint32(x)
	case x == -0x80000000 && y == -1:
		c.LO = 0x80000000
		c.HI = 0
	default:
		c.LO = uint32(x / y)
		c.HI = uint32(x % y)
	}
}

func (c *CPU) execDivu(x, y uint32) {
	if y == 0 {
		c.LO = 0xFFFFFFFF
		c.HI = x
		return
	}
	c.LO = x / y
	c.HI = x % y
}

func (c *CPU) execRegimm(w uint32, pc uint32) {
	rs := fieldRS(w)
	cond := int32(c.reg(rs))

	switch fieldRT(w) {
	case 0x00: // BLTZ
		if cond < 0 {
			c.scheduleBranch(branchTarget(pc, w))
		}
	case 0x01: // BGEZ
		if cond >= 0 {
			c.scheduleBranch(branchTarget(pc, w))
		}
	case 0x10: // BLTZAL
		c.setReg(31, pc+8)
		if cond < 0 {
			c.scheduleBranch(branchTarget(pc, w))
		}
	case 0x11: // BGEZAL
		c.setReg(31, pc+8)
		if cond >= 0 {
			c.scheduleBranch(branchTarget(pc, w))
		}
	}
}

func (c *CPU) execCop0(w uint32) {
	switch fieldRS(w) {
	case 0x00: // MFC0
		c.scheduleLoad(fieldRT(w), c.readCOP0(fieldRD(w)), false)
	case 0x04: // MTC0
		c.writeCOP0(fieldRD(w), c.reg(fieldRT(w)))
	case 0x10:
		if funct(w) == 0x10 { // RFE
			c.rfe()
		}
	}
}

// execCop2 dispatches MFC2/CFC2/MTC2/CTC2 and GTE commands, returning the
// extra cycle cost a command reports.
func (c *CPU) execCop2(w uint32) uint32 {
	if w&(1<<25) != 0 {
		return c.cop2.Execute(w & 0x1FFFFFF)
	}

	switch fieldRS(w) {
	case 0x00: // MFC2
		c.scheduleLoad(fieldRT(w), c.cop2.ReadData(fieldRD(w)), false)
	case 0x02: // CFC2
		c.scheduleLoad(fieldRT(w), c.cop2.ReadControl(fieldRD(w)), false)
	case 0x04: // MTC2
		c.cop2.WriteData(fieldRD(w), c.reg(fieldRT(w)))
	case 0x06: // CTC2
		c.cop2.WriteControl(fieldRD(w), c.reg(fieldRT(w)))
	}
	return 0
}
