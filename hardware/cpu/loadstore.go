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

// isLE is passed to every bus access. The PSX only ever runs little-endian
// in practice; COP0.SR.RE (the reverse-endian bit user mode can set) is
// recorded faithfully in SR but has no behavioural effect here.
const isLE = true

func (c *CPU) loadWord(addr uint32, pc uint32, delaySlot bool) (uint32, bool) {
	v, ok := c.bus.Read32(addr)
	if !ok {
		c.raise(ExcDBE, pc, delaySlot, 0)
		return 0, false
	}
	return v, true
}

func (c *CPU) loadHalf(addr uint32, pc uint32, delaySlot bool) (uint16, bool) {
	v, ok := c.bus.Read16(addr, isLE)
	if !ok {
		c.raise(ExcDBE, pc, delaySlot, 0)
		return 0, false
	}
	return v, true
}

func (c *CPU) loadByte(addr uint32, pc uint32, delaySlot bool) (uint8, bool) {
	v, ok := c.bus.Read8(addr, isLE)
	if !ok {
		c.raise(ExcDBE, pc, delaySlot, 0)
		return 0, false
	}
	return v, true
}

func (c *CPU) storeWord(addr uint32, v uint32, pc uint32, delaySlot bool) {
	if !c.bus.Write32(addr, v) {
		c.raise(ExcDBE, pc, delaySlot, 0)
	}
}

func (c *CPU) storeHalf(addr uint32, v uint16, pc uint32, delaySlot bool) {
	if !c.bus.Write16(addr, v, isLE) {
		c.raise(ExcDBE, pc, delaySlot, 0)
	}
}

func (c *CPU) storeByte(addr uint32, v byte, halfVal uint16, pc uint32, delaySlot bool) {
	if !c.bus.Write8(addr, v, halfVal, isLE) {
		c.raise(ExcDBE, pc, delaySlot, 0)
	}
}

// lwlMask/lwrMask select the bytes of rt that LWL/LWR keep, and
// lwlShift/lwrShift position the aligned word's contribution, indexed by
// addr&3.
var lwlShift = [4]uint{24, 16, 8, 0}
var lwlMask = [4]uint32{0x00FFFFFF, 0x0000FFFF, 0x000000FF, 0x00000000}
var lwrShift = [4]uint{0, 8, 16, 24}
var lwrMask = [4]uint32{0x00000000, 0xFF000000, 0xFFFF0000, 0xFFFFFF00}

var swlShift = [4]uint{24, 16, 8, 0}
var swlMask = [4]uint32{0xFFFFFF00, 0xFFFF0000, 0xFF000000, 0x00000000}
var swrShift = [4]uint{0, 8, 16, 24}
var swrMask = [4]uint32{0x00000000, 0x000000FF, 0x0000FFFF, 0x00FFFFFF}

// execLWL fills rt's most-significant bytes from the aligned word containing
// addr (the word shifted left by lwlShift), keeping rt's low-order bytes.
// "rt's current value" means an LWL/LWR result still pending for rt if there
// is one, otherwise the committed value; an ordinary pending load is not
// used.
func (c *CPU) execLWL(w uint32, pc uint32, delaySlot bool) {
	addr := c.reg(fieldRS(w)) + uint32(simm16(w))
	word, ok := c.loadWord(addr&^3, pc, delaySlot)
	if !ok {
		return
	}
	i := addr & 3
	merged := (c.mergeBase(fieldRT(w)) & lwlMask[i]) | (word << lwlShift[i])
	c.scheduleLoad(fieldRT(w), merged, true)
}

// execLWR is LWL's mirror image: it contributes the least-significant
// bytes and keeps rt's high-order bytes.
func (c *CPU) execLWR(w uint32, pc uint32, delaySlot bool) {
	addr := c.reg(fieldRS(w)) + uint32(simm16(w))
	word, ok := c.loadWord(addr&^3, pc, delaySlot)
	if !ok {
		return
	}
	i := addr & 3
	merged := (c.mergeBase(fieldRT(w)) & lwrMask[i]) | (word >> lwrShift[i])
	c.scheduleLoad(fieldRT(w), merged, true)
}

// mergeBase returns the value LWL/LWR should merge against: a same-register
// load still in flight (delay.Slot's Unaligned-marked pending value) takes
// priority over the committed register, distinct from a plain in-flight
// load.
func (c *CPU) mergeBase(reg uint32) uint32 {
	if v, ok := c.pendingLoad(reg); ok {
		return v
	}
	return c.reg(reg)
}

func (c *CPU) execSWL(w uint32, pc uint32, delaySlot bool) {
	addr := c.reg(fieldRS(w)) + uint32(simm16(w))
	aligned := addr &^ 3
	cur, ok := c.loadWord(aligned, pc, delaySlot)
	if !ok {
		return
	}
	i := addr & 3
	v := c.reg(fieldRT(w))
	merged := (cur & swlMask[i]) | (v >> swlShift[i])
	c.storeWord(aligned, merged, pc, delaySlot)
}

func (c *CPU) execSWR(w uint32, pc uint32, delaySlot bool) {
	addr := c.reg(fieldRS(w)) + uint32(simm16(w))
	aligned := addr &^ 3
	cur, ok := c.loadWord(aligned, pc, delaySlot)
	if !ok {
		return
	}
	i := addr & 3
	v := c.reg(fieldRT(w))
	merged := (cur & swrMask[i]) | (v << swrShift[i])
	c.storeWord(aligned, merged, pc, delaySlot)
}
