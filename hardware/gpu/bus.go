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

package gpu

// Read32 implements bus.MMIODevice. Offset 0 is GPUREAD, offset 4 is
// GPUSTAT.
func (g *GPU) Read32(offset uint32) (uint32, bool) {
	switch offset {
	case 0:
		return g.GPURead(), true
	case 4:
		return g.Stat(), true
	}
	return 0, false
}

// Write32 implements bus.MMIODevice. Offset 0 is GP0, offset 4 is GP1.
func (g *GPU) Write32(offset uint32, data uint32) bool {
	switch offset {
	case 0:
		g.GP0(data)
		return true
	case 4:
		g.GP1(data)
		return true
	}
	return false
}

// ReadWord and WriteWord satisfy dma.Peer, letting the GPU stand in as the
// channel-2 device side of a DMA transfer: writes feed GP0 directly and
// reads pull from GPUREAD, exactly as channel 2's FIFO does on real
// hardware.
func (g *GPU) ReadWord() uint32 { return g.GPURead() }

// WriteWord implements dma.Peer.
func (g *GPU) WriteWord(word uint32) { g.GP0(word) }

// Read16 narrows Read32.
func (g *GPU) Read16(offset uint32) (uint16, bool) {
	v, ok := g.Read32(offset &^ 3)
	shift := (offset & 2) * 8
	return uint16(v >> shift), ok
}

// Write16 is not a documented access pattern for GP0/GP1 (both are
// naturally 32-bit), but is implemented for interface completeness by
// widening into the low half of a synthetic 32-bit write.
func (g *GPU) Write16(offset uint32, data uint16) bool {
	return g.Write32(offset&^3, uint32(data))
}

// Read8 narrows Read32 to a byte lane.
func (g *GPU) Read8(offset uint32) (uint8, bool) {
	v, ok := g.Read32(offset &^ 3)
	shift := (offset & 3) * 8
	return uint8(v >> shift), ok
}

// Write8 is not a documented access pattern for GP0/GP1; implemented for
// interface completeness only.
func (g *GPU) Write8(offset uint32, data uint8, halfVal uint16) bool {
	return g.Write32(offset&^3, uint32(halfVal))
}
