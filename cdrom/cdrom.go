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

// Package cdrom defines the minimal boundary the DMA controller and
// interrupt aggregator need from the CD-ROM drive. The command table and
// disc image parsing are out of scope.
package cdrom

// Drive is the capability set a CD-ROM drive exposes. The DMA channel 3
// (CDROM) peer and the interrupt aggregator do not use it: that channel is
// wired to dma.NullPeer and nothing polls PendingIRQ.
type Drive interface {
	CatchUp(cc uint64)

	// PendingIRQ reports whether the drive currently wants to raise its
	// aggregated interrupt source.
	PendingIRQ() bool

	// ReadData pulls one 32-bit word from the drive's data FIFO for a DMA
	// burst transfer.
	ReadData() uint32
}

// Null is a Drive with no disc inserted and nothing ever pending.
type Null struct{}

// CatchUp implements Drive.
func (Null) CatchUp(cc uint64) {}

// PendingIRQ implements Drive.
func (Null) PendingIRQ() bool {
	return false
}

// ReadData implements Drive.
func (Null) ReadData() uint32 {
	return 0
}
