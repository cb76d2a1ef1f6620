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

// Package spu defines the minimal boundary the DMA controller and
// interrupt aggregator need from the sound processing unit. Voice/reverb
// synthesis is out of scope.
package spu

// Device is the capability set a sound processing unit exposes. The DMA
// channel 4 (SPU) peer and the interrupt aggregator do not use it: that
// channel is wired to dma.NullPeer. Its MMIO register window is natively
// 16-bit wide, which is why the bus's byte-access operations carry a
// halfVal alongside the byte.
type Device interface {
	CatchUp(cc uint64)

	PendingIRQ() bool

	// WriteSample accepts one 16-bit-wide DMA transfer word's worth of
	// sample data bound for sound RAM.
	WriteSample(v uint16)
}

// Null is a Device that discards every sample and never raises its
// interrupt source.
type Null struct{}

// CatchUp implements Device.
func (Null) CatchUp(cc uint64) {}

// PendingIRQ implements Device.
func (Null) PendingIRQ() bool {
	return false
}

// WriteSample implements Device.
func (Null) WriteSample(v uint16) {}
