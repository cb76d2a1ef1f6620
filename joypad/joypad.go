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

// Package joypad defines the controller/memory-card serial boundary. The
// serial protocol itself is out of scope. No JOY_DATA/JOY_CTRL MMIO handler
// is registered, so nothing in the core calls a Port.
package joypad

import "github.com/adriapsx/psxcore/errors"

// CardSize is the fixed image size of one memory card slot.
const CardSize = 128 * 1024

// Port is one of the two serial ports (pad or memory card) hanging off the
// controller port MMIO registers.
type Port interface {
	// Transfer clocks one byte out to the device and returns its reply
	// plus whether it pulsed ACK (not wired to the interrupt controller's
	// Pad source).
	Transfer(out uint8) (reply uint8, ack bool)

	// Connected reports whether a device is physically present.
	Connected() bool
}

// Disconnected is a Port with nothing plugged in: every transfer returns
// 0xFF and no ACK, matching an open bus.
type Disconnected struct{}

// Transfer implements Port.
func (Disconnected) Transfer(out uint8) (uint8, bool) {
	return 0xFF, false
}

// Connected implements Port.
func (Disconnected) Connected() bool {
	return false
}

// MemoryCard backs one memory card slot with a CardSize-byte image. The
// save/load serial protocol itself is out of scope; Transfer only reports
// presence, matching Disconnected's "no ack" reply so a CPU
// polling for the protocol sees an idle, unresponsive card rather than a
// crash, while Image and NewMemoryCard give a frontend a place to persist
// and restore the slot.
type MemoryCard struct {
	image [CardSize]byte
}

// NewMemoryCard validates img is exactly CardSize bytes and returns a
// MemoryCard backed by a copy of it.
func NewMemoryCard(img []byte) (*MemoryCard, error) {
	if len(img) != CardSize {
		return nil, errors.Errorf(errors.MemoryCardSize, CardSize, len(img))
	}
	mc := &MemoryCard{}
	copy(mc.image[:], img)
	return mc, nil
}

// Transfer implements Port.
func (mc *MemoryCard) Transfer(out uint8) (uint8, bool) {
	return 0xFF, false
}

// Connected implements Port.
func (mc *MemoryCard) Connected() bool {
	return true
}

// Image returns the card's current contents, for a frontend to persist.
func (mc *MemoryCard) Image() []byte {
	return mc.image[:]
}
