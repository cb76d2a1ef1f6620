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

package interrupts_test

import (
	"testing"

	"github.com/adriapsx/psxcore/hardware/interrupts"
	"github.com/adriapsx/psxcore/test"
)

func TestController_risingEdgeSetsStat(t *testing.T) {
	c := interrupts.NewController()
	c.Interruption(interrupts.VBlank, true)
	test.Equate(t, c.Stat(), uint16(1))

	// level held high again: no further edge, bit already set, no change.
	c.Interruption(interrupts.VBlank, true)
	test.Equate(t, c.Stat(), uint16(1))
}

func TestController_ackIsAndNotClear(t *testing.T) {
	c := interrupts.NewController()
	c.Interruption(interrupts.VBlank, true)
	c.Interruption(interrupts.GPU, true)
	test.Equate(t, c.Stat(), uint16(0b11))

	// acknowledge only VBlank by writing a mask with that bit clear.
	c.Ack(0b10)
	test.Equate(t, c.Stat(), uint16(0b10))
}

func TestController_irqActiveRequiresMask(t *testing.T) {
	c := interrupts.NewController()
	c.Interruption(interrupts.Timer1, true)
	test.Equate(t, c.IRQActive(), false)

	c.WriteMask(1 << uint(interrupts.Timer1))
	test.Equate(t, c.IRQActive(), true)
}

func TestController_busRoundTrip(t *testing.T) {
	c := interrupts.NewController()
	c.Write32(4, 0x7FF)
	v, ok := c.Read32(4)
	test.ExpectSuccess(t, ok)
	test.Equate(t, v, uint32(0x7FF))

	c.Interruption(interrupts.SPU, true)
	v, ok = c.Read32(0)
	test.ExpectSuccess(t, ok)
	test.Equate(t, v, uint32(1<<uint(interrupts.SPU)))

	c.Write32(0, 0)
	v, _ = c.Read32(0)
	test.Equate(t, v, uint32(0))
}
