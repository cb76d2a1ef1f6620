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

package memory_test

import (
	"testing"

	"github.com/adriapsx/psxcore/hardware/interrupts"
	"github.com/adriapsx/psxcore/hardware/memory"
	"github.com/adriapsx/psxcore/hardware/memory/memorymap"
	"github.com/adriapsx/psxcore/logger"
	"github.com/adriapsx/psxcore/test"
)

// TestBus_ramRoundTrip checks plain RAM read/write through every masked
// mirror of kuseg/kseg0/kseg1.
func TestBus_ramRoundTrip(t *testing.T) {
	b := memory.NewBus()

	test.ExpectSuccess(t, b.Write32(0x00001000, 0xDEADBEEF))

	for _, base := range []uint32{0x00000000, 0x80000000, 0xA0000000} {
		v, ok := b.Read32(base + 0x1000)
		test.ExpectSuccess(t, ok)
		test.Equate(t, v, uint32(0xDEADBEEF))
	}
}

// TestBus_unalignedAccess reports failure rather than silently truncating.
func TestBus_unalignedAccess(t *testing.T) {
	b := memory.NewBus()
	_, ok := b.Read32(0x00000001)
	test.ExpectFailure(t, ok)
}

// TestBus_mmioDispatch checks that a registered MMIODevice receives reads
// and writes at its own offset within the window, not the bus-relative one.
func TestBus_mmioDispatch(t *testing.T) {
	b := memory.NewBus()
	ic := interrupts.NewController()
	b.Register(0, 8, ic)

	test.ExpectSuccess(t, b.Write32(memorymap.MMIOBase+4, 0x0001))
	ic.Interruption(interrupts.VBlank, true)

	v, ok := b.Read32(memorymap.MMIOBase + 0)
	test.ExpectSuccess(t, ok)
	test.Equate(t, v, uint32(1))
}

// TestBus_biosUnloadedReadsAllOnes guards against a zeroed BIOS window
// being mistaken for valid boot code before LoadBIOS runs.
func TestBus_biosUnloadedReadsAllOnes(t *testing.T) {
	b := memory.NewBus()
	v, ok := b.Read32(memorymap.BIOSBase)
	test.ExpectSuccess(t, ok)
	test.Equate(t, v, uint32(0xFFFFFFFF))
}

// TestBus_loadBIOSRejectsWrongSize guards the host-fatal BIOS-size error.
func TestBus_loadBIOSRejectsWrongSize(t *testing.T) {
	b := memory.NewBus()
	err := b.LoadBIOS(make([]byte, 100))
	test.ExpectFailure(t, err == nil)
}

// TestBus_cacheIsolationSwallowsWrites matches the BIOS's early-boot icache
// flush sequence, which writes to RAM with cache isolation enabled and
// expects those writes to be discarded.
func TestBus_cacheIsolationSwallowsWrites(t *testing.T) {
	b := memory.NewBus()
	b.Write32(0x1000, 0x11111111)
	b.SetCacheIsolated(true)
	b.Write32(0x1000, 0x22222222)

	v, _ := b.Read32(0x1000)
	test.Equate(t, v, uint32(0x11111111))
}

// TestBus_cacheControlGatesScratchpad confirms a write to the cache control
// register at its fixed, unmasked address actually reaches
// SetScratchpadEnabled: both CC_SCRATCHPAD_ENABLE bits (3 and 7) must be set
// together for scratchpad access to be considered enabled, same as clearing
// either one disables it.
func TestBus_cacheControlGatesScratchpad(t *testing.T) {
	b := memory.NewBus()
	tw := &test.Writer{}
	logger.Clear()

	test.ExpectSuccess(t, b.Write32(memorymap.CacheControl, 1<<3|1<<7))
	b.Read32(memorymap.ScratchpadBase)
	logger.Write(tw)
	test.Equate(t, tw.Compare(""), true)

	tw.Clear()
	logger.Clear()
	test.ExpectSuccess(t, b.Write32(memorymap.CacheControl, 1<<3))
	b.Read32(memorymap.ScratchpadBase)
	logger.Write(tw)
	test.Equate(t, tw.Compare(""), false)
}
