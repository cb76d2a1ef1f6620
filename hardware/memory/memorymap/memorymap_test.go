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

package memorymap_test

import (
	"testing"

	"github.com/adriapsx/psxcore/hardware/memory/memorymap"
	"github.com/adriapsx/psxcore/test"
)

// TestDecode_cacheControlIsUnmasked confirms the cache control register is
// matched against the raw virtual address: Mask would strip its top 3 bits
// (0xFFFE0130 -> 0x1FFE0130), landing past the BIOS window in unmapped
// space instead and never reaching RegionCacheControl.
func TestDecode_cacheControlIsUnmasked(t *testing.T) {
	region, offset := memorymap.Decode(memorymap.CacheControl)
	test.Equate(t, region, memorymap.RegionCacheControl)
	test.Equate(t, offset, uint32(0))

	region, _ = memorymap.Decode(memorymap.Mask(memorymap.CacheControl))
	test.ExpectFailure(t, region == memorymap.RegionCacheControl)
}

// TestDecode_kusegKseg0Kseg1Mirror confirms the same physical RAM word is
// reachable through all three segment windows.
func TestDecode_kusegKseg0Kseg1Mirror(t *testing.T) {
	for _, base := range []uint32{0x00000000, 0x80000000, 0xA0000000} {
		region, offset := memorymap.Decode(base + 0x1000)
		test.Equate(t, region, memorymap.RegionRAM)
		test.Equate(t, offset, uint32(0x1000))
	}
}
