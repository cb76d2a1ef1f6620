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

package system_test

import (
	"testing"

	"github.com/adriapsx/psxcore/hardware/instance"
	"github.com/adriapsx/psxcore/hardware/memory/memorymap"
	"github.com/adriapsx/psxcore/system"
	"github.com/adriapsx/psxcore/test"
)

// TestSystem_loadBIOSResetsToEntryPoint confirms LoadBIOS both installs the
// image and leaves the CPU ready to fetch at the reset vector.
func TestSystem_loadBIOSResetsToEntryPoint(t *testing.T) {
	sys := system.New(instance.NewConfig(), nil, nil)

	img := make([]byte, memorymap.BIOSSize)
	// NOP at the reset vector, so a first Trace() doesn't immediately fault.
	img[0], img[1], img[2], img[3] = 0, 0, 0, 0

	test.ExpectedSuccess(t, sys.LoadBIOS(img))
	test.Equate(t, sys.CPU.PC, uint32(0xBFC00000))
}

// TestSystem_loadBIOSRejectsWrongSize confirms a short image is rejected
// before any state is touched.
func TestSystem_loadBIOSRejectsWrongSize(t *testing.T) {
	sys := system.New(instance.NewConfig(), nil, nil)
	test.ExpectFailure(t, sys.LoadBIOS(make([]byte, 128)))
}

// TestSystem_mmioDevicesAreReachableThroughTheBus confirms each registered
// device answers reads at its documented sub-window without panicking,
// exercising the whole registration chain wired in system.New.
func TestSystem_mmioDevicesAreReachableThroughTheBus(t *testing.T) {
	sys := system.New(instance.NewConfig(), nil, nil)

	addrs := []uint32{
		0x1F801070, // I_STAT
		0x1F801080, // DMA channel 0 MADR
		0x1F8010F0, // DPCR
		0x1F801100, // timer 0 counter
		0x1F801810, // GP0/GPUREAD
		0x1F801814, // GP1/GPUSTAT
	}
	for _, addr := range addrs {
		if _, ok := sys.Bus.Read32(addr); !ok {
			t.Errorf("expected MMIO read at %#08x to succeed", addr)
		}
	}
}
