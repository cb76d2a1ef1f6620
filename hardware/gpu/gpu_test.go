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

package gpu_test

import (
	"testing"

	"github.com/adriapsx/psxcore/hardware/gpu"
	"github.com/adriapsx/psxcore/hardware/interrupts"
	"github.com/adriapsx/psxcore/hardware/timer"
	"github.com/adriapsx/psxcore/renderer"
	"github.com/adriapsx/psxcore/test"
)

func newGPU() (*gpu.GPU, *renderer.Null) {
	r := renderer.NewNull()
	ic := interrupts.NewController()
	ts := timer.NewTimers(ic)
	return gpu.NewGPU(r, ic, ts), r
}

// TestGPU_drawAreaReadback exercises GP1 display enable, then
// GP0(E3)/GP0(E4) setting the drawing area, then GP0(0x10) info requests
// echoing the commands' parameter bits back through GPUREAD.
func TestGPU_drawAreaReadback(t *testing.T) {
	g, _ := newGPU()

	g.GP1(0x03000000) // display enable

	g.GP0(0xE3280014) // top-left, parameter 0x280014 in the command word

	g.GP0(0xE43C0028) // bottom-right, parameter 0x3C0028 in the command word

	g.GP0(0x10000003)
	test.Equate(t, g.GPURead(), uint32(0x00280014))

	g.GP0(0x10000004)
	test.Equate(t, g.GPURead(), uint32(0x003C0028))
}

// TestGPU_fillRectangle checks that a fill command with a fully-white
// 24-bit colour truncates to 0x7FFF in every covered pixel.
func TestGPU_fillRectangle(t *testing.T) {
	g, r := newGPU()

	g.GP0(0x02FFFFFF) // fill, colour 0xFFFFFF
	g.GP0((100 << 10) | 100)
	g.GP0((16 << 10) | 16)

	for y := int32(100); y < 116; y++ {
		for x := int32(100); x < 116; x++ {
			test.Equate(t, r.Pixel(x, y), uint16(0x7FFF))
		}
	}
}

// TestGPU_cpuToVRAMTransfer exercises the 0xA0 streaming path used by DMA
// mode-1 GPU uploads (the producer side of TestDMA_gpuUpload).
func TestGPU_cpuToVRAMTransfer(t *testing.T) {
	g, r := newGPU()

	g.GP0(0xA0000000)
	g.GP0((4 << 10) | 4) // dest (4,4)
	g.GP0((4 << 10) | 4) // 4x4 pixels

	words := []uint32{0x0201fffe, 0x04030009, 0x06050007, 0x08070006}
	for _, w := range words {
		g.GP0(w)
	}

	test.Equate(t, r.Pixel(4, 4), uint16(0xfffe))
	test.Equate(t, r.Pixel(5, 4), uint16(0x0201))
}

func TestGPU_resetClearsState(t *testing.T) {
	g, _ := newGPU()
	g.GP0(0xE6000003) // mask bit on
	test.ExpectSuccess(t, g.Stat()&(1<<11) != 0)

	g.GP1(0x00000000)
	test.Equate(t, g.Stat()&(1<<11), uint32(0))
}
