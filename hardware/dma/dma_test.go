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

package dma_test

import (
	"testing"

	"github.com/adriapsx/psxcore/hardware/dma"
	"github.com/adriapsx/psxcore/hardware/gpu"
	"github.com/adriapsx/psxcore/hardware/interrupts"
	"github.com/adriapsx/psxcore/hardware/timer"
	"github.com/adriapsx/psxcore/renderer"
	"github.com/adriapsx/psxcore/test"
)

// ram is a flat word-addressable backing store standing in for bus.CPUBus's
// RAM window.
type ram [1024]uint32

func (r *ram) Read32(addr uint32) (uint32, bool) {
	return r[(addr&0x1FFFFC)/4], true
}

func (r *ram) Write32(addr uint32, data uint32) bool {
	r[(addr&0x1FFFFC)/4] = data
	return true
}

const (
	chMADR = 0x00
	chBCR  = 0x04
	chCHCR = 0x08
	regDPCR = 0x70
	regDICR = 0x74
)

func chOffset(ch int, reg uint32) uint32 { return uint32(ch)*0x10 + reg }

// TestDMA_blockModeWordCount checks that a mode-1 transfer moves exactly
// block_count*block_size words and leaves MADR past the last word moved.
func TestDMA_blockModeWordCount(t *testing.T) {
	var mem ram
	ic := interrupts.NewController()
	var peers [6]dma.Peer
	peers[dma.GPU] = dma.NullPeer{}
	c := dma.NewController(&mem, ic, peers)

	c.Write32(regDPCR, 1<<(dma.GPU*4+3)) // enable channel GPU

	c.Write32(chOffset(dma.GPU, chMADR), 0)
	c.Write32(chOffset(dma.GPU, chBCR), (1<<16)|4) // block_count=1, block_size=4
	c.Write32(chOffset(dma.GPU, chCHCR), (1<<0)|(1<<9)|(1<<24)|(1<<28))

	madr, _ := c.Read32(chOffset(dma.GPU, chMADR))
	test.Equate(t, madr, uint32(16))

	chcr, _ := c.Read32(chOffset(dma.GPU, chCHCR))
	test.ExpectSuccess(t, chcr&(1<<24) == 0)
}

// TestDMA_gpuUpload checks that a mode-1 RAM->GPU transfer primed with a
// CPU-to-VRAM GP0 command streams the source words straight into VRAM in
// raster order.
func TestDMA_gpuUpload(t *testing.T) {
	var mem ram
	r := renderer.NewNull()
	ic := interrupts.NewController()
	ts := timer.NewTimers(ic)
	g := gpu.NewGPU(r, ic, ts)

	g.GP0(0xA0000000)
	g.GP0((4 << 10) | 4) // dest (4,4)
	g.GP0((2 << 10) | 2) // 2x2 pixels

	// source bytes 0x01..0x08 at address 0, little-endian words.
	mem[0] = 0x04030201
	mem[1] = 0x08070605

	var peers [6]dma.Peer
	peers[dma.GPU] = g
	c := dma.NewController(&mem, ic, peers)

	c.Write32(regDPCR, 1<<(dma.GPU*4+3))
	c.Write32(chOffset(dma.GPU, chMADR), 0)
	c.Write32(chOffset(dma.GPU, chBCR), (1<<16)|2) // block_count=1, block_size=2
	c.Write32(chOffset(dma.GPU, chCHCR), (1<<0)|(1<<9)|(1<<24)|(1<<28))

	test.Equate(t, r.Pixel(4, 4), uint16(0x0201))
	test.Equate(t, r.Pixel(5, 4), uint16(0x0403))
	test.Equate(t, r.Pixel(4, 5), uint16(0x0605))
	test.Equate(t, r.Pixel(5, 5), uint16(0x0807))
}

// TestDMA_dicrAcknowledge checks the AND-with-acknowledge write semantics
// and the aggregated master flag in DICR bit 31.
func TestDMA_dicrAcknowledge(t *testing.T) {
	var mem ram
	ic := interrupts.NewController()
	var peers [6]dma.Peer
	peers[dma.GPU] = dma.NullPeer{}
	c := dma.NewController(&mem, ic, peers)

	c.Write32(regDPCR, 1<<(dma.GPU*4+3))
	c.Write32(regDICR, (1<<23)|(1<<(16+dma.GPU)))

	c.Write32(chOffset(dma.GPU, chBCR), 1)
	c.Write32(chOffset(dma.GPU, chCHCR), (1<<0)|(1<<24)|(1<<28))

	dicr, _ := c.Read32(regDICR)
	test.ExpectSuccess(t, dicr&(1<<(24+dma.GPU)) != 0)
	test.ExpectSuccess(t, dicr&(1<<31) != 0)

	c.Write32(regDICR, 1<<(24+dma.GPU))
	dicr, _ = c.Read32(regDICR)
	test.Equate(t, dicr&(1<<(24+dma.GPU)), uint32(0))
	test.Equate(t, dicr&(1<<31), uint32(0))
}
