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

// Package dma implements the seven-channel PSX DMA controller: MADR/BCR/
// CHCR per channel, DPCR/DICR, and the three sync modes (burst, blocks,
// linked-list).
package dma

import (
	"github.com/adriapsx/psxcore/errors"
	"github.com/adriapsx/psxcore/hardware/interrupts"
	"github.com/adriapsx/psxcore/logger"
)

// Channel index constants, in register/priority order.
const (
	MDECIn = iota
	MDECOut
	GPU
	CDROM
	SPU
	PIO
	OTC
	channelCount
)

// SyncMode selects the transfer shape a channel uses.
type SyncMode uint8

// The three sync modes.
const (
	SyncBurst SyncMode = iota
	SyncBlocks
	SyncLinkedList
)

// Peer is the per-channel device side of a DMA transfer. RAM is accessed
// directly by the controller; Peer stands in for the GPU FIFO, the CD-ROM
// data FIFO, the SPU sample sink, or PIO.
type Peer interface {
	ReadWord() uint32
	WriteWord(uint32)
}

// NullPeer discards writes and reads as all-ones, standing in for a
// channel whose real device is out of scope (CD-ROM, SPU, PIO).
type NullPeer struct{}

// ReadWord implements Peer.
func (NullPeer) ReadWord() uint32 { return 0xFFFFFFFF }

// WriteWord implements Peer.
func (NullPeer) WriteWord(uint32) {}

// Bus is the subset of bus.CPUBus the DMA controller needs to move words
// to and from RAM.
type Bus interface {
	Read32(addr uint32) (uint32, bool)
	Write32(addr uint32, data uint32) bool
}

type channel struct {
	id   int
	madr uint32
	bcr  uint32
	chcr uint32
	peer Peer
}

func (c *channel) toDevice() bool  { return c.chcr&1 != 0 }
func (c *channel) stepBack() bool  { return c.chcr&(1<<1) != 0 }
func (c *channel) chopping() bool  { return c.chcr&(1<<8) != 0 }
func (c *channel) syncMode() SyncMode { return SyncMode((c.chcr >> 9) & 0x3) }
func (c *channel) busy() bool      { return c.chcr&(1<<24) != 0 }
func (c *channel) trigger() bool   { return c.chcr&(1<<28) != 0 }

func (c *channel) setBusy(v bool) {
	if v {
		c.chcr |= 1 << 24
	} else {
		c.chcr &^= 1 << 24
	}
}

// Controller owns all seven channels plus DPCR/DICR.
type Controller struct {
	ch   [channelCount]channel
	dpcr uint32
	dicr uint32
	bus  Bus
	ic   *interrupts.Controller

	// Trace, when set, logs one line per triggered transfer via logger.Logf
	// under the "dma" tag (instance.Config.TraceDMA wires this).
	Trace bool
}

// NewController constructs a Controller whose channels transfer against
// bus (for the RAM side) and the supplied peers (device side, in MDECIn,
// MDECOut, GPU, CDROM, SPU, PIO order; OTC needs no peer and nil is
// accepted there).
func NewController(bus Bus, ic *interrupts.Controller, peers [6]Peer) *Controller {
	c := &Controller{bus: bus, ic: ic}
	for i := 0; i < 6; i++ {
		c.ch[i] = channel{id: i, peer: peers[i]}
	}
	c.ch[OTC] = channel{id: OTC}
	return c
}

// ChannelSnapshot is a point-in-time, exported copy of one channel's
// registers, for the debugger's state-snapshot visualizer (memviz needs
// exported fields to walk).
type ChannelSnapshot struct {
	ID   int
	MADR uint32
	BCR  uint32
	CHCR uint32
	Busy bool
	Sync SyncMode
}

// Snapshot returns every channel's current register state plus DPCR/DICR,
// for rendering a DOT graph of a stuck or in-flight transfer.
func (c *Controller) Snapshot() ([channelCount]ChannelSnapshot, uint32, uint32) {
	var out [channelCount]ChannelSnapshot
	for i := range c.ch {
		out[i] = ChannelSnapshot{
			ID:   c.ch[i].id,
			MADR: c.ch[i].madr,
			BCR:  c.ch[i].bcr,
			CHCR: c.ch[i].chcr,
			Busy: c.ch[i].busy(),
			Sync: c.ch[i].syncMode(),
		}
	}
	return out, c.dpcr, c.dicr
}

func (c *Controller) enabled(ch int) bool {
	return c.dpcr&(1<<uint(ch*4+3)) != 0
}

// run executes channel ch's transfer to completion. Bus arbitration is
// approximated here as an atomic step rather than a cycle-by-cycle
// interleave; see DESIGN.md.
func (c *Controller) run(ch int) {
	chn := &c.ch[ch]
	if !c.enabled(ch) {
		chn.setBusy(false)
		return
	}

	if c.Trace {
		logger.Logf("dma", "channel %d triggered: madr=%#08x bcr=%#08x chcr=%#08x", ch, chn.madr, chn.bcr, chn.chcr)
	}

	switch chn.syncMode() {
	case SyncBurst:
		c.runBurst(chn)
	case SyncBlocks:
		c.runBlocks(chn)
	case SyncLinkedList:
		c.runLinkedList(chn)
	default:
		logger.Logf("dma", errors.DMAInvalidSyncMode, chn.syncMode(), ch)
	}

	chn.setBusy(false)
	chn.chcr &^= 1 << 28

	c.raiseIRQ(ch)
}

func (c *Controller) addrStep(chn *channel) uint32 {
	if chn.stepBack() {
		return ^uint32(3) // -4
	}
	return 4
}

func (c *Controller) transferWord(chn *channel, addr uint32) {
	addr &= 0x1FFFFC
	if chn.toDevice() {
		v, _ := c.bus.Read32(addr)
		if chn.peer != nil {
			chn.peer.WriteWord(v)
		}
	} else {
		var v uint32
		if chn.peer != nil {
			v = chn.peer.ReadWord()
		}
		c.bus.Write32(addr, v)
	}
}

func (c *Controller) runBurst(chn *channel) {
	words := chn.bcr & 0xFFFF
	if words == 0 {
		words = 0x10000
	}
	addr := chn.madr
	step := c.addrStep(chn)
	for i := uint32(0); i < words; i++ {
		c.transferWord(chn, addr)
		addr += step
	}
	chn.madr = addr
}

func (c *Controller) runBlocks(chn *channel) {
	blockSize := chn.bcr & 0xFFFF
	blockCount := (chn.bcr >> 16) & 0xFFFF
	addr := chn.madr
	step := c.addrStep(chn)

	for b := uint32(0); b < blockCount; b++ {
		for w := uint32(0); w < blockSize; w++ {
			c.transferWord(chn, addr)
			addr += step
		}
	}
	chn.madr = addr
}

func (c *Controller) runLinkedList(chn *channel) {
	addr := chn.madr
	for {
		header, _ := c.bus.Read32(addr & 0x1FFFFC)
		count := header >> 24
		for i := uint32(0); i < count; i++ {
			wordAddr := (addr + 4 + i*4) & 0x1FFFFC
			v, _ := c.bus.Read32(wordAddr)
			if chn.peer != nil {
				chn.peer.WriteWord(v)
			}
		}
		next := header & 0xFFFFFF
		if next == 0xFFFFFF {
			chn.madr = 0xFFFFFF
			break
		}
		addr = next
	}
}

func (c *Controller) raiseIRQ(ch int) {
	enableBit := uint32(1) << uint(16+ch)
	if c.dicr&enableBit != 0 {
		c.dicr |= 1 << uint(24+ch)
	}
	c.recomputeMasterFlag()
}

// recomputeMasterFlag derives DICR bit 31 from the force-IRQ bit, the
// master-enable bit and the per-channel enable/flag pairs, and pulses the
// aggregated interrupts.DMA source on a 0->1 transition.
func (c *Controller) recomputeMasterFlag() {
	was := c.dicr&(1<<31) != 0

	masterFlag := c.dicr&(1<<15) != 0
	if c.dicr&(1<<23) != 0 {
		for i := 0; i < channelCount; i++ {
			if c.dicr&(1<<uint(16+i)) != 0 && c.dicr&(1<<uint(24+i)) != 0 {
				masterFlag = true
			}
		}
	}

	if masterFlag {
		c.dicr |= 1 << 31
	} else {
		c.dicr &^= 1 << 31
	}

	if masterFlag && !was && c.ic != nil {
		c.ic.Interruption(interrupts.DMA, true)
		c.ic.Interruption(interrupts.DMA, false)
	}
}

// CatchUp implements bus.MMIODevice; the controller runs transfers to
// completion synchronously on the triggering CHCR write, so it has no
// independent lazy clock domain to catch up.
func (c *Controller) CatchUp(cc uint64) {}
