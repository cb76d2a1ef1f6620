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

// Package memory implements the PSX physical bus: 2MiB of RAM, 512KiB of
// BIOS ROM, 1KiB of scratchpad, and an MMIO dispatch table routing the
// 0x1F801000-0x1F802000 register window to whichever component owns each
// offset.
package memory

import (
	"github.com/adriapsx/psxcore/errors"
	"github.com/adriapsx/psxcore/hardware/memory/bus"
	"github.com/adriapsx/psxcore/hardware/memory/memorymap"
	"github.com/adriapsx/psxcore/logger"
)

// Scratchpad-enable bits of the cache control register (0xFFFE0130).
// Scratchpad access is only live when both are set; the BIOS always sets
// both together, but hardware genuinely gates on the pair.
const (
	ccScratchpadEnable1 = 1 << 3
	ccScratchpadEnable2 = 1 << 7
)

// mmioRange is one MMIODevice registered over a sub-window of the MMIO
// block, addressed by its own offset within that sub-window.
type mmioRange struct {
	base   uint32
	size   uint32
	device bus.MMIODevice
}

// Bus implements bus.CPUBus and bus.DebuggerBus over RAM, BIOS, scratchpad
// and a table of registered MMIO devices.
type Bus struct {
	ram        [memorymap.RAMSize]byte
	bios       [memorymap.BIOSSize]byte
	biosLoaded bool
	scratchpad [memorymap.ScratchpadSize]byte

	scratchpadEnabled bool
	cacheIsolated     bool

	mmio []mmioRange
}

// NewBus constructs an empty Bus. LoadBIOS must be called before CPU
// execution can reach kseg1's reset vector.
func NewBus() *Bus {
	return &Bus{scratchpadEnabled: true}
}

// LoadBIOS installs the BIOS ROM image. img must be exactly BIOSSize bytes.
func (b *Bus) LoadBIOS(img []byte) error {
	if len(img) != memorymap.BIOSSize {
		return errors.Errorf(errors.BIOSSizeError, memorymap.BIOSSize, len(img))
	}
	copy(b.bios[:], img)
	b.biosLoaded = true
	return nil
}

// Register attaches an MMIODevice to the [base, base+size) sub-window of
// the 0x1F801000-0x1F802000 block. base/size are offsets relative to
// memorymap.MMIOBase.
func (b *Bus) Register(base, size uint32, device bus.MMIODevice) {
	b.mmio = append(b.mmio, mmioRange{base: base, size: size, device: device})
}

// SetScratchpadEnabled toggles scratchpad access (a write to the cache
// control register sets this from its bits 3 and 7).
func (b *Bus) SetScratchpadEnabled(v bool) { b.scratchpadEnabled = v }

// SetCacheIsolated toggles the cache-isolation mode that swallows RAM
// writes (used by the BIOS during early boot to flush the icache).
func (b *Bus) SetCacheIsolated(v bool) { b.cacheIsolated = v }

func (b *Bus) findMMIO(offset uint32) (bus.MMIODevice, uint32, bool) {
	for i := range b.mmio {
		r := &b.mmio[i]
		if offset >= r.base && offset < r.base+r.size {
			return r.device, offset - r.base, true
		}
	}
	return nil, 0, false
}

// CatchUp advances every registered MMIO device's internal clock to cc, so
// device state read immediately afterwards reflects the current PSX clock
// position rather than its last-serviced one.
func (b *Bus) CatchUp(cc uint64) {
	for i := range b.mmio {
		b.mmio[i].device.CatchUp(cc)
	}
}

// Read32 implements bus.CPUBus.
func (b *Bus) Read32(addr uint32) (uint32, bool) {
	if addr&3 != 0 {
		logger.Logf("bus", errors.UnalignedAccess, addr)
		return 0, false
	}

	region, off := memorymap.Decode(addr)
	switch region {
	case memorymap.RegionRAM:
		return le32(b.ram[off:]), true
	case memorymap.RegionBIOS:
		if !b.biosLoaded {
			return 0xFFFFFFFF, true
		}
		return le32(b.bios[off:]), true
	case memorymap.RegionScratchpad:
		if !b.scratchpadEnabled {
			logger.Logf("bus", errors.ScratchpadDisabled, addr)
		}
		return le32(b.scratchpad[off:]), true
	case memorymap.RegionMMIO:
		if dev, doff, ok := b.findMMIO(off); ok {
			return dev.Read32(doff)
		}
		return 0xFFFFFFFF, true
	case memorymap.RegionCacheControl:
		return 0, true
	}

	logger.Logf("bus", errors.UnmappedAddress, addr)
	return 0xFFFFFFFF, false
}

// Write32 implements bus.CPUBus.
func (b *Bus) Write32(addr uint32, data uint32) bool {
	if addr&3 != 0 {
		logger.Logf("bus", errors.UnalignedAccess, addr)
		return false
	}

	region, off := memorymap.Decode(addr)
	switch region {
	case memorymap.RegionRAM:
		if b.cacheIsolated {
			logger.Logf("bus", errors.CacheIsolated, addr)
			return true
		}
		putLE32(b.ram[off:], data)
		return true
	case memorymap.RegionBIOS:
		return true // ROM: writes are discarded
	case memorymap.RegionScratchpad:
		if !b.scratchpadEnabled {
			logger.Logf("bus", errors.ScratchpadDisabled, addr)
		}
		putLE32(b.scratchpad[off:], data)
		return true
	case memorymap.RegionMMIO:
		if dev, doff, ok := b.findMMIO(off); ok {
			return dev.Write32(doff, data)
		}
		return true
	case memorymap.RegionCacheControl:
		b.SetCacheIsolated(data&(1<<16) != 0)
		enableBits := ccScratchpadEnable1 | ccScratchpadEnable2
		b.SetScratchpadEnabled(data&uint32(enableBits) == uint32(enableBits))
		return true
	}

	logger.Logf("bus", errors.UnmappedAddress, addr)
	return false
}

// Read16 implements bus.CPUBus. isLE is honoured only insofar as the PSX
// ever runs big-endian (COP0.SR.RE); the storage itself is always
// little-endian, so a big-endian read swaps the two bytes back.
func (b *Bus) Read16(addr uint32, isLE bool) (uint16, bool) {
	if addr&1 != 0 {
		logger.Logf("bus", errors.UnalignedAccess, addr)
		return 0, false
	}

	region, off := memorymap.Decode(addr)
	var v uint16
	ok := true
	switch region {
	case memorymap.RegionRAM:
		v = le16(b.ram[off:])
	case memorymap.RegionBIOS:
		if b.biosLoaded {
			v = le16(b.bios[off:])
		} else {
			v = 0xFFFF
		}
	case memorymap.RegionScratchpad:
		v = le16(b.scratchpad[off:])
	case memorymap.RegionMMIO:
		dev, doff, found := b.findMMIO(off)
		if !found {
			v = 0xFFFF
			break
		}
		v, ok = dev.Read16(doff)
	default:
		logger.Logf("bus", errors.UnmappedAddress, addr)
		return 0xFFFF, false
	}

	if !isLE {
		v = v>>8 | v<<8
	}
	return v, ok
}

// Write16 implements bus.CPUBus.
func (b *Bus) Write16(addr uint32, data uint16, isLE bool) bool {
	if addr&1 != 0 {
		logger.Logf("bus", errors.UnalignedAccess, addr)
		return false
	}
	if !isLE {
		data = data>>8 | data<<8
	}

	region, off := memorymap.Decode(addr)
	switch region {
	case memorymap.RegionRAM:
		if b.cacheIsolated {
			logger.Logf("bus", errors.CacheIsolated, addr)
			return true
		}
		putLE16(b.ram[off:], data)
		return true
	case memorymap.RegionBIOS:
		return true
	case memorymap.RegionScratchpad:
		putLE16(b.scratchpad[off:], data)
		return true
	case memorymap.RegionMMIO:
		if dev, doff, ok := b.findMMIO(off); ok {
			return dev.Write16(doff, data)
		}
		return true
	}

	logger.Logf("bus", errors.UnmappedAddress, addr)
	return false
}

// Read8 implements bus.CPUBus.
func (b *Bus) Read8(addr uint32, isLE bool) (uint8, bool) {
	_ = isLE // a single byte has no endian-dependent lane swap
	region, off := memorymap.Decode(addr)
	switch region {
	case memorymap.RegionRAM:
		return b.ram[off], true
	case memorymap.RegionBIOS:
		if !b.biosLoaded {
			return 0xFF, true
		}
		return b.bios[off], true
	case memorymap.RegionScratchpad:
		return b.scratchpad[off], true
	case memorymap.RegionMMIO:
		dev, doff, ok := b.findMMIO(off)
		if !ok {
			return 0xFF, true
		}
		v, ok := dev.Read8(doff)
		return v, ok
	}

	logger.Logf("bus", errors.UnmappedAddress, addr)
	return 0xFF, false
}

// Write8 implements bus.CPUBus. halfVal carries the containing halfword so
// 16-bit-wide devices (the SPU) can recover the CPU's intended value.
func (b *Bus) Write8(addr uint32, data uint8, halfVal uint16, isLE bool) bool {
	_ = isLE
	region, off := memorymap.Decode(addr)
	switch region {
	case memorymap.RegionRAM:
		if b.cacheIsolated {
			logger.Logf("bus", errors.CacheIsolated, addr)
			return true
		}
		b.ram[off] = data
		return true
	case memorymap.RegionBIOS:
		return true
	case memorymap.RegionScratchpad:
		b.scratchpad[off] = data
		return true
	case memorymap.RegionMMIO:
		if dev, doff, ok := b.findMMIO(off); ok {
			return dev.Write8(doff, data, halfVal)
		}
		return true
	}

	logger.Logf("bus", errors.UnmappedAddress, addr)
	return false
}

// Peek32 implements bus.DebuggerBus: a side-effect-free read, bypassing
// CatchUp, cache isolation and MMIO devices' own read side effects where
// reasonably avoidable.
func (b *Bus) Peek32(addr uint32) (uint32, bool) {
	region, off := memorymap.Decode(addr)
	switch region {
	case memorymap.RegionRAM:
		return le32(b.ram[off:]), true
	case memorymap.RegionBIOS:
		if !b.biosLoaded {
			return 0xFFFFFFFF, true
		}
		return le32(b.bios[off:]), true
	case memorymap.RegionScratchpad:
		return le32(b.scratchpad[off:]), true
	case memorymap.RegionMMIO:
		if dev, doff, ok := b.findMMIO(off); ok {
			return dev.Read32(doff)
		}
		return 0xFFFFFFFF, true
	}
	return 0xFFFFFFFF, false
}

// Poke32 implements bus.DebuggerBus: a direct write bypassing cache
// isolation, for debugger memory-edit commands.
func (b *Bus) Poke32(addr uint32, value uint32) bool {
	region, off := memorymap.Decode(addr)
	switch region {
	case memorymap.RegionRAM:
		putLE32(b.ram[off:], value)
		return true
	case memorymap.RegionScratchpad:
		putLE32(b.scratchpad[off:], value)
		return true
	case memorymap.RegionMMIO:
		if dev, doff, ok := b.findMMIO(off); ok {
			return dev.Write32(doff, value)
		}
		return true
	}
	return false
}

func le16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func putLE16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
