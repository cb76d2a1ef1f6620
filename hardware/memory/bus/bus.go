// Package bus defines the memory bus concept used throughout the emulator:
// CPU-facing memory access and chip-facing MMIO access as two small
// interfaces. The chip side is a bank of devices rather than a single
// fixed pair, because there are seven DMA channels, three timers, the
// interrupt controller and the GPU all sharing the one
// 0x1F801000-0x1F802000 register window.
package bus

// CPUBus defines the operations available to the CPU. Addresses are the
// CPU's virtual addresses; the implementation masks kuseg/kseg0/kseg1 down
// to physical addresses itself. isLE selects little or big endian
// byte/halfword lane ordering; the PSX is little-endian except when
// COP0.SR.RE swaps it in user mode.
type CPUBus interface {
	Read32(addr uint32) (uint32, bool)
	Write32(addr uint32, data uint32) bool

	Read16(addr uint32, isLE bool) (uint16, bool)
	Write16(addr uint32, data uint16, isLE bool) bool

	Read8(addr uint32, isLE bool) (uint8, bool)

	// Write8 carries halfVal, the containing halfword, so 16-bit-wide
	// devices (the SPU) can recover the value the CPU intended even though
	// the bus access was only a byte wide.
	Write8(addr uint32, data uint8, halfVal uint16, isLE bool) bool
}

// MMIODevice is implemented by every component with registers in the
// 0x1F801000-0x1F802000 window (interrupts, DMA, timers, GPU). The bus does
// not call CatchUp before an access: the scheduler catches the GPU up after
// every instruction and ticks the timers directly, so a device's clock is at
// most one instruction behind when its registers are accessed.
type MMIODevice interface {
	CatchUp(cc uint64)

	Read32(offset uint32) (uint32, bool)
	Write32(offset uint32, data uint32) bool

	Read16(offset uint32) (uint16, bool)
	Write16(offset uint32, data uint16) bool

	Read8(offset uint32) (uint8, bool)
	Write8(offset uint32, data uint8, halfVal uint16) bool
}

// DebuggerBus exposes Peek/Poke, used by trace tooling. They skip cache
// isolation and CatchUp, but an MMIO address is still served by the
// device's Read32/Write32, so register side effects (a DMA transfer, an
// interrupt edge) can still occur.
type DebuggerBus interface {
	Peek32(addr uint32) (uint32, bool)
	Poke32(addr uint32, value uint32) bool
}
