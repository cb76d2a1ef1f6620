package errors

// error messages. each of these is a "head" usable with errors.Is/errors.Has
// and is grouped by the subsystem that raises it. guest-visible faults (the
// ones delivered as MIPS exceptions, see hardware/cpu/exceptions.go) are
// deliberately not curated errors: they never escape the CPU.

const (
	// host-fatal setup errors: these abort before any guest cycle executes

	BIOSSizeError  = "bios error: expected exactly %d bytes, got %d"
	BIOSLoadError  = "bios error: %v"
	MemoryCardSize = "memory card error: expected exactly %d bytes, got %d"

	// bus / memory map
	UnalignedAccess    = "bus error: unaligned access at %#08x"
	UnmappedAddress    = "bus error: unmapped address %#08x"
	ScratchpadDisabled = "bus warning: scratchpad access while disabled (%#08x)"
	CacheIsolated      = "bus warning: memory write swallowed, cache isolated (%#08x)"

	// dma
	DMAInvalidSyncMode = "dma error: sync mode %d not valid for channel %d"

	// gpu
	GPUFIFOOverflow  = "gpu warning: fifo overflow, command dropped (%#08x)"
	GPUUnknownGP0Cmd = "gpu warning: unrecognised gp0 command (%#08x)"
	GPUUnknownGP1Cmd = "gpu warning: unrecognised gp1 command (%#08x)"
	GPUBadDrawArea   = "gpu warning: ignoring invalid drawing area (%d,%d)-(%d,%d)"

	// timers
	TimerBadSource = "timer error: invalid clock source %d for timer %d"
)
