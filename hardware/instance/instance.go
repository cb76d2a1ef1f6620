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

// Package instance defines those parts of the emulation that might change from
// instance to instance of the console type, but is not actually the console
// itself.
//
// Particularly useful when running more than one instance of the emulation in
// parallel, since none of it is held in package-level state.
package instance

import "github.com/adriapsx/psxcore/random"

// TVMode selects the video standard the GPU and timers run against. It
// affects line counts, GPU cycles per line, and therefore VBlank/HBlank
// timing.
type TVMode int

// Supported video standards.
const (
	NTSC TVMode = iota
	PAL
)

// Config holds the options that select an instance's behaviour but are not
// themselves part of its emulated state.
type Config struct {
	// BIOSPath is the location of the 512KiB BIOS image to map at kseg1
	// 0xBFC00000 (and its kuseg/kseg0 mirrors).
	BIOSPath string

	// TVMode selects NTSC or PAL timing.
	TVMode TVMode

	// TraceCPU, TraceGPU and TraceDMA enable verbose logging of the
	// respective component via the logger package. They are independent so
	// that a noisy GPU trace doesn't have to be paid for when only CPU
	// behaviour is under investigation.
	TraceCPU bool
	TraceGPU bool
	TraceDMA bool
}

// NewConfig returns a Config with sensible defaults (NTSC, no tracing).
func NewConfig() *Config {
	return &Config{TVMode: NTSC}
}

// Cycles is a free-running cycle counter. The scheduler advances it as
// emulation proceeds; anything that needs a stable, rewind-safe position in
// time (random.Random in particular) reads it back.
type Cycles struct {
	n uint64
}

// Cycles implements random.ClockSource.
func (c *Cycles) Cycles() uint64 {
	return c.n
}

// Advance moves the counter forward by n cycles.
func (c *Cycles) Advance(n uint64) {
	c.n += n
}

// Instance defines those parts of the emulation that might change between
// different instantiations of the console type, but is not actually the
// console itself.
type Instance struct {
	Config *Config
	Clock  *Cycles
	Random *random.Random
}

// NewInstance is the preferred method of initialisation for the Instance
// type. A nil cfg is replaced with NewConfig's defaults.
func NewInstance(cfg *Config) *Instance {
	if cfg == nil {
		cfg = NewConfig()
	}

	clock := &Cycles{}

	return &Instance{
		Config: cfg,
		Clock:  clock,
		Random: random.NewRandom(clock),
	}
}

// Normalise ensures the instance is in a known default state. Useful for
// regression testing where the initial state must be the same for every run
// of the test.
func (ins *Instance) Normalise() {
	ins.Random.ZeroSeed = true
	ins.Clock.n = 0
}
