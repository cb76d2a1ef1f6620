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

// Package random supplies the "garbage" values real hardware would leave in
// uninitialised RAM, VRAM and registers on power-up. A true math/rand source
// would break determinism across a rewind/replay (state saved and restored
// at the same clock position must reconstruct exactly the same garbage), so
// values are instead derived from the clock position itself.
package random

// ClockSource is consulted for the current position in the emulation so that
// Rewindable() produces the same sequence of garbage values whenever it is
// queried from the same clock position, even after a rewind.
type ClockSource interface {
	Cycles() uint64
}

// Random produces deterministic-but-unpredictable byte values seeded from a
// ClockSource.
type Random struct {
	clock ClockSource

	// ZeroSeed forces Rewindable to ignore the clock source and return a
	// fixed sequence. Used by regression tests that need the same "random"
	// garbage on every run regardless of how many cycles preceded it.
	ZeroSeed bool
}

// NewRandom creates a Random tied to clock.
func NewRandom(clock ClockSource) *Random {
	return &Random{clock: clock}
}

// Rewindable returns a pseudo-random byte for slot i that is stable across a
// rewind: querying it again from the same clock position returns the same
// value.
func (r *Random) Rewindable(i int) uint8 {
	var seed uint64
	if !r.ZeroSeed {
		seed = r.clock.Cycles()
	}

	// splitmix64, mixed with i so that adjacent slots (e.g. consecutive RAM
	// words at power-on) don't trivially repeat.
	x := seed + uint64(i)*0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	x = x ^ (x >> 31)

	return uint8(x)
}
