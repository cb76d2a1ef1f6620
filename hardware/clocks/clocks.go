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

// Package clocks defines the constant values that tie together the console's
// various clock domains. The CPU, the GPU and the display all run from the
// same crystal but at different fixed ratios of it, and the per-line/per-
// field totals differ between NTSC and PAL.
package clocks

// CPU clock, in MHz: the 53.222400MHz GPU video clock times 7/11 (the same
// ratio as GPUCycleNumerator/GPUCycleDenominator below).
const (
	CPU_NTSC = 33.868800
	CPU_PAL  = 33.868800
)

// GPUCycleNumerator and GPUCycleDenominator express the 7/11 ratio
// between the CPU clock domain and the GPU's dot clock domain without
// resorting to floating point in the hot path: GPU cycles are counted in
// elevenths of a CPU cycle.
const (
	GPUCycleNumerator   = 7
	GPUCycleDenominator = 11
)

// Scanline totals per the television standard. GPUCyclesPerLine is expressed
// in the GPU's own (7/11 CPU) clock domain.
const (
	NTSCLines         = 263
	NTSCGPUCyclesLine = 3413

	PALLines         = 314
	PALGPUCyclesLine = 3406
)
