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

// Package gpu implements the GPU command processor: GP0/GP1 decode, the
// 32-word FIFO, VRAM access, and display timing (HBlank/VBlank generation).
// The rasterizer itself is a renderer.Renderer collaborator.
package gpu

import (
	"github.com/adriapsx/psxcore/errors"
	"github.com/adriapsx/psxcore/hardware/clocks"
	"github.com/adriapsx/psxcore/hardware/interrupts"
	"github.com/adriapsx/psxcore/hardware/timer"
	"github.com/adriapsx/psxcore/logger"
	"github.com/adriapsx/psxcore/renderer"
)

// fifoCapacity is the number of 32-bit words the command FIFO holds.
const fifoCapacity = 32

// state is the GP0 byte-stream decode state machine.
type state int

const (
	waitCmd state = iota
	waitWords
)

// GPU owns VRAM (via the renderer.Renderer lock handoff), the command
// FIFO, rendering/display configuration and scanline timing.
type GPU struct {
	r  renderer.Renderer
	ic *interrupts.Controller
	ts *timer.Timers

	vram []uint16 // locked from r for the lifetime of the GPU

	st         state
	cmdOpcode  uint8
	cmdBuf     []uint32
	cmdWordsNeeded int

	// CPU<->VRAM / VRAM<->VRAM streaming transfer state.
	xferActive bool
	xferRead   bool // true: VRAM->CPU (drained via GPU-read)
	xferX, xferY, xferW, xferH int
	xferCurX, xferCurY         int
	xferHalfPending            bool
	xferHalfWord               uint16

	gpuread uint32

	// Rendering configuration.
	texPageX, texPageY uint16
	transpMode         renderer.Transparency
	texMode            renderer.TextureMode
	dither             bool
	drawToDisplay      bool
	maskSet, maskCheck bool
	texWinMask, texWinOffset [2]uint8
	clipWord0, clipWord1     uint32 // raw E3/E4 words; their low 24 bits are echoed by GP0(0x10) info requests
	clipX0, clipY0, clipX1, clipY1 int32
	offsetX, offsetY int32

	// Display configuration.
	dispEnabled   bool
	dmaDirection  uint8
	dispOriginX   int32
	dispOriginY   int32
	rangeX1, rangeX2 uint16
	rangeY1, rangeY2 uint16
	hres, vres    uint8
	pal           bool
	depth24       bool
	interlace     bool
	reverseFlag   bool
	interlaceField bool

	// Timing.
	linesPerFrame int
	cyclesPerLine uint32
	line          int
	ccLine        uint32
	cc            uint64 // own catch-up position, in CPU cycles
	inHBlank      bool
	inVBlank      bool

	cctoIdle uint32

	// Trace, when set, logs one line per GP0/GP1 write via logger.Logf under
	// the "gpu" tag (instance.Config.TraceGPU wires this).
	Trace bool
}

// NewGPU constructs a GPU bound to r (the rasterizer collaborator), ic (so
// it can raise PSX_INT_VBLANK) and ts (so it can drive HBlank/VBlank into
// the timers; no dot clock is derived or sent to timer 0). NTSC timing is
// the default; call SetPAL to switch.
func NewGPU(r renderer.Renderer, ic *interrupts.Controller, ts *timer.Timers) *GPU {
	g := &GPU{r: r, ic: ic, ts: ts}
	g.vram = r.Lock()
	g.SetPAL(false)
	g.Reset()
	return g
}

// SetPAL switches the line-count/cycles-per-line timing model.
func (g *GPU) SetPAL(pal bool) {
	g.pal = pal
	if pal {
		g.linesPerFrame = clocks.PALLines
		g.cyclesPerLine = clocks.PALGPUCyclesLine
	} else {
		g.linesPerFrame = clocks.NTSCLines
		g.cyclesPerLine = clocks.NTSCGPUCyclesLine
	}
}

// Reset implements the GP1(0x00) full reset: clears the FIFO, disables
// display, resets every attribute register and jumps back to WAIT_CMD.
func (g *GPU) Reset() {
	g.st = waitCmd
	g.cmdBuf = g.cmdBuf[:0]
	g.cmdWordsNeeded = 0
	g.xferActive = false

	g.texPageX, g.texPageY = 0, 0
	g.transpMode = renderer.TransparencyNone
	g.texMode = renderer.TextureDisabled
	g.dither = false
	g.drawToDisplay = false
	g.maskSet, g.maskCheck = false, false
	g.texWinMask, g.texWinOffset = [2]uint8{}, [2]uint8{}
	g.clipWord0, g.clipWord1 = 0, 0
	g.clipX0, g.clipY0, g.clipX1, g.clipY1 = 0, 0, 0, 0
	g.offsetX, g.offsetY = 0, 0

	g.dispEnabled = false
	g.dmaDirection = 0
	g.dispOriginX, g.dispOriginY = 0, 0
	g.rangeX1, g.rangeX2 = 0x200, 0xC00
	g.rangeY1, g.rangeY2 = 0x10, 0x100
	g.hres, g.vres = 0, 0
	g.depth24 = false
	g.interlace = false
	g.reverseFlag = false

	g.r.EnableDisplay(false)
}

// CommandState is an exported snapshot of the GP0 decode state machine and
// FIFO occupancy, for the debugger's state-snapshot visualizer.
type CommandState struct {
	Opcode      uint8
	FIFODepth   int
	WordsNeeded int
	Streaming   bool
}

// Snapshot returns the GPU's current command decode state.
func (g *GPU) Snapshot() CommandState {
	return CommandState{
		Opcode:      g.cmdOpcode,
		FIFODepth:   len(g.cmdBuf),
		WordsNeeded: g.cmdWordsNeeded,
		Streaming:   g.xferActive,
	}
}

// Stat computes GPUSTAT from live state.
func (g *GPU) Stat() uint32 {
	var v uint32

	v |= uint32(g.texPageX&0xF) << 0
	v |= uint32(g.texPageY&0x1) << 4
	v |= uint32(g.transpMode&0x3) << 5
	v |= uint32(g.texMode&0x3) << 7
	if g.dither {
		v |= 1 << 9
	}
	if g.drawToDisplay {
		v |= 1 << 10
	}
	if g.maskSet {
		v |= 1 << 11
	}
	if g.maskCheck {
		v |= 1 << 12
	}
	v |= 1 << 13 // interlace field on odd lines toggles below; bit13 always "interlaced" ready
	if g.reverseFlag {
		v |= 1 << 14
	}
	if g.texMode == renderer.TextureDisabled {
		v |= 1 << 15
	}
	v |= uint32(g.hres&0x3) << 16
	if g.hres&0x4 != 0 {
		v |= 1 << 16
	}
	v |= uint32(g.vres&0x1) << 19
	if g.pal {
		v |= 1 << 20
	}
	if g.depth24 {
		v |= 1 << 21
	}
	if g.interlace {
		v |= 1 << 22
	}
	if !g.dispEnabled {
		v |= 1 << 23
	}
	v |= uint32(g.dmaDirection&0x3) << 29

	v |= 1 << 26 // ready to receive GP0 command
	v |= 1 << 27 // ready to send VRAM to CPU
	v |= 1 << 28 // ready to receive DMA block

	if g.interlaceField {
		v |= 1 << 31
	}

	switch g.dmaDirection {
	case 1:
		v |= (1 << 25) // FIFO not full proxy as DMA request
	case 2:
		v |= 1 << 25
	case 3:
		v |= 1 << 25
	}

	return v
}

// GPURead returns the current value of the GPUREAD register: either the
// next word of an in-progress VRAM->CPU transfer, or the last info-request
// result latched by a GP0(0x10) command.
func (g *GPU) GPURead() uint32 {
	if g.xferActive && g.xferRead {
		return g.readTransferWord()
	}
	return g.gpuread
}

// GP1 processes a display-control command.
func (g *GPU) GP1(word uint32) {
	cmd := uint8(word >> 24)
	if g.Trace {
		logger.Logf("gpu", "gp1 %#08x", word)
	}
	switch cmd {
	case 0x00:
		g.Reset()
	case 0x01:
		g.st = waitCmd
		g.cmdBuf = g.cmdBuf[:0]
		g.xferActive = false
	case 0x02:
		// IRQ acknowledge: GPU does not latch its own IRQ state beyond the
		// interrupt controller's I_STAT bit, which is cleared there.
	case 0x03:
		g.dispEnabled = word&1 == 0
		g.r.EnableDisplay(g.dispEnabled)
	case 0x04:
		g.dmaDirection = uint8(word & 0x3)
	case 0x05:
		g.dispOriginX = int32(word & 0x3FF)
		g.dispOriginY = int32((word >> 10) & 0x1FF)
	case 0x06:
		g.rangeX1 = uint16(word & 0xFFF)
		g.rangeX2 = uint16((word >> 12) & 0xFFF)
	case 0x07:
		g.rangeY1 = uint16(word & 0x3FF)
		g.rangeY2 = uint16((word >> 10) & 0x3FF)
	case 0x08:
		g.hres = uint8(word&0x3) | uint8((word>>6)&0x1)<<2
		g.vres = uint8((word >> 2) & 0x1)
		g.pal = word&(1<<3) != 0
		g.depth24 = word&(1<<4) != 0
		g.interlace = word&(1<<5) != 0
		g.reverseFlag = word&(1<<7) != 0
		g.SetPAL(g.pal)
	default:
		logger.Logf("gpu", errors.GPUUnknownGP1Cmd, word)
	}
}

// GP0 feeds one word into the rendering/VRAM-transfer command stream.
func (g *GPU) GP0(word uint32) {
	if g.Trace {
		logger.Logf("gpu", "gp0 %#08x", word)
	}
	if g.xferActive && !g.xferRead {
		g.writeTransferWord(word)
		return
	}

	if g.st == waitCmd {
		cmd := uint8(word >> 24)
		g.cmdOpcode = cmd
		g.cmdBuf = append(g.cmdBuf[:0], word)

		n := gp0WordCount(cmd)
		if n > fifoCapacity {
			logger.Logf("gpu", errors.GPUFIFOOverflow, word)
			g.cmdBuf = g.cmdBuf[:0]
			g.st = waitCmd
			return
		}
		if n <= 1 {
			g.execCommand()
			return
		}
		g.cmdWordsNeeded = n
		g.st = waitWords
		return
	}

	if len(g.cmdBuf) >= fifoCapacity {
		logger.Logf("gpu", errors.GPUFIFOOverflow, word)
		g.cmdBuf = g.cmdBuf[:0]
		g.st = waitCmd
		return
	}

	g.cmdBuf = append(g.cmdBuf, word)
	if len(g.cmdBuf) < g.cmdWordsNeeded {
		return
	}
	g.execCommand()
	g.st = waitCmd
}

// CatchUp implements bus.MMIODevice: it advances the GPU's own scanline
// position up to cc (a global CPU-cycle position), firing HBlank/VBlank
// edges into the timers and interrupt controller as line boundaries are
// crossed, and decrementing the FIFO-action back-pressure counter.
func (g *GPU) CatchUp(cc uint64) {
	if cc <= g.cc {
		return
	}
	delta := cc - g.cc
	g.cc = cc

	// GPU clock runs at 7/11 of the CPU clock.
	gpuCycles := uint32(delta * clocks.GPUCycleNumerator / clocks.GPUCycleDenominator)

	if g.cctoIdle > 0 {
		if gpuCycles >= g.cctoIdle {
			g.cctoIdle = 0
		} else {
			g.cctoIdle -= gpuCycles
		}
	}

	for gpuCycles > 0 {
		remainInLine := g.cyclesPerLine - g.ccLine
		step := gpuCycles
		if step > remainInLine {
			step = remainInLine
		}
		g.ccLine += step
		gpuCycles -= step

		hblankStart := g.cyclesPerLine - 200 // approximate HBlank window width
		wasHBlank := g.inHBlank
		g.inHBlank = g.ccLine >= hblankStart
		if g.inHBlank != wasHBlank {
			g.ts.HBlank(g.inHBlank)
		}

		if g.ccLine >= g.cyclesPerLine {
			g.ccLine = 0
			g.advanceLine()
		}
	}
}

func (g *GPU) advanceLine() {
	prevLine := g.line
	g.line++
	if g.line >= g.linesPerFrame {
		g.line = 0
		g.interlaceField = !g.interlaceField
	}

	y2 := int(g.rangeY2)
	y1 := int(g.rangeY1)

	wasVBlank := g.inVBlank
	g.inVBlank = !(g.line >= y1 && g.line < y2)
	if g.inVBlank != wasVBlank {
		g.ts.VBlank(g.inVBlank)
		if g.inVBlank {
			g.onVBlankIn()
		}
	}
	_ = prevLine
}

func (g *GPU) onVBlankIn() {
	if g.ic != nil {
		g.ic.Interruption(interrupts.VBlank, true)
		g.ic.Interruption(interrupts.VBlank, false)
	}

	geom := renderer.FrameGeometry{
		X: g.dispOriginX, Y: g.dispOriginY,
		Width:  displayWidth(g.hres),
		Height: displayHeight(g.vres, g.interlace),
		Is15Bit: !g.depth24,
		DX0: int32(g.rangeX1), DX1: int32(g.rangeX2),
		DY0: int32(g.rangeY1), DY1: int32(g.rangeY2),
	}
	g.r.Unlock()
	g.r.Draw(geom)
	g.vram = g.r.Lock()
}

func displayWidth(hres uint8) int32 {
	switch hres & 0x3 {
	case 0:
		return 256
	case 1:
		return 320
	case 2:
		return 512
	case 3:
		return 640
	}
	return 256
}

func displayHeight(vres uint8, interlace bool) int32 {
	if vres == 1 && interlace {
		return 480
	}
	return 240
}
