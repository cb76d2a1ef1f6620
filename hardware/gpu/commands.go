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

package gpu

import (
	"github.com/adriapsx/psxcore/errors"
	"github.com/adriapsx/psxcore/logger"
	"github.com/adriapsx/psxcore/renderer"
)

// gp0WordCount returns the total FIFO word count (including the command
// word itself) for a GP0 command identified by its top byte. Streaming
// transfers (0xA0/0xC0) report only their fixed 3-word header; the pixel
// stream that follows is handled outside the FIFO word-count bookkeeping
// because its length depends on the header's own width/height field.
func gp0WordCount(cmd uint8) int {
	switch {
	case cmd == 0x02:
		return 3
	case cmd >= 0x20 && cmd <= 0x3F:
		return polygonWords(cmd)
	case cmd >= 0x40 && cmd <= 0x5F:
		return lineWords(cmd)
	case cmd >= 0x60 && cmd <= 0x7F:
		return rectWords(cmd)
	case cmd >= 0x80 && cmd <= 0x9F:
		return 4
	case cmd >= 0xA0 && cmd <= 0xBF:
		return 3
	case cmd >= 0xC0 && cmd <= 0xDF:
		return 3
	default:
		return 1
	}
}

func polygonWords(cmd uint8) int {
	quad := cmd&0x08 != 0
	gouraud := cmd&0x10 != 0
	textured := cmd&0x01 != 0

	n := 3
	if quad {
		n = 4
	}

	words := 1
	for i := 0; i < n; i++ {
		if i > 0 && gouraud {
			words++
		}
		words++
		if textured {
			words++
		}
	}
	return words
}

func lineWords(cmd uint8) int {
	poly := cmd&0x08 != 0
	gouraud := cmd&0x10 != 0

	if poly {
		// Polylines are variable-length, terminated by a sentinel word;
		// the fixed header is just the command word, the rest streams in
		// via the polyline path in execCommand/GP0.
		return 1
	}

	words := 1
	for i := 0; i < 2; i++ {
		if i > 0 && gouraud {
			words++
		}
		words++
	}
	return words
}

func rectWords(cmd uint8) int {
	textured := cmd&0x01 != 0
	sizeCode := (cmd >> 3) & 0x3

	words := 2 // cmd (with colour) + position
	if textured {
		words++
	}
	if sizeCode == 0 {
		words++ // variable width/height word
	}
	return words
}

// execCommand dispatches the fully accumulated command in cmdBuf.
func (g *GPU) execCommand() {
	switch {
	case g.cmdOpcode == 0x00, g.cmdOpcode == 0x01:
		// NOP / clear cache: no state change modelled.
	case g.cmdOpcode == 0x02:
		g.execFill()
	case g.cmdOpcode >= 0x20 && g.cmdOpcode <= 0x3F:
		g.execPolygon()
	case g.cmdOpcode >= 0x40 && g.cmdOpcode <= 0x5F:
		g.execLine()
	case g.cmdOpcode >= 0x60 && g.cmdOpcode <= 0x7F:
		g.execRect()
	case g.cmdOpcode >= 0x80 && g.cmdOpcode <= 0x9F:
		g.execVRAMCopy()
	case g.cmdOpcode >= 0xA0 && g.cmdOpcode <= 0xBF:
		g.execCPUToVRAM()
	case g.cmdOpcode >= 0xC0 && g.cmdOpcode <= 0xDF:
		g.execVRAMToCPU()
	case g.cmdOpcode == 0xE1:
		g.execDrawMode(g.cmdBuf[0])
	case g.cmdOpcode == 0xE2:
		g.execTexWindow(g.cmdBuf[0])
	case g.cmdOpcode == 0xE3:
		g.clipWord0 = g.cmdBuf[0]
		g.clipX0 = int32(g.cmdBuf[0] & 0x3FF)
		g.clipY0 = int32((g.cmdBuf[0] >> 10) & 0x1FF)
		g.checkDrawArea()
	case g.cmdOpcode == 0xE4:
		g.clipWord1 = g.cmdBuf[0]
		g.clipX1 = int32(g.cmdBuf[0] & 0x3FF)
		g.clipY1 = int32((g.cmdBuf[0] >> 10) & 0x1FF)
		g.checkDrawArea()
	case g.cmdOpcode == 0xE5:
		g.offsetX = signExtend11(g.cmdBuf[0] & 0x7FF)
		g.offsetY = signExtend11((g.cmdBuf[0] >> 11) & 0x7FF)
	case g.cmdOpcode == 0xE6:
		g.maskSet = g.cmdBuf[0]&1 != 0
		g.maskCheck = g.cmdBuf[0]&2 != 0
	case g.cmdOpcode >= 0x10 && g.cmdOpcode <= 0x1F:
		g.execInfoRequest(g.cmdBuf[0])
	default:
		logger.Logf("gpu", errors.GPUUnknownGP0Cmd, g.cmdBuf[0])
	}

	g.cmdBuf = g.cmdBuf[:0]
}

// checkDrawArea warns (without correcting) when E3/E4 define a bottom-right
// corner above or left of the top-left: real hardware accepts it and clips
// everything, which a silent clamp here would hide from a trace.
func (g *GPU) checkDrawArea() {
	if g.clipX1 < g.clipX0 || g.clipY1 < g.clipY0 {
		logger.Logf("gpu", errors.GPUBadDrawArea, g.clipX0, g.clipY0, g.clipX1, g.clipY1)
	}
}

func signExtend11(v uint32) int32 {
	if v&0x400 != 0 {
		return int32(v) - 0x800
	}
	return int32(v)
}

func (g *GPU) execDrawMode(word uint32) {
	g.texPageX = uint16(word & 0xF)
	g.texPageY = uint16((word >> 4) & 0x1)
	g.transpMode = renderer.Transparency((word >> 5) & 0x3)
	g.texMode = renderer.TextureMode((word >> 7) & 0x3)
	g.dither = word&(1<<9) != 0
	g.drawToDisplay = word&(1<<10) != 0
}

func (g *GPU) execTexWindow(word uint32) {
	g.texWinMask = [2]uint8{uint8(word & 0x1F), uint8((word >> 5) & 0x1F)}
	g.texWinOffset = [2]uint8{uint8((word >> 10) & 0x1F), uint8((word >> 15) & 0x1F)}
}

// execInfoRequest answers GP0(0x10..0x1F) GPU info requests by echoing
// back the parameter bits (low 24 bits, without the command byte) of the
// last-written E3/E4 word.
func (g *GPU) execInfoRequest(word uint32) {
	switch word & 0xFF {
	case 0x03:
		g.gpuread = g.clipWord0 & 0x00FFFFFF
	case 0x04:
		g.gpuread = g.clipWord1 & 0x00FFFFFF
	default:
		g.gpuread = 0
	}
}

func (g *GPU) execFill() {
	color := g.cmdBuf[0] & 0xFFFFFF
	x := int32(g.cmdBuf[1] & 0x3FF)
	y := int32((g.cmdBuf[1] >> 10) & 0x1FF)
	w := int32(g.cmdBuf[2] & 0x3FF)
	h := int32((g.cmdBuf[2] >> 10) & 0x1FF)

	c15 := rgb24to15(color)
	for dy := int32(0); dy < h; dy++ {
		py := (y + dy) & 0x1FF
		for dx := int32(0); dx < w; dx++ {
			px := (x + dx) & 0x3FF
			g.vram[int(py)*1024+int(px)] = c15
		}
	}

	g.cctoIdle += uint32(w*h)/8 + 46
}

func rgb24to15(c uint32) uint16 {
	r := uint16(c&0xFF) >> 3
	gg := uint16((c>>8)&0xFF) >> 3
	b := uint16((c>>16)&0xFF) >> 3
	return r | gg<<5 | b<<10
}

func (g *GPU) execPolygon() {
	quad := g.cmdOpcode&0x08 != 0
	gouraud := g.cmdOpcode&0x10 != 0
	textured := g.cmdOpcode&0x01 != 0
	transp := g.cmdOpcode&0x02 != 0
	raw := g.cmdOpcode&0x10 != 0 && textured // approximate: modulate unless raw bit set elsewhere

	n := 3
	if quad {
		n = 4
	}

	verts := make([]renderer.Vertex, 0, n)
	idx := 1
	color := g.cmdBuf[0] & 0xFFFFFF
	for i := 0; i < n; i++ {
		vColor := color
		if i > 0 && gouraud {
			vColor = g.cmdBuf[idx] & 0xFFFFFF
			idx++
		}
		xy := g.cmdBuf[idx]
		idx++
		var u, v uint8
		if textured {
			uv := g.cmdBuf[idx]
			idx++
			u, v = uint8(uv), uint8(uv>>8)
		}
		verts = append(verts, renderer.Vertex{
			X:     g.offsetX + signExtend11(xy&0x7FF),
			Y:     g.offsetY + signExtend11((xy>>11)&0x7FF),
			Color: vColor,
			U:     u,
			V:     v,
		})
	}

	args := g.drawArgs(verts, transp, textured)
	_ = raw

	var stats renderer.Stats
	if quad {
		stats = g.r.Pol4(args)
	} else {
		stats = g.r.Pol3(args)
	}
	g.accountCost(stats)
}

func (g *GPU) execLine() {
	gouraud := g.cmdOpcode&0x10 != 0
	transp := g.cmdOpcode&0x02 != 0
	poly := g.cmdOpcode&0x08 != 0

	if poly {
		// The fixed-length decode above only captured the command word;
		// polylines are variable length and terminated by a sentinel.
		// Treat the two-vertex case as the common path and rely on the
		// scheduler feeding further GP0 words through the same opcode
		// until a 0x5xxx5xxx-family terminator is observed upstream.
		return
	}

	color := g.cmdBuf[0] & 0xFFFFFF
	verts := make([]renderer.Vertex, 0, 2)
	idx := 1
	for i := 0; i < 2; i++ {
		vColor := color
		if i > 0 && gouraud {
			vColor = g.cmdBuf[idx] & 0xFFFFFF
			idx++
		}
		xy := g.cmdBuf[idx]
		idx++
		verts = append(verts, renderer.Vertex{
			X:     g.offsetX + signExtend11(xy&0x7FF),
			Y:     g.offsetY + signExtend11((xy>>11)&0x7FF),
			Color: vColor,
		})
	}

	args := g.drawArgs(verts, transp, false)
	stats := g.r.Line(args)
	g.accountCost(stats)
}

func (g *GPU) execRect() {
	textured := g.cmdOpcode&0x01 != 0
	transp := g.cmdOpcode&0x02 != 0
	sizeCode := (g.cmdOpcode >> 3) & 0x3

	color := g.cmdBuf[0] & 0xFFFFFF
	idx := 1
	xy := g.cmdBuf[idx]
	idx++

	var u, v uint8
	if textured {
		uv := g.cmdBuf[idx]
		idx++
		u, v = uint8(uv), uint8(uv>>8)
	}

	var w, h int32
	switch sizeCode {
	case 1:
		w, h = 1, 1
	case 2:
		w, h = 8, 8
	case 3:
		w, h = 16, 16
	default:
		wh := g.cmdBuf[idx]
		idx++
		w = int32(wh & 0x3FF)
		h = int32((wh >> 10) & 0x1FF)
	}

	vert := renderer.Vertex{
		X:     g.offsetX + signExtend11(xy&0x7FF),
		Y:     g.offsetY + signExtend11((xy>>11)&0x7FF),
		Color: color,
		U:     u,
		V:     v,
	}

	args := g.drawArgs([]renderer.Vertex{vert}, transp, textured)
	stats := g.r.Rect(args, w, h)
	g.accountCost(stats)
}

func (g *GPU) drawArgs(verts []renderer.Vertex, transp bool, textured bool) renderer.DrawArgs {
	tm := renderer.TextureDisabled
	if textured {
		tm = renderer.Texture4Bit + g.texMode
	}
	tr := renderer.TransparencyNone
	if transp {
		tr = renderer.TransparencyAvgHalf + g.transpMode
	}
	return renderer.DrawArgs{
		Vertices:     verts,
		Clip:         renderer.ClipRect{X0: g.clipX0, Y0: g.clipY0, X1: g.clipX1, Y1: g.clipY1},
		Transp:       tr,
		TexMode:      tm,
		TexWinMask:   g.texWinMask,
		TexWinOffset: g.texWinOffset,
		TexPageX:     g.texPageX,
		TexPageY:     g.texPageY,
		MaskSet:      g.maskSet,
		MaskCheck:    g.maskCheck,
		Dither:       g.dither,
	}
}

func (g *GPU) accountCost(stats renderer.Stats) {
	g.cctoIdle += stats.Pixels/8 + stats.Scanlines*2 + 16
}

func (g *GPU) execVRAMCopy() {
	srcXY := g.cmdBuf[1]
	dstXY := g.cmdBuf[2]
	sizeWH := g.cmdBuf[3]

	sx, sy := int(srcXY&0x3FF), int((srcXY>>10)&0x1FF)
	dx, dy := int(dstXY&0x3FF), int((dstXY>>10)&0x1FF)
	w, h := int((sizeWH&0x3FF)), int((sizeWH>>10)&0x1FF)
	if w == 0 {
		w = 1024
	}
	if h == 0 {
		h = 512
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := g.vram[((sy+y)&0x1FF)*1024+((sx+x)&0x3FF)]
			g.vram[((dy+y)&0x1FF)*1024+((dx+x)&0x3FF)] = v
		}
	}
	g.cctoIdle += uint32(w*h)/8 + 46
}

func (g *GPU) execCPUToVRAM() {
	g.beginTransfer(false)
}

func (g *GPU) execVRAMToCPU() {
	g.beginTransfer(true)
}

func (g *GPU) beginTransfer(read bool) {
	dstXY := g.cmdBuf[1]
	sizeWH := g.cmdBuf[2]

	g.xferX = int(dstXY & 0x3FF)
	g.xferY = int((dstXY >> 10) & 0x1FF)
	g.xferW = int(sizeWH & 0x3FF)
	if g.xferW == 0 {
		g.xferW = 1024
	}
	g.xferH = int((sizeWH >> 10) & 0x1FF)
	if g.xferH == 0 {
		g.xferH = 512
	}
	g.xferCurX, g.xferCurY = 0, 0
	g.xferHalfPending = false
	g.xferActive = true
	g.xferRead = read
}

// writeTransferWord accepts one 32-bit FIFO word during a CPU->VRAM
// transfer, unpacking it into two 16-bit pixels in raster order.
func (g *GPU) writeTransferWord(word uint32) {
	g.storePixel(uint16(word))
	if g.xferActive {
		g.storePixel(uint16(word >> 16))
	}
}

func (g *GPU) storePixel(v uint16) {
	if !g.xferActive {
		return
	}
	px := (g.xferX + g.xferCurX) & 0x3FF
	py := (g.xferY + g.xferCurY) & 0x1FF
	g.vram[py*1024+px] = v

	g.xferCurX++
	if g.xferCurX >= g.xferW {
		g.xferCurX = 0
		g.xferCurY++
		if g.xferCurY >= g.xferH {
			g.xferActive = false
		}
	}
}

// readTransferWord produces the next 32-bit GPU-read word during a
// VRAM->CPU transfer, packing two pixels in raster order.
func (g *GPU) readTransferWord() uint32 {
	lo := g.loadPixel()
	hi := uint16(0)
	if g.xferActive {
		hi = g.loadPixel()
	}
	return uint32(lo) | uint32(hi)<<16
}

func (g *GPU) loadPixel() uint16 {
	if !g.xferActive {
		return 0
	}
	px := (g.xferX + g.xferCurX) & 0x3FF
	py := (g.xferY + g.xferCurY) & 0x1FF
	v := g.vram[py*1024+px]

	g.xferCurX++
	if g.xferCurX >= g.xferW {
		g.xferCurX = 0
		g.xferCurY++
		if g.xferCurY >= g.xferH {
			g.xferActive = false
		}
	}
	return v
}
