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

// Package renderer defines the GPU's rasterizer collaborator boundary. The
// rasterizer itself is out of scope; this package only defines the
// capability set the GPU command processor drives and a counting default
// implementation used by headless runs and tests.
package renderer

// Transparency selects one of the four blend modes a polygon/line/rect draw
// may use, or none.
type Transparency int

// The five transparency settings (four blend modes plus "off").
const (
	TransparencyNone Transparency = iota
	TransparencyAvgHalf // (D/2 + S/2)
	TransparencyAdd     // (D + S)
	TransparencySub     // (D - S)
	TransparencyAddQuarter
)

// TextureMode selects the bit depth texture lookups decode at, or that
// texturing is disabled entirely.
type TextureMode int

// The texture depth options.
const (
	TextureDisabled TextureMode = iota
	Texture4Bit
	Texture8Bit
	Texture15Bit
)

// Vertex is one corner of a polygon or line, already adjusted by the GPU's
// current drawing offset.
type Vertex struct {
	X, Y  int32
	Color uint32 // 0x00BBGGRR
	U, V  uint8
}

// ClipRect is the current drawing-area clip rectangle.
type ClipRect struct {
	X0, Y0, X1, Y1 int32
}

// DrawArgs is the fully specified argument set the GPU passes to every
// shape draw.
type DrawArgs struct {
	Vertices   []Vertex
	Clip       ClipRect
	Transp     Transparency
	TexMode    TextureMode
	TexWinMask, TexWinOffset [2]uint8
	ClutX, ClutY             uint16
	TexPageX, TexPageY       uint16
	RawTexture               bool
	MaskSet, MaskCheck        bool
	Dither, Gouraud           bool
}

// Stats reports the approximate cost of a completed draw so the GPU can
// compute its cctoIdle back-pressure countdown.
type Stats struct {
	Pixels    uint32
	Scanlines uint32
}

// FrameGeometry describes the visible region of VRAM to composite to the
// host, handed to Draw on VBlank-in.
type FrameGeometry struct {
	X, Y          int32
	Width, Height int32
	Is15Bit       bool
	DX0, DX1      int32
	DY0, DY1      int32
}

// Renderer is the capability the GPU command processor requires.
type Renderer interface {
	Free()
	EnableDisplay(enabled bool)

	Lock() []uint16
	Unlock()

	Draw(geom FrameGeometry)

	Pol3(args DrawArgs) Stats
	Pol4(args DrawArgs) Stats
	Rect(args DrawArgs, w, h int32) Stats
	Line(args DrawArgs) Stats
}

// Null is a Renderer that tracks draw statistics into an in-memory
// framebuffer but never touches a real window; used by headless runs and
// by the GPU's own unit tests.
type Null struct {
	vram    [1024 * 512]uint16
	locked  bool
	enabled bool
}

// NewNull returns a ready-to-use Null renderer.
func NewNull() *Null {
	return &Null{}
}

// Free implements Renderer.
func (n *Null) Free() {}

// EnableDisplay implements Renderer.
func (n *Null) EnableDisplay(enabled bool) {
	n.enabled = enabled
}

// Enabled reports the last value passed to EnableDisplay.
func (n *Null) Enabled() bool {
	return n.enabled
}

// Lock implements Renderer.
func (n *Null) Lock() []uint16 {
	n.locked = true
	return n.vram[:]
}

// Unlock implements Renderer.
func (n *Null) Unlock() {
	n.locked = false
}

// Draw implements Renderer; Null keeps no frame history, so this is a
// no-op beyond the bookkeeping the GPU relies on elsewhere.
func (n *Null) Draw(geom FrameGeometry) {}

// Pol3 implements Renderer, filling the bounding box of the three vertices
// with the first vertex's colour as an approximation.
func (n *Null) Pol3(args DrawArgs) Stats {
	return n.fillBounds(args)
}

// Pol4 implements Renderer.
func (n *Null) Pol4(args DrawArgs) Stats {
	return n.fillBounds(args)
}

// Rect implements Renderer.
func (n *Null) Rect(args DrawArgs, w, h int32) Stats {
	if len(args.Vertices) == 0 {
		return Stats{}
	}
	x0, y0 := args.Vertices[0].X, args.Vertices[0].Y
	n.fill(x0, y0, x0+w, y0+h, args.Vertices[0].Color, args.Clip)
	return Stats{Pixels: uint32(w) * uint32(h), Scanlines: uint32(h)}
}

// Line implements Renderer.
func (n *Null) Line(args DrawArgs) Stats {
	return n.fillBounds(args)
}

func (n *Null) fillBounds(args DrawArgs) Stats {
	if len(args.Vertices) == 0 {
		return Stats{}
	}
	minX, minY := args.Vertices[0].X, args.Vertices[0].Y
	maxX, maxY := minX, minY
	for _, v := range args.Vertices[1:] {
		if v.X < minX {
			minX = v.X
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	n.fill(minX, minY, maxX+1, maxY+1, args.Vertices[0].Color, args.Clip)
	w := maxX + 1 - minX
	h := maxY + 1 - minY
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Stats{Pixels: uint32(w) * uint32(h), Scanlines: uint32(h)}
}

func (n *Null) fill(x0, y0, x1, y1 int32, color uint32, clip ClipRect) {
	if clip.X1 > clip.X0 {
		if x0 < clip.X0 {
			x0 = clip.X0
		}
		if x1 > clip.X1+1 {
			x1 = clip.X1 + 1
		}
		if y0 < clip.Y0 {
			y0 = clip.Y0
		}
		if y1 > clip.Y1+1 {
			y1 = clip.Y1 + 1
		}
	}

	c := bgr555(color)
	for y := y0; y < y1; y++ {
		if y < 0 || y >= 512 {
			continue
		}
		for x := x0; x < x1; x++ {
			if x < 0 || x >= 1024 {
				continue
			}
			n.vram[int(y)*1024+int(x)] = c
		}
	}
}

// Pixel returns the current contents of a VRAM cell, for tests.
func (n *Null) Pixel(x, y int32) uint16 {
	return n.vram[int(y)*1024+int(x)]
}

// SetPixel writes a VRAM cell directly, for tests. (The GPU's CPU->VRAM
// transfer path writes the slice returned by Lock instead.)
func (n *Null) SetPixel(x, y int32, v uint16) {
	n.vram[int(y)*1024+int(x)] = v
}

func bgr555(c uint32) uint16 {
	r := uint16(c&0xFF) >> 3
	g := uint16((c>>8)&0xFF) >> 3
	b := uint16((c>>16)&0xFF) >> 3
	return r | g<<5 | b<<10
}
