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

// Package gte defines the boundary the CPU's COP2 dispatch crosses into the
// Geometry Transformation Engine. Its numeric kernels are deliberately out
// of scope; only the shape of the collaboration is defined here.
package gte

// Engine is the capability the CPU's COP2 instructions (LWC2/SWC2/MFC2/
// MTC2/CTC2/COP2 command) dispatch to. It owns its own 32+32 data/control
// register file; the CPU never reaches into it directly.
type Engine interface {
	// ReadData and WriteData access the 32 data registers (cop2 dr).
	ReadData(reg uint32) uint32
	WriteData(reg uint32, value uint32)

	// ReadControl and WriteControl access the 32 control registers (cop2 cr).
	ReadControl(reg uint32) uint32
	WriteControl(reg uint32, value uint32)

	// Execute runs the command encoded in the low 25 bits of a COP2
	// instruction word and returns the number of CPU cycles it cost, which
	// the CPU adds on top of its own two-cycle baseline.
	Execute(cmd uint32) uint32
}

// Null is a zero-cost Engine that satisfies the interface without
// performing any geometry transformation; it lets the CPU and bus be
// exercised and tested independently of a real GTE implementation.
type Null struct {
	data    [32]uint32
	control [32]uint32
}

// ReadData implements Engine.
func (n *Null) ReadData(reg uint32) uint32 {
	return n.data[reg&31]
}

// WriteData implements Engine.
func (n *Null) WriteData(reg uint32, value uint32) {
	n.data[reg&31] = value
}

// ReadControl implements Engine.
func (n *Null) ReadControl(reg uint32) uint32 {
	return n.control[reg&31]
}

// WriteControl implements Engine.
func (n *Null) WriteControl(reg uint32, value uint32) {
	n.control[reg&31] = value
}

// Execute implements Engine. It performs no transformation and reports a
// flat minimum cost.
func (n *Null) Execute(cmd uint32) uint32 {
	return 8
}
