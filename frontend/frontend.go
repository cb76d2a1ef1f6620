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

// Package frontend defines the host collaborator boundary: diagnostics,
// cooperative stop/reset signalling, audio sink and controller input. The
// host frontend itself (window, audio device, input polling) is out of
// scope.
package frontend

import "github.com/adriapsx/psxcore/logger"

// ControllerState is the button bitmap for one digital pad, bit-compatible
// with the PSX's own SELECT/L3/R3/START/UP/RIGHT/DOWN/LEFT/L2/R2/L1/R1/
// TRIANGLE/CIRCLE/CROSS/SQUARE ordering (active-low on real hardware; here
// a set bit means pressed).
type ControllerState uint16

// Frontend is the capability the core calls out to.
type Frontend interface {
	Warning(format string, args ...interface{})
	CheckSignals() (stop bool, reset bool)
	PlaySound(samples [512]int16)
	ControllerState(joyID int) ControllerState

	// TraceMemory, TraceInstruction, TraceCommand and TraceInterrupt are
	// optional trace callbacks; a Frontend that does not care about one
	// simply ignores the call.
	TraceMemory(addr uint32, write bool, value uint32)
	TraceInstruction(pc uint32, word uint32)
	TraceCommand(subsystem string, cmd uint32)
	TraceInterrupt(source int, raised bool)
}

// Logging is a default Frontend that routes Warning and the trace
// callbacks through the logger package and never signals stop or reset
// unless told to externally via Stop/RequestReset.
type Logging struct {
	Traces bool

	stop  bool
	reset bool
}

// NewLogging returns a ready-to-use Logging frontend.
func NewLogging() *Logging {
	return &Logging{}
}

// Warning implements Frontend.
func (l *Logging) Warning(format string, args ...interface{}) {
	logger.Logf("frontend", format, args...)
}

// Stop requests that the next CheckSignals call report stop.
func (l *Logging) Stop() {
	l.stop = true
}

// RequestReset requests that the next CheckSignals call report reset.
func (l *Logging) RequestReset() {
	l.reset = true
}

// CheckSignals implements Frontend, consuming any pending stop/reset
// request.
func (l *Logging) CheckSignals() (bool, bool) {
	stop, reset := l.stop, l.reset
	l.stop = false
	l.reset = false
	return stop, reset
}

// PlaySound implements Frontend; SPU synthesis is out of scope, so sample
// buffers are discarded.
func (l *Logging) PlaySound(samples [512]int16) {}

// ControllerState implements Frontend, always reporting no buttons
// pressed; the controller serial protocol is out of scope, this only
// satisfies callers that poll it.
func (l *Logging) ControllerState(joyID int) ControllerState {
	return 0
}

// TraceMemory implements Frontend.
func (l *Logging) TraceMemory(addr uint32, write bool, value uint32) {
	if !l.Traces {
		return
	}
	logger.Logf("mem", "addr=%08x write=%v value=%08x", addr, write, value)
}

// TraceInstruction implements Frontend.
func (l *Logging) TraceInstruction(pc uint32, word uint32) {
	if !l.Traces {
		return
	}
	logger.Logf("cpu", "pc=%08x word=%08x", pc, word)
}

// TraceCommand implements Frontend.
func (l *Logging) TraceCommand(subsystem string, cmd uint32) {
	if !l.Traces {
		return
	}
	logger.Logf(subsystem, "cmd=%08x", cmd)
}

// TraceInterrupt implements Frontend.
func (l *Logging) TraceInterrupt(source int, raised bool) {
	if !l.Traces {
		return
	}
	logger.Logf("int", "source=%d raised=%v", source, raised)
}
