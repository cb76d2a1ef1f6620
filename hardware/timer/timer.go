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

// Package timer implements the three PSX hardware counters and their
// HBlank/VBlank/dotclock sync modes.
package timer

import (
	"github.com/adriapsx/psxcore/errors"
	"github.com/adriapsx/psxcore/hardware/interrupts"
	"github.com/adriapsx/psxcore/logger"
)

// SyncMode is one of the four blank-sync behaviours a timer can have when
// its sync-enable bit is set.
type SyncMode uint8

// The four sync modes, identical in meaning across all three timers though
// the "blank" signal they react to differs (HBlank for timer 0, VBlank for
// timer 1, none for timer 2).
const (
	SyncPauseDuringBlank SyncMode = iota
	SyncResetAtBlank
	SyncResetAndPauseOutsideBlank
	SyncPauseUntilBlankThenFree
)

// ClockSource selects between a timer's two possible tick sources. Which
// concrete signal "Alternate" means depends on the timer: dotclock for
// timer 0, one tick per HBlank-in for timer 1, system-clock/8 for timer 2.
type ClockSource uint8

// The two clock source selections.
const (
	ClockSystem ClockSource = iota
	ClockAlternate
)

// Timer is one of the three 16-bit counters.
type Timer struct {
	id     int
	source interrupts.Source

	counter uint16
	target  uint32 // 17-bit: 0x10000 is the 0-written disabled-wrap sentinel

	syncEnabled   bool
	syncMode      SyncMode
	resetOnTarget bool
	irqOnTarget   bool
	irqOnMax      bool
	irqRepeat     bool // false: one-shot, true: repeated
	irqToggle     bool // false: pulse, true: toggle
	clock         ClockSource

	reachedTarget bool
	reachedMax    bool
	irqRequested  bool // internal sense; bit10 on read is the inverse
	irqLatched    bool // one-shot latch, cleared by a mode write

	paused bool
	inFree bool // sync mode 3: has the first blank edge been seen yet
	inBlank bool
}

func newTimer(id int, src interrupts.Source) *Timer {
	return &Timer{id: id, source: src, target: 0x10000}
}

// Counter returns the raw 16-bit counter value.
func (t *Timer) Counter() uint16 {
	return t.counter
}

// SetCounter loads the counter directly (used by the CPU-visible counter
// register write).
func (t *Timer) SetCounter(v uint16) {
	t.counter = v
}

// Target returns the 16-bit target/compare register value: the internal
// 0x10000 disabled-wrap sentinel reads back as 0, same as what was
// written.
func (t *Timer) Target() uint16 {
	return uint16(t.target)
}

// SetTarget loads the target register. Writing 0 arms the sentinel value
// 0x10000 instead, which Tick's comparison against counter (which only
// ever reaches 0xFFFF) can never match, disabling target-match entirely.
func (t *Timer) SetTarget(v uint16) {
	t.target = uint32(v)
	if t.target == 0 {
		t.target = 0x10000
	}
}

// Mode composes the current mode register value and applies the read-clears
// semantics real hardware uses: target_reached and FFFF_reached clear on
// read; bit 10 reports the inverse of the internal IRQ-request sense.
func (t *Timer) Mode() uint16 {
	var v uint16

	if t.syncEnabled {
		v |= 1 << 0
	}
	v |= uint16(t.syncMode) << 1
	if t.resetOnTarget {
		v |= 1 << 3
	}
	if t.irqOnTarget {
		v |= 1 << 4
	}
	if t.irqOnMax {
		v |= 1 << 5
	}
	if t.irqRepeat {
		v |= 1 << 6
	}
	if t.irqToggle {
		v |= 1 << 7
	}
	v |= uint16(t.clock) << 8
	if !t.irqRequested {
		v |= 1 << 10
	}
	if t.reachedTarget {
		v |= 1 << 11
	}
	if t.reachedMax {
		v |= 1 << 12
	}

	t.reachedTarget = false
	t.reachedMax = false

	return v
}

// SetMode writes the mode register. Writing mode always resets the counter
// to zero and re-evaluates the paused state against the current blank
// signal, matching real hardware.
func (t *Timer) SetMode(v uint16) {
	t.syncEnabled = v&(1<<0) != 0
	t.syncMode = SyncMode((v >> 1) & 0x3)
	t.resetOnTarget = v&(1<<3) != 0
	t.irqOnTarget = v&(1<<4) != 0
	t.irqOnMax = v&(1<<5) != 0
	t.irqRepeat = v&(1<<6) != 0
	t.irqToggle = v&(1<<7) != 0
	t.clock = ClockSource((v >> 8) & 0x3)
	if t.clock != ClockSystem && t.clock != ClockAlternate {
		logger.Logf("timer", errors.TimerBadSource, t.clock, t.id)
	}

	t.counter = 0
	t.irqRequested = false
	t.irqLatched = false
	t.inFree = false

	t.applySync()
}

func (t *Timer) applySync() {
	if !t.syncEnabled {
		t.paused = false
		return
	}

	switch t.syncMode {
	case SyncPauseDuringBlank:
		t.paused = t.inBlank
	case SyncResetAtBlank:
		t.paused = false
	case SyncResetAndPauseOutsideBlank:
		t.paused = !t.inBlank
	case SyncPauseUntilBlankThenFree:
		t.paused = !t.inFree
	}
}

// Blank reports a transition of this timer's sync signal (HBlank for timer
// 0, VBlank for timer 1; timer 2 never calls this). entering is true on the
// falling edge into the blank period, false on the rising edge out of it.
func (t *Timer) Blank(entering bool) {
	t.inBlank = entering

	if t.syncEnabled && entering {
		switch t.syncMode {
		case SyncResetAtBlank, SyncResetAndPauseOutsideBlank:
			t.counter = 0
		case SyncPauseUntilBlankThenFree:
			t.inFree = true
		}
	}

	t.applySync()
}

// Tick advances the counter by n ticks of whichever clock source is
// currently selected and in effect (for pulse sources, such as HBlank for
// timer 1, the caller passes n=1 once per pulse rather than a cycle count).
// It returns true if an IRQ pulse should be raised to the interrupt
// controller as a result.
func (t *Timer) Tick(n uint32) bool {
	if t.paused || n == 0 {
		return false
	}

	fire := false

	for i := uint32(0); i < n; i++ {
		if t.counter == 0xFFFF {
			t.counter = 0
			t.reachedMax = true
			if t.irqOnMax {
				if t.request() {
					fire = true
				}
			}
		} else {
			t.counter++
		}

		if uint32(t.counter) == t.target {
			t.reachedTarget = true
			if t.irqOnTarget {
				if t.request() {
					fire = true
				}
			}
			if t.resetOnTarget {
				t.counter = 0
			}
		}
	}

	return fire
}

// request applies the one-shot/repeat latch policy and reports whether a
// new IRQ pulse should actually be delivered this call.
func (t *Timer) request() bool {
	if !t.irqRepeat && t.irqLatched {
		return false
	}
	t.irqLatched = true
	t.irqRequested = true
	return true
}

// Timers owns all three counters and the glue to the interrupt controller.
type Timers struct {
	T       [3]*Timer
	Int     *interrupts.Controller
	dotclockCredit uint32
}

// NewTimers constructs the three counters wired to ic.
func NewTimers(ic *interrupts.Controller) *Timers {
	return &Timers{
		T: [3]*Timer{
			newTimer(0, interrupts.Timer0),
			newTimer(1, interrupts.Timer1),
			newTimer(2, interrupts.Timer2),
		},
		Int: ic,
	}
}

// SystemTick advances timer 0 (when on the system clock), timer 1 (when on
// the system clock) and timer 2 (always, since its "alternate" source is
// system/8) by cpuCycles.
func (ts *Timers) SystemTick(cpuCycles uint32) {
	if ts.T[0].clock == ClockSystem {
		ts.pulse(0, ts.T[0].Tick(cpuCycles))
	}
	if ts.T[1].clock == ClockSystem {
		ts.pulse(1, ts.T[1].Tick(cpuCycles))
	}

	if ts.T[2].clock == ClockAlternate {
		ts.dotclockCredit += cpuCycles
		n := ts.dotclockCredit / 8
		ts.dotclockCredit %= 8
		ts.pulse(2, ts.T[2].Tick(n))
	} else {
		ts.pulse(2, ts.T[2].Tick(cpuCycles))
	}
}

// Dotclock advances timer 0 by n ticks when it is configured for the
// dotclock source. No component calls it: the GPU derives no dot clock, so
// timer 0 on its dotclock source does not advance.
func (ts *Timers) Dotclock(n uint32) {
	if ts.T[0].clock == ClockAlternate {
		ts.pulse(0, ts.T[0].Tick(n))
	}
}

// HBlank signals an HBlank edge to timer 0's sync logic and, when timer 1
// is on its alternate (HBlank-pulse) source, ticks it once.
func (ts *Timers) HBlank(entering bool) {
	ts.T[0].Blank(entering)
	if entering && ts.T[1].clock == ClockAlternate {
		ts.pulse(1, ts.T[1].Tick(1))
	}
}

// VBlank signals a VBlank edge to timer 1's sync logic.
func (ts *Timers) VBlank(entering bool) {
	ts.T[1].Blank(entering)
}

func (ts *Timers) pulse(id int, fire bool) {
	if fire && ts.Int != nil {
		ts.Int.Interruption(ts.T[id].source, true)
		ts.Int.Interruption(ts.T[id].source, false)
	}
}

// CatchUp implements bus.MMIODevice. Timers have no internal lazy-catch-up
// clock domain of their own: they are ticked synchronously by the
// scheduler's SystemTick calls and the GPU's HBlank/VBlank calls.
func (ts *Timers) CatchUp(cc uint64) {}

func (ts *Timers) decode(offset uint32) (idx int, reg uint32, ok bool) {
	if offset > 0x2C {
		return 0, 0, false
	}
	idx = int(offset / 0x10)
	if idx > 2 {
		return 0, 0, false
	}
	reg = (offset % 0x10) / 4
	return idx, reg, reg <= 2
}

// Read32 implements bus.MMIODevice.
func (ts *Timers) Read32(offset uint32) (uint32, bool) {
	idx, reg, ok := ts.decode(offset)
	if !ok {
		return 0, false
	}
	t := ts.T[idx]
	switch reg {
	case 0:
		return uint32(t.Counter()), true
	case 1:
		return uint32(t.Mode()), true
	case 2:
		return uint32(t.Target()), true
	}
	return 0, false
}

// Write32 implements bus.MMIODevice.
func (ts *Timers) Write32(offset uint32, data uint32) bool {
	idx, reg, ok := ts.decode(offset)
	if !ok {
		return false
	}
	t := ts.T[idx]
	switch reg {
	case 0:
		t.SetCounter(uint16(data))
	case 1:
		t.SetMode(uint16(data))
	case 2:
		t.SetTarget(uint16(data))
	default:
		return false
	}
	return true
}

// Read16 narrows Read32.
func (ts *Timers) Read16(offset uint32) (uint16, bool) {
	v, ok := ts.Read32(offset &^ 3)
	return uint16(v), ok
}

// Write16 widens into Write32.
func (ts *Timers) Write16(offset uint32, data uint16) bool {
	return ts.Write32(offset&^3, uint32(data))
}

// Read8 narrows Read32 to a byte lane.
func (ts *Timers) Read8(offset uint32) (uint8, bool) {
	v, ok := ts.Read32(offset &^ 3)
	shift := (offset & 3) * 8
	return uint8(v >> shift), ok
}

// Write8 merges into the addressed byte lane before writing back.
func (ts *Timers) Write8(offset uint32, data uint8, halfVal uint16) bool {
	base := offset &^ 3
	cur, ok := ts.Read32(base)
	if !ok {
		return false
	}
	shift := (offset & 3) * 8
	cur = (cur &^ (0xFF << shift)) | (uint32(data) << shift)
	return ts.Write32(base, cur)
}
