package delay_test

import (
	"testing"

	"github.com/adriapsx/psxcore/hardware/delay"
	"github.com/adriapsx/psxcore/test"
)

func TestSlot_lifecycle(t *testing.T) {
	var s delay.Slot
	test.ExpectSuccess(t, s.Empty())

	s.Schedule(0xdeadbeef, false)
	test.Equate(t, s.State(), delay.Waiting)

	// committing while still Waiting does nothing
	_, ok := s.Commit()
	test.ExpectFailure(t, ok)

	s.Advance()
	test.Equate(t, s.State(), delay.Ready)

	v, ok := s.Commit()
	test.ExpectSuccess(t, ok)
	test.Equate(t, v, uint32(0xdeadbeef))
	test.ExpectSuccess(t, s.Empty())
}

func TestBank_registerZeroDropped(t *testing.T) {
	b := delay.NewBank(32)

	// simulate the CPU's register-0 invariant: the interpreter simply never
	// calls Schedule(0, ...). confirm the bank stays quiescent either way.
	test.Equate(t, b.Pending(), 0)
}

func TestBank_scheduleAdvanceDrain(t *testing.T) {
	b := delay.NewBank(32)

	b.Schedule(8, 0x100, false)
	b.Schedule(9, 0x200, false)
	test.Equate(t, b.Pending(), 2)

	// a commit attempted before AdvanceAll should see nothing ready
	committed := map[int]uint32{}
	b.DrainReady(func(reg int, v uint32) { committed[reg] = v })
	test.Equate(t, len(committed), 0)

	b.AdvanceAll()
	b.DrainReady(func(reg int, v uint32) { committed[reg] = v })

	test.Equate(t, committed[8], uint32(0x100))
	test.Equate(t, committed[9], uint32(0x200))
	test.Equate(t, b.Pending(), 0)
}

func TestBank_rescheduleOverwrites(t *testing.T) {
	b := delay.NewBank(32)

	b.Schedule(4, 0x1, false)
	b.Schedule(4, 0x2, false)
	test.Equate(t, b.Pending(), 1)

	b.AdvanceAll()

	var got uint32
	b.DrainReady(func(reg int, v uint32) { got = v })
	test.Equate(t, got, uint32(0x2))
}

func TestBank_unalignedMerge(t *testing.T) {
	// An ordinary pending load is not tagged Unaligned, so LWL/LWR do not
	// merge against it; its value is still readable through Slot.
	b := delay.NewBank(32)
	b.Schedule(5, 0xaabbccdd, false)

	s := b.Slot(5)
	test.ExpectFailure(t, s.Unaligned)
	test.Equate(t, s.Value(), uint32(0xaabbccdd))
}

func TestBank_clear(t *testing.T) {
	b := delay.NewBank(32)
	b.Schedule(1, 1, false)
	b.Schedule(2, 2, false)
	b.Clear()
	test.Equate(t, b.Pending(), 0)
	test.ExpectSuccess(t, b.Slot(1).Empty())
}
