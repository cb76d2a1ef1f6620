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

// Package system composes the bus, CPU, GPU, DMA controller, interrupt
// aggregator, timers and scheduler into one runnable console, the way
// hardware/instance.Instance ties together an individual run's mutable
// state without itself being the console.
package system

import (
	"github.com/adriapsx/psxcore/frontend"
	"github.com/adriapsx/psxcore/hardware/cpu"
	"github.com/adriapsx/psxcore/hardware/dma"
	"github.com/adriapsx/psxcore/hardware/gpu"
	"github.com/adriapsx/psxcore/hardware/gte"
	"github.com/adriapsx/psxcore/hardware/instance"
	"github.com/adriapsx/psxcore/hardware/interrupts"
	"github.com/adriapsx/psxcore/hardware/memory"
	"github.com/adriapsx/psxcore/hardware/timer"
	"github.com/adriapsx/psxcore/renderer"
	"github.com/adriapsx/psxcore/scheduler"
)

// MMIO sub-window offsets, relative to memorymap.MMIOBase.
const (
	interruptsOffset = 0x70
	interruptsSize   = 0x08
	dmaOffset        = 0x80
	dmaSize          = 0x80
	timersOffset     = 0x100
	timersSize       = 0x30
	gpuOffset        = 0x810
	gpuSize          = 0x08
)

// System is a fully wired PSX console: CPU, bus, GPU, DMA, interrupts and
// timers, plus the Renderer/Frontend collaborators it was built with.
type System struct {
	Instance   *instance.Instance
	Bus        *memory.Bus
	CPU        *cpu.CPU
	GPU        *gpu.GPU
	DMA        *dma.Controller
	Timers     *timer.Timers
	Interrupts *interrupts.Controller
	Scheduler  *scheduler.Scheduler

	Renderer renderer.Renderer
	Frontend frontend.Frontend
}

// New wires a complete System. r and fe are the Renderer/Frontend
// collaborators; a nil r is replaced with renderer.Null and a nil fe with
// the logger-backed frontend.Logging, matching instance.NewConfig's
// "nil means sensible defaults" convention.
func New(cfg *instance.Config, r renderer.Renderer, fe frontend.Frontend) *System {
	if r == nil {
		r = renderer.NewNull()
	}
	if fe == nil {
		fe = frontend.NewLogging()
	}

	ins := instance.NewInstance(cfg)

	ic := interrupts.NewController()
	ts := timer.NewTimers(ic)
	gpuDev := gpu.NewGPU(r, ic, ts)
	gpuDev.SetPAL(cfg != nil && cfg.TVMode == instance.PAL)
	gpuDev.Trace = cfg != nil && cfg.TraceGPU

	b := memory.NewBus()

	// Channel peers: only the GPU (channel 2) has a real device behind it
	// in this build. MDEC/CD-ROM/SPU/PIO are out of scope and their DMA
	// channels read all-ones / discard writes, matching
	// dma.NullPeer.
	peers := [6]dma.Peer{
		dma.MDECIn:  dma.NullPeer{},
		dma.MDECOut: dma.NullPeer{},
		dma.GPU:     gpuDev,
		dma.CDROM:   dma.NullPeer{},
		dma.SPU:     dma.NullPeer{},
		dma.PIO:     dma.NullPeer{},
	}
	dmaCtrl := dma.NewController(b, ic, peers)
	dmaCtrl.Trace = cfg != nil && cfg.TraceDMA

	b.Register(interruptsOffset, interruptsSize, ic)
	b.Register(dmaOffset, dmaSize, dmaCtrl)
	b.Register(timersOffset, timersSize, ts)
	b.Register(gpuOffset, gpuSize, gpuDev)

	c := cpu.NewCPU(b, &gte.Null{})
	c.Trace = cfg != nil && cfg.TraceCPU

	sched := scheduler.New(ins, c, gpuDev, ts, ic)

	return &System{
		Instance:   ins,
		Bus:        b,
		CPU:        c,
		GPU:        gpuDev,
		DMA:        dmaCtrl,
		Timers:     ts,
		Interrupts: ic,
		Scheduler:  sched,
		Renderer:   r,
		Frontend:   fe,
	}
}

// LoadBIOS installs the BIOS image and resets the CPU to its entry point.
func (s *System) LoadBIOS(img []byte) error {
	if err := s.Bus.LoadBIOS(img); err != nil {
		return err
	}
	s.Scheduler.Reset()
	return nil
}
