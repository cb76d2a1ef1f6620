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

package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/adriapsx/psxcore/debugger"
	"github.com/adriapsx/psxcore/errors"
	"github.com/adriapsx/psxcore/hardware/instance"
	"github.com/adriapsx/psxcore/logger"
	"github.com/adriapsx/psxcore/modalflag"
	"github.com/adriapsx/psxcore/system"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	md := modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.AddSubModes("run", "debug")

	biosPath := md.AddString("bios", "", "path to a PSX BIOS image (exactly 512KiB)")
	pal := md.AddBool("pal", false, "run in PAL timing instead of NTSC")
	traceCPU := md.AddBool("tracecpu", false, "log one line per dispatched CPU instruction")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	}
	if err != nil {
		return err
	}

	if *biosPath == "" {
		return errors.Errorf("missing -bios: a PSX BIOS image is required to boot")
	}
	img, err := os.ReadFile(*biosPath)
	if err != nil {
		return errors.Errorf(errors.BIOSLoadError, err)
	}

	cfg := instance.NewConfig()
	if *pal {
		cfg.TVMode = instance.PAL
	}
	cfg.TraceCPU = *traceCPU

	sys := system.New(cfg, nil, nil)
	if err := sys.LoadBIOS(img); err != nil {
		return err
	}

	switch md.Mode() {
	case "debug":
		return runDebug(sys)
	default:
		return runHeadless(sys)
	}
}

// runHeadless drives the scheduler in large slices until interrupted, with
// no terminal interaction: the mode a script or CI job would use to boot a
// BIOS and let it run.
func runHeadless(sys *system.System) error {
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt)

	const sliceCycles = 1_000_000
	for {
		select {
		case <-sigint:
			logger.Log("main", "interrupted, stopping")
			return nil
		default:
			sys.Scheduler.Iter(sliceCycles)
		}
	}
}

func runDebug(sys *system.System) error {
	dbg, err := debugger.New(sys)
	if err != nil {
		return err
	}
	return dbg.Run()
}
