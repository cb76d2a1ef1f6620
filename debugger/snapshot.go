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

package debugger

import (
	"os"

	"github.com/bradleyjkemp/memviz"
)

// snapshotDoc gives memviz one named root value to walk instead of an
// anonymous tuple: the channel table (including DPCR/DICR) and the GP0
// decode state machine, the two pieces of state most likely to explain a
// stuck transfer.
type snapshotDoc struct {
	DMAChannels [7]interface{}
	DPCR, DICR  uint32
	GPUCommand  interface{}
}

// writeSnapshot renders a DOT graph of the DMA channel table and GPU
// command state to path, for post-mortem inspection of a stuck transfer.
func (d *Debugger) writeSnapshot(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	chans, dpcr, dicr := d.sys.DMA.Snapshot()
	doc := snapshotDoc{DPCR: dpcr, DICR: dicr, GPUCommand: d.sys.GPU.Snapshot()}
	for i, c := range chans {
		doc.DMAChannels[i] = c
	}

	memviz.Map(f, &doc)
	return nil
}
