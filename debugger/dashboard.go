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
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// startDashboard serves a live runtime/GC/goroutine dashboard over HTTP at
// addr, for attaching a browser during a long-running headless session.
// It runs the viewer's own goroutine and returns immediately.
func startDashboard(addr string) {
	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()
	go func() {
		_ = mgr.Start()
	}()
}
