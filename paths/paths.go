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

// Package paths resolves file locations for BIOS images, memory cards,
// scripts and other resources that live alongside the emulator rather than
// inside it, all rooted under a single dotfile-style directory.
package paths

import "path/filepath"

// baseDir is the directory name all resource paths are rooted under.
const baseDir = ".psxcore"

// ResourcePath joins subDir and name onto the base resource directory,
// omitting either component if empty.
func ResourcePath(subDir string, name string) (string, error) {
	p := baseDir
	if subDir != "" {
		p = filepath.Join(p, subDir)
	}
	if name != "" {
		p = filepath.Join(p, name)
	}
	return p, nil
}
