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

package paths_test

import (
	"testing"

	"github.com/adriapsx/psxcore/paths"
	"github.com/adriapsx/psxcore/test"
)

func TestPaths(t *testing.T) {
	pth, err := paths.ResourcePath("foo/bar", "baz")
	test.Equate(t, err, nil)
	test.Equate(t, pth, ".psxcore/foo/bar/baz")

	pth, err = paths.ResourcePath("foo/bar", "")
	test.Equate(t, err, nil)
	test.Equate(t, pth, ".psxcore/foo/bar")

	pth, err = paths.ResourcePath("", "baz")
	test.Equate(t, err, nil)
	test.Equate(t, pth, ".psxcore/baz")

	pth, err = paths.ResourcePath("", "")
	test.Equate(t, err, nil)
	test.Equate(t, pth, ".psxcore")
}
