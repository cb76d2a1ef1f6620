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

// Package term wraps github.com/pkg/term/termios with the small set of mode
// switches the debugger REPL needs: canonical mode for ordinary line
// editing, cbreak mode for single-keystroke stepping.
package term

import (
	"bufio"
	"fmt"
	"os"
	"syscall"

	"github.com/pkg/term/termios"
)

// Terminal owns the original and working termios attributes for stdin, so
// CBreakMode/CanonicalMode can always get back to a known-good state.
type Terminal struct {
	in  *os.File
	out *os.File

	canonAttr  syscall.Termios
	cbreakAttr syscall.Termios

	reader *bufio.Reader
}

// Open captures the current terminal attributes for f and derives the
// cbreak-mode attribute set from them. f is normally os.Stdin.
func Open(f *os.File) (*Terminal, error) {
	t := &Terminal{in: f, out: os.Stdout, reader: bufio.NewReader(f)}
	if err := termios.Tcgetattr(f.Fd(), &t.canonAttr); err != nil {
		return nil, fmt.Errorf("term: reading attributes: %w", err)
	}
	t.cbreakAttr = t.canonAttr
	termios.Cfmakecbreak(&t.cbreakAttr)
	return t, nil
}

// CanonicalMode restores line-buffered, echoed input, used while reading a
// whole command line.
func (t *Terminal) CanonicalMode() error {
	return termios.Tcsetattr(t.in.Fd(), termios.TCIFLUSH, &t.canonAttr)
}

// CBreakMode switches to unbuffered single-keystroke input, used while
// single-stepping with a bare key press instead of a typed command.
func (t *Terminal) CBreakMode() error {
	return termios.Tcsetattr(t.in.Fd(), termios.TCIFLUSH, &t.cbreakAttr)
}

// ReadLine blocks for one newline-terminated line of input.
func (t *Terminal) ReadLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return line, nil
}

// ReadKey blocks for exactly one byte of input; call CBreakMode first.
func (t *Terminal) ReadKey() (byte, error) {
	b := make([]byte, 1)
	if _, err := t.in.Read(b); err != nil {
		return 0, err
	}
	return b[0], nil
}

// Printf writes directly to the terminal's output file.
func (t *Terminal) Printf(format string, a ...interface{}) {
	fmt.Fprintf(t.out, format, a...)
}
