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

// Package modalflag is a thin wrapper over the standard flag package that
// adds a notion of sub-modes (e.g. "run" vs "debug") to a single command
// line, with its own -help formatting.
package modalflag

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"strings"
)

// ParseResult is returned by Modes.Parse to tell the caller whether to
// continue as normal or whether help was requested (and already printed).
type ParseResult int

// The two possible outcomes of Parse.
const (
	ParseContinue ParseResult = iota
	ParseHelp
)

// Modes parses a command line that may optionally select one of a fixed set
// of sub-modes after any flags.
type Modes struct {
	// Output receives help text. Required.
	Output io.Writer

	args      []string
	fs        *flag.FlagSet
	modes     []string
	mode      string
	remaining []string
}

func (md *Modes) ensure() {
	if md.fs == nil {
		md.fs = flag.NewFlagSet("", flag.ContinueOnError)
		md.fs.SetOutput(io.Discard)
	}
}

// NewArgs resets the argument list to be parsed (normally os.Args[1:]).
func (md *Modes) NewArgs(args []string) {
	md.args = args
	md.mode = ""
	md.remaining = nil
}

// AddBool registers a boolean flag and returns a pointer to its value,
// exactly like flag.Bool.
func (md *Modes) AddBool(name string, value bool, usage string) *bool {
	md.ensure()
	return md.fs.Bool(name, value, usage)
}

// AddString registers a string flag and returns a pointer to its value,
// exactly like flag.String.
func (md *Modes) AddString(name string, value string, usage string) *string {
	md.ensure()
	return md.fs.String(name, value, usage)
}

// AddSubModes declares the set of valid sub-modes. The first is the default
// used when none is given on the command line.
func (md *Modes) AddSubModes(modes ...string) {
	md.modes = modes
}

// Mode returns the sub-mode selected by the last Parse call, or "" if none
// was selected (no modes registered, or Parse not yet called).
func (md *Modes) Mode() string {
	return md.mode
}

// Path returns the full dotted path of sub-modes selected so far. This
// implementation only supports a single level, so it is equivalent to
// Mode(), but is kept distinct so that a future nested-mode implementation
// has somewhere to put intermediate path segments.
func (md *Modes) Path() string {
	return md.mode
}

// RemainingArgs returns whatever was left over after flags and (if present)
// a matched sub-mode were consumed.
func (md *Modes) RemainingArgs() []string {
	if md.remaining != nil {
		return md.remaining
	}
	md.ensure()
	return md.fs.Args()
}

// Parse processes the arguments supplied to NewArgs.
func (md *Modes) Parse() (ParseResult, error) {
	md.ensure()

	for _, a := range md.args {
		if a == "-help" || a == "--help" || a == "-h" {
			md.printHelp()
			return ParseHelp, nil
		}
	}

	if err := md.fs.Parse(md.args); err != nil {
		return ParseContinue, err
	}

	rem := md.fs.Args()

	if len(md.modes) > 0 {
		if len(rem) > 0 {
			for _, m := range md.modes {
				if m == rem[0] {
					md.mode = m
					md.remaining = rem[1:]
					break
				}
			}
		}
		if md.mode == "" {
			md.mode = md.modes[0]
			md.remaining = rem
		}
	} else {
		md.remaining = rem
	}

	return ParseContinue, nil
}

func (md *Modes) printHelp() {
	hasFlags := false
	md.fs.VisitAll(func(*flag.Flag) { hasFlags = true })

	if !hasFlags && len(md.modes) == 0 {
		fmt.Fprint(md.Output, "No help available\n")
		return
	}

	fmt.Fprint(md.Output, "Usage:\n")

	if hasFlags {
		var buf bytes.Buffer
		md.fs.SetOutput(&buf)
		md.fs.PrintDefaults()
		md.fs.SetOutput(io.Discard)
		fmt.Fprint(md.Output, buf.String())
	}

	if len(md.modes) > 0 {
		if hasFlags {
			fmt.Fprint(md.Output, "\n")
		}
		fmt.Fprintf(md.Output, "  available sub-modes: %s\n", strings.Join(md.modes, ", "))
		fmt.Fprintf(md.Output, "    default: %s\n", md.modes[0])
	}
}
