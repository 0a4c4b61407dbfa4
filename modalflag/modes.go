// This file is part of Vidflood.
//
// Vidflood is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Vidflood is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Vidflood.  If not, see <https://www.gnu.org/licenses/>.

package modalflag

import (
	"errors"
	"flag"
	"io"
	"strings"
)

const modeSeparator = "/"

// Modes handles command line arguments. The Output field should be specified
// before calling Parse() or help messages will not be seen.
type Modes struct {
	// where to print help messages
	Output io.Writer

	// whether Parse() has been called since the most recent call to NewArgs()
	// or NewMode()
	parsed bool

	// a new flagset is created for each mode
	flags *flag.FlagSet

	// the argument list given to NewArgs() and the index of the first argument
	// not yet consumed by a mode selection
	args    []string
	argsIdx int

	// the sub-modes for the next call to Parse(). the first entry is the
	// default sub-mode
	subModes []string

	// the modes selected by each call to Parse(). never reset
	path []string

	// text displayed after the flag information in help messages
	additionalHelp string
}

func (md *Modes) String() string {
	return md.Path()
}

// Mode returns the most recently selected mode.
func (md *Modes) Mode() string {
	if len(md.path) == 0 {
		return ""
	}
	return md.path[len(md.path)-1]
}

// Path returns every mode selected so far, separated by a slash.
func (md *Modes) Path() string {
	return strings.Join(md.path, modeSeparator)
}

// NewArgs sets the argument list (from the command line for example) and
// begins a new mode.
func (md *Modes) NewArgs(args []string) {
	md.args = args
	md.argsIdx = 0
	md.NewMode()
}

// NewMode indicates that further arguments should be considered part of a new
// mode. Flags and sub-modes added previously are forgotten.
func (md *Modes) NewMode() {
	md.subModes = nil
	md.flags = flag.NewFlagSet("", flag.ContinueOnError)
	md.parsed = false
	md.additionalHelp = ""
}

// AdditionalHelp adds text to be displayed after the flag information in help
// messages for the current mode.
func (md *Modes) AdditionalHelp(help string) {
	md.additionalHelp = help
}

// Parsed returns true if Parse() has been called since the most recent call to
// NewArgs() or NewMode(). Parse() counts as having been called even if it
// returned an error.
func (md *Modes) Parsed() bool {
	return md.parsed
}

// AddSubModes to the list of sub-modes for the next call to Parse(). The
// first sub-mode added is the default sub-mode.
func (md *Modes) AddSubModes(subModes ...string) {
	for _, m := range subModes {
		md.subModes = append(md.subModes, strings.ToUpper(m))
	}
}

// AddDefaultSubMode puts the sub-mode at the front of the list of sub-modes so
// that it becomes the default.
func (md *Modes) AddDefaultSubMode(defSubMode string) {
	md.subModes = append([]string{strings.ToUpper(defSubMode)}, md.subModes...)
}

// ParseResult is returned from the Parse() function.
type ParseResult int

// List of valid ParseResult values.
const (
	// Continue with command line processing. If sub-modes were added then
	// Mode() returns the selected mode.
	ParseContinue ParseResult = iota

	// Help was requested and has been written to Output.
	ParseHelp

	// The arguments could not be parsed. The error is returned as the second
	// return value.
	ParseError
)

// Parse the arguments not yet consumed, using the flags and sub-modes added
// since NewMode(). The idiomatic usage is:
//
//	r, err := md.Parse()
//	switch r {
//	case modalflag.ParseHelp:
//		return nil
//	case modalflag.ParseError:
//		return err
//	}
func (md *Modes) Parse() (ParseResult, error) {
	md.parsed = true

	hw := &helpWriter{}
	md.flags.SetOutput(hw)

	err := md.flags.Parse(md.args[md.argsIdx:])
	if errors.Is(err, flag.ErrHelp) {
		hw.help(md.Output, md.Path(), md.subModes, md.additionalHelp)
		return ParseHelp, nil
	}

	if len(md.subModes) == 0 {
		if err != nil {
			return ParseError, err
		}
		return ParseContinue, nil
	}

	// a flag that is not recognised at this level is taken to belong to the
	// default sub-mode. none of the arguments are consumed
	if err != nil {
		md.path = append(md.path, md.subModes[0])
		return ParseContinue, nil
	}

	md.path = append(md.path, md.selectSubMode())

	return ParseContinue, nil
}

// selectSubMode returns the sub-mode named by the first remaining argument,
// consuming the argument. the default sub-mode is returned if the argument is
// not a sub-mode
func (md *Modes) selectSubMode() string {
	arg := strings.ToUpper(md.flags.Arg(0))
	for _, m := range md.subModes {
		if m == arg {
			md.argsIdx = len(md.args) - md.flags.NArg() + 1
			return m
		}
	}
	return md.subModes[0]
}

// RemainingArgs after a call to Parse(). These are the arguments that are not
// flags or a selected sub-mode.
func (md *Modes) RemainingArgs() []string {
	return md.flags.Args()
}

// GetArg returns the numbered remaining argument. Returns the empty string if
// there is no such argument.
func (md *Modes) GetArg(i int) string {
	return md.flags.Arg(i)
}
