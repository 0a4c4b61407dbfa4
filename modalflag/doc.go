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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It handles program modes and allows a different set of flags for
// each mode.
//
// Arguments are given to the Modes type with NewArgs() and then parsed with
// Parse(), which takes no arguments. This allows the same argument list to be
// parsed in stages: first to find the mode and then again for the flags of
// that mode. For example (error handling removed for clarity):
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("FLOOD", "SIZE")
//	_, _ = md.Parse()
//
//	switch md.Mode() {
//	case "FLOOD":
//		md.NewMode()
//		server := md.AddString("server", "localhost", "address of canvas server")
//		_, _ = md.Parse()
//		flood(*server, md.RemainingArgs())
//	case "SIZE":
//		...
//	}
//
// The first sub-mode is the default mode. If the first argument is not one of
// the sub-modes, or if it is a flag that is not recognised at the top level,
// then the default mode is selected and no argument is consumed. In the
// example above, the following command lines are equivalent:
//
//	vidflood -server example.com video.mp4
//	vidflood flood -server example.com video.mp4
//
// Sub-mode comparisons are case insensitive.
//
// Help is requested with -help or -h and is written to the Output field.
// Parse() returns ParseHelp if help has been written.
//
// Flags can be tested with IsSet() to see if they were specified on the
// command line, as opposed to having taken their default value.
package modalflag
