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

package performance

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"strings"
)

// Profile specifies which profiles should be generated by RunProfiler().
type Profile int

// List of valid Profile values. Values can be combined.
const (
	ProfileNone  Profile = 0
	ProfileCPU   Profile = 0x01
	ProfileMem   Profile = 0x02
	ProfileTrace Profile = 0x04
	ProfileAll   Profile = ProfileCPU | ProfileMem | ProfileTrace
)

func (p Profile) String() string {
	if p == ProfileNone {
		return "none"
	}
	var s []string
	if p&ProfileCPU == ProfileCPU {
		s = append(s, "cpu")
	}
	if p&ProfileMem == ProfileMem {
		s = append(s, "mem")
	}
	if p&ProfileTrace == ProfileTrace {
		s = append(s, "trace")
	}
	return strings.Join(s, ",")
}

// ParseProfile parses a comma separated list of profile names. Valid names
// are cpu, mem, trace, all and none.
func ParseProfile(s string) (Profile, error) {
	var p Profile
	for _, n := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "", "none":
		case "cpu":
			p |= ProfileCPU
		case "mem":
			p |= ProfileMem
		case "trace":
			p |= ProfileTrace
		case "all":
			p |= ProfileAll
		default:
			return ProfileNone, fmt.Errorf("performance: unknown profile %q", n)
		}
	}
	return p, nil
}

// WriteCPUProfile runs the function while writing a CPU profile to the named file.
func WriteCPUProfile(outFile string, run func() error) error {
	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}
	defer f.Close()

	err = pprof.StartCPUProfile(f)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}
	defer pprof.StopCPUProfile()

	return run()
}

// WriteMemProfile writes a heap profile to the named file.
func WriteMemProfile(outFile string) error {
	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}
	defer f.Close()

	runtime.GC()
	err = pprof.WriteHeapProfile(f)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}

	return nil
}

// WriteTrace runs the function while writing an execution trace to the named
// file.
func WriteTrace(outFile string, run func() error) error {
	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}
	defer f.Close()

	err = trace.Start(f)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}
	defer trace.Stop()

	return run()
}

// RunProfiler runs the function while generating the profiles requested. The
// filenames of the profiles begin with filenameHeader. For example,
// "flood.cpu.profile".
//
// The heap profile is written after the function returns. The error returned
// by the function is returned in preference to any profiling error.
func RunProfiler(profile Profile, filenameHeader string, run func() error) error {
	wrap := run

	if profile&ProfileCPU == ProfileCPU {
		inner := wrap
		wrap = func() error {
			return WriteCPUProfile(fmt.Sprintf("%s.cpu.profile", filenameHeader), inner)
		}
	}

	if profile&ProfileTrace == ProfileTrace {
		inner := wrap
		wrap = func() error {
			return WriteTrace(fmt.Sprintf("%s.trace", filenameHeader), inner)
		}
	}

	err := wrap()

	if profile&ProfileMem == ProfileMem {
		memErr := WriteMemProfile(fmt.Sprintf("%s.mem.profile", filenameHeader))
		err = errors.Join(err, memErr)
	}

	return err
}
