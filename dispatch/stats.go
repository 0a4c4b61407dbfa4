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

package dispatch

import "fmt"

// Stats is the result of a single draw cycle.
type Stats struct {
	// number of failed writes over all links
	Errors int

	// number of pixels written over all links
	Pixels int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d pixels, %d errors", s.Pixels, s.Errors)
}

// Sink receives the Stats of every draw cycle. Record() must not block.
type Sink interface {
	Record(Stats)
}
