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

package random

import (
	"math/rand/v2"
	"time"
)

// the base seed for all random numbers
var baseSeed uint64

// initialise base seed
func init() {
	baseSeed = uint64(time.Now().UnixNano())
}

// Random is a source of random numbers for the filters.
type Random struct {
	// use zero seed rather than the random base seed. this is only really
	// useful for tests where random numbers must be predictable
	ZeroSeed bool

	rng *rand.Rand
}

// NewRandom is the preferred method of initialisation for the Random type.
func NewRandom() *Random {
	return &Random{}
}

// the generator is created on first use so that the ZeroSeed field can be
// set after NewRandom() has been called
func (rnd *Random) rand() *rand.Rand {
	if rnd.rng == nil {
		if rnd.ZeroSeed {
			rnd.rng = Seeded(0)
		} else {
			rnd.rng = Seeded(baseSeed)
		}
	}
	return rnd.rng
}

// Intn returns a random number in the range 0 to n-1. Panics if n <= 0.
func (rnd *Random) Intn(n int) int {
	return rnd.rand().IntN(n)
}

// Uint64 returns a random 64 bit number.
func (rnd *Random) Uint64() uint64 {
	return rnd.rand().Uint64()
}

// Seeded returns a new generator for the seed. Generators created with the
// same seed produce the same sequence of numbers.
func Seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
