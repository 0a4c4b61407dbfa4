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

// Package random should be used in preference to the math/rand packages when a
// random number is required by a filter.
//
// Random numbers from the Random type are based on a seed that is chosen when
// the program starts. If the same random numbers are required every single
// time then set ZeroSeed to true. This is useful for testing purposes.
//
// The Seeded() function returns a generator for a specific seed. Two
// generators with the same seed will always produce the same sequence. The
// glitch filter depends on this to reproduce the same row offsets for groups
// of frames.
package random
