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

package filter

import (
	"fmt"
	"math/rand/v2"

	"github.com/vidflood/vidflood/config"
	"github.com/vidflood/vidflood/pixel"
	"github.com/vidflood/vidflood/random"
)

// row offsets are drawn from the preset and multiplied by the glitch factor.
// most rows are not shifted at all
var glitchPreset = [...]int{-3, -2, -1, 0, 0, 0, 0, 1, 2, 3}

// the seed changes once every glitchPeriod frames. the glitch pattern is the
// same for every frame in the period
const glitchPeriod = 4

// Glitch shifts rows of pixels horizontally by a pseudo-random amount.
type Glitch struct {
	factor  int
	canvasW int

	seed  uint64
	index uint64

	// generator for the current call to Transform()
	rng *rand.Rand
}

// NewGlitch is the preferred method of initialisation for the Glitch type.
// The factor must be one or more. Glitches created with the same seed
// produce the same pattern.
func NewGlitch(cfg config.Config, factor int, seed uint64) (*Glitch, error) {
	if factor < 1 {
		return nil, fmt.Errorf("glitch: %w: factor must be one or more (%d)", ErrInvalidOption, factor)
	}
	return &Glitch{
		factor:  factor,
		canvasW: int(cfg.CanvasWidth),
		seed:    seed,
	}, nil
}

func (g *Glitch) String() string {
	return fmt.Sprintf("glitch factor=%d", g.factor)
}

// offset draws a new row offset
func (g *Glitch) offset() int {
	return glitchPreset[int(g.rng.Uint32()&0xff)%len(glitchPreset)] * g.factor
}

// Transform implements the Filter interface.
func (g *Glitch) Transform(buf pixel.Buffer, restore *pixel.Buffer) {
	if g.index%glitchPeriod == 0 {
		g.seed++
	}
	g.index++
	g.rng = random.Seeded(g.seed)

	var lastY uint32
	offset := g.offset()

	for i := range buf {
		px := &buf[i]

		if px.Y > lastY {
			lastY = px.Y
			if g.rng.Float64() < 1.0/float64(g.factor) {
				offset = g.offset()
			}
		}

		// pixels that would be shifted off the canvas are left where they are
		x := int(px.X) + offset
		if x < 0 || x >= g.canvasW {
			continue
		}
		px.X = uint32(x)

		if restore == nil {
			continue
		}

		if offset < 0 && px.Edges.Has(pixel.Left) {
			erase(restore, px.X, px.Y, 1, 0, -offset)
		} else if offset > 0 && px.Edges.Has(pixel.Right) {
			erase(restore, px.X, px.Y, -1, 0, offset)
		}
	}
}
