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

	"github.com/vidflood/vidflood/config"
	"github.com/vidflood/vidflood/pixel"
	"github.com/vidflood/vidflood/random"
)

// the random part of each velocity component is in the range 0 to
// velocityRange-1. the speed is added to the random part
const velocityRange = 4

// Bounce moves the sprite around the canvas, changing direction whenever the
// sprite reaches the edge of the canvas.
type Bounce struct {
	rnd *random.Random

	// offset of the sprite from its original placement
	baseX int
	baseY int

	// velocity
	vx int
	vy int

	canvasW int
	canvasH int
	area    pixel.Area

	speed int
}

// NewBounce is the preferred method of initialisation for the Bounce type.
// The canvas size and the sprite's area are taken from the configuration.
func NewBounce(cfg config.Config, speed int, rnd *random.Random) *Bounce {
	b := &Bounce{
		rnd:     rnd,
		canvasW: int(cfg.CanvasWidth),
		canvasH: int(cfg.CanvasHeight),
		area:    cfg.Area,
		speed:   speed,
	}
	b.vx = b.rnd.Intn(velocityRange) + speed
	b.vy = b.rnd.Intn(velocityRange) + speed
	return b
}

func (b *Bounce) String() string {
	return fmt.Sprintf("bounce speed=%d offset=(%d,%d) velocity=(%d,%d)", b.speed, b.baseX, b.baseY, b.vx, b.vy)
}

// Offset returns the current offset of the sprite from its original placement.
func (b *Bounce) Offset() (int, int) {
	return b.baseX, b.baseY
}

// clamp the position on one axis so that the sprite stays inside the canvas.
// a sprite that does not fit is pinned to the near edge. returns true if the
// sprite touched the edge of the canvas
func clamp(base *int, origin uint32, size uint32, extent int) bool {
	if int(size) >= extent || *base+int(origin) < 0 {
		*base = -int(origin)
		return true
	}
	if *base+int(origin)+int(size) > extent {
		*base = extent - int(size) - int(origin)
		return true
	}
	return false
}

// Transform implements the Filter interface.
func (b *Bounce) Transform(buf pixel.Buffer, restore *pixel.Buffer) {
	b.baseX += b.vx
	b.baseY += b.vy

	bounceX := clamp(&b.baseX, b.area.OriginX, b.area.SizeX, b.canvasW)
	bounceY := clamp(&b.baseY, b.area.OriginY, b.area.SizeY, b.canvasH)

	size := velocityRange + b.speed

	for i := range buf {
		px := &buf[i]
		px.X = uint32(int(px.X) + b.baseX)
		px.Y = uint32(int(px.Y) + b.baseY)

		if restore == nil || size <= 0 {
			continue
		}

		if (b.vx < 0 || bounceX) && px.Edges.Has(pixel.Right) {
			erase(restore, px.X, px.Y, -1, 0, size)
		} else if (b.vx > 0 || bounceX) && px.Edges.Has(pixel.Left) {
			erase(restore, px.X, px.Y, 1, 0, size)
		}

		if (b.vy < 0 || bounceY) && px.Edges.Has(pixel.Bottom) {
			erase(restore, px.X, px.Y, 0, -1, size)
		} else if (b.vy > 0 || bounceY) && px.Edges.Has(pixel.Top) {
			erase(restore, px.X, px.Y, 0, 1, size)
		}
	}

	switch {
	case bounceX && bounceY:
		b.vx = b.changeDirection(b.vx, true)
		b.vy = b.changeDirection(b.vy, true)
	case bounceX:
		b.vx = b.changeDirection(b.vx, true)
		b.vy = b.changeDirection(b.vy, false)
	case bounceY:
		b.vy = b.changeDirection(b.vy, true)
		b.vx = b.changeDirection(b.vx, false)
	}
}

// changeDirection returns a new velocity component with a random magnitude.
// if invert is true the direction is reversed, otherwise it is kept
func (b *Bounce) changeDirection(v int, invert bool) int {
	n := b.rnd.Intn(velocityRange) + b.speed
	if !invert {
		n = -n
	}
	if v > 0 {
		return -n
	}
	return n
}
