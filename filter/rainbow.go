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
	"image/color"

	"github.com/vidflood/vidflood/colors"
	"github.com/vidflood/vidflood/pixel"
)

// DefaultRainbowSpeed is the number of degrees the hue advances every frame.
const DefaultRainbowSpeed = 10

// Rainbow composites a color of cycling hue over every pixel.
type Rainbow struct {
	alpha uint8
	speed int

	// number of calls to Transform()
	frame int
}

// NewRainbow is the preferred method of initialisation for the Rainbow
// type. The alpha is the opacity of the rainbow color.
func NewRainbow(alpha uint8, speed int) *Rainbow {
	return &Rainbow{
		alpha: alpha,
		speed: speed,
	}
}

func (r *Rainbow) String() string {
	return fmt.Sprintf("rainbow alpha=%02x speed=%d", r.alpha, r.speed)
}

// Hue returns the hue that will be used by the next call to Transform().
func (r *Rainbow) Hue() int {
	h := (r.frame * r.speed) % 360
	if h < 0 {
		h += 360
	}
	return h
}

// Transform implements the Filter interface.
func (r *Rainbow) Transform(buf pixel.Buffer, _ *pixel.Buffer) {
	cr, cg, cb := colors.HSLToRGB(float64(r.Hue()), 1.0, 0.5)
	mask := color.RGBA{R: cr, G: cg, B: cb, A: r.alpha}

	for i := range buf {
		buf[i].Color = colors.Over(buf[i].Color, mask)
	}

	r.frame++
}
