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

// Blend composites a fixed color over every pixel.
type Blend struct {
	col color.RGBA
}

// NewBlend is the preferred method of initialisation for the Blend type.
func NewBlend(col color.RGBA) *Blend {
	return &Blend{col: col}
}

func (b *Blend) String() string {
	return fmt.Sprintf("blend #%02x%02x%02x%02x", b.col.R, b.col.G, b.col.B, b.col.A)
}

// Transform implements the Filter interface.
func (b *Blend) Transform(buf pixel.Buffer, _ *pixel.Buffer) {
	for i := range buf {
		buf[i].Color = colors.Over(buf[i].Color, b.col)
	}
}
