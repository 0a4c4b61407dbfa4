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

// Package filter implements the per-frame transforms applied to a clone of
// each frame before it is submitted for drawing.
//
// Filters are applied in order, each seeing the output of the one before. A
// filter that moves pixels can also add erase markers to the restore buffer,
// so that positions vacated by the move are cleared when the next frame is
// drawn. Filters that only change the color of pixels never touch the restore
// buffer.
package filter

import (
	"github.com/vidflood/vidflood/pixel"
)

// Filter is implemented by Blend, Rainbow, Bounce and Glitch.
type Filter interface {
	// Transform the buffer in place. The restore buffer is nil if restore
	// mode is disabled.
	Transform(buf pixel.Buffer, restore *pixel.Buffer)
}

// Chain is an ordered list of filters.
type Chain []Filter

// Apply every filter in the chain to the buffer.
func (c Chain) Apply(buf pixel.Buffer, restore *pixel.Buffer) {
	for _, f := range c {
		f.Transform(buf, restore)
	}
}

// erase appends a run of erase markers to the restore buffer, starting at
// (x,y) and stepping by (dx,dy). markers that would fall at a negative
// coordinate are skipped
func erase(restore *pixel.Buffer, x, y uint32, dx, dy int, n int) {
	for i := range n {
		ex := int64(x) + int64(dx*i)
		ey := int64(y) + int64(dy*i)
		if ex < 0 || ey < 0 {
			continue
		}
		*restore = append(*restore, pixel.Erase(uint32(ex), uint32(ey)))
	}
}
