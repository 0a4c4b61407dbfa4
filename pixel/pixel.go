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

// Package pixel defines the types shared by every stage of the flood: the
// Pixel itself, the Edges of a pixel on a sprite's silhouette, the Area of
// the sprite on the canvas and the Buffer type that is passed from the
// preprocessor, through the filters and on to the dispatch engine.
//
// Buffers handed to the dispatch engine must not be modified afterwards. The
// engine shares one buffer between every connection without copying it.
package pixel

import (
	"fmt"
	"image/color"
)

// EraseColor is the color of restore pixels. Restore pixels mark canvas
// positions that were occupied by the previous frame but not by the next.
var EraseColor = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}

// Coords identifies a single position on the canvas.
type Coords struct {
	X uint32
	Y uint32
}

// Pixel is a single point to be drawn on the canvas.
type Pixel struct {
	X     uint32
	Y     uint32
	Color color.RGBA
	Edges Edges
}

// Coords returns the canvas position of the pixel.
func (px Pixel) Coords() Coords {
	return Coords{X: px.X, Y: px.Y}
}

func (px Pixel) String() string {
	return fmt.Sprintf("(%d,%d) #%02x%02x%02x%02x %s", px.X, px.Y,
		px.Color.R, px.Color.G, px.Color.B, px.Color.A, px.Edges)
}

// Erase returns a restore pixel at the specified coordinates.
func Erase(x, y uint32) Pixel {
	return Pixel{X: x, Y: y, Color: EraseColor}
}

// Buffer is an ordered list of pixels.
type Buffer []Pixel

// Clone returns a copy of the buffer. Filters are always run on clones so
// that the precomputed frames are never changed.
func (b Buffer) Clone() Buffer {
	if b == nil {
		return nil
	}
	c := make(Buffer, len(b))
	copy(c, b)
	return c
}

// Lookup maps canvas coordinates to an index in a Buffer.
type Lookup map[Coords]int

// NewLookup builds a lookup for the buffer. If more than one pixel shares the
// same coordinates then the lookup refers to the last of them.
func NewLookup(b Buffer) Lookup {
	l := make(Lookup, len(b))
	for i, px := range b {
		l[px.Coords()] = i
	}
	return l
}

// Has returns true if there is a pixel at the coordinates.
func (l Lookup) Has(x, y uint32) bool {
	_, ok := l[Coords{X: x, Y: y}]
	return ok
}
