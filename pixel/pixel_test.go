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

package pixel_test

import (
	"image/color"
	"testing"

	"github.com/vidflood/vidflood/pixel"
	"github.com/vidflood/vidflood/test"
)

func TestEdges(t *testing.T) {
	e := pixel.NewEdges(pixel.Top, pixel.Left)
	test.ExpectSuccess(t, e.Has(pixel.Top))
	test.ExpectSuccess(t, e.Has(pixel.Left))
	test.ExpectFailure(t, e.Has(pixel.Right))
	test.ExpectFailure(t, e.Has(pixel.Bottom))
	test.ExpectEquality(t, e.String(), "TL")

	e = e.With(pixel.Bottom)
	test.ExpectSuccess(t, e.Has(pixel.Bottom))
	test.ExpectEquality(t, e, pixel.Edges(0b1101))

	test.ExpectEquality(t, pixel.Edges(0).String(), "-")
}

func TestClone(t *testing.T) {
	b := pixel.Buffer{
		{X: 1, Y: 2, Color: color.RGBA{R: 1, A: 255}},
		{X: 3, Y: 4, Color: color.RGBA{G: 1, A: 255}},
	}

	c := b.Clone()
	c[0].X = 100
	test.ExpectEquality(t, b[0].X, uint32(1))
	test.ExpectEquality(t, len(c), len(b))

	var empty pixel.Buffer
	test.ExpectSuccess(t, empty.Clone() == nil)
}

// the lookup refers to the last pixel at duplicate coordinates
func TestLookupLastWins(t *testing.T) {
	b := pixel.Buffer{
		{X: 1, Y: 1},
		{X: 2, Y: 1},
		{X: 1, Y: 1},
	}
	l := pixel.NewLookup(b)
	test.ExpectEquality(t, len(l), 2)
	test.ExpectEquality(t, l[pixel.Coords{X: 1, Y: 1}], 2)
	test.ExpectSuccess(t, l.Has(2, 1))
	test.ExpectFailure(t, l.Has(0, 0))
}

func TestErase(t *testing.T) {
	px := pixel.Erase(5, 6)
	test.ExpectEquality(t, px.Coords(), pixel.Coords{X: 5, Y: 6})
	test.ExpectEquality(t, px.Color, pixel.EraseColor)
	test.ExpectEquality(t, px.Edges, pixel.Edges(0))
	test.ExpectEquality(t, px.String(), "(5,6) #000000ff -")
}
