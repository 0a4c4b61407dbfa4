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

package colors_test

import (
	"errors"
	"image/color"
	"testing"

	"github.com/vidflood/vidflood/colors"
	"github.com/vidflood/vidflood/test"
)

func TestOverExtremes(t *testing.T) {
	bg := color.RGBA{R: 10, G: 20, B: 30, A: 255}

	// transparent foreground changes nothing
	test.ExpectEquality(t, colors.Over(bg, color.RGBA{R: 255, A: 0}), bg)

	// opaque foreground replaces the background entirely
	fg := color.RGBA{R: 1, G: 2, B: 3, A: 255}
	test.ExpectEquality(t, colors.Over(bg, fg), fg)
}

func TestOverHalf(t *testing.T) {
	bg := color.RGBA{R: 255, G: 0, B: 0, A: 255}
	fg := color.RGBA{R: 0, G: 0, B: 255, A: 128}

	c := colors.Over(bg, fg)
	test.ExpectApproximate(t, int(c.R), 127, 0.02)
	test.ExpectEquality(t, c.G, uint8(0))
	test.ExpectApproximate(t, int(c.B), 128, 0.02)
	test.ExpectApproximate(t, int(c.A), 255, 0.01)

	// a transparent background takes on the foreground color
	c = colors.Over(color.RGBA{}, color.RGBA{R: 200, G: 100, B: 50, A: 100})
	test.ExpectApproximate(t, int(c.R), 200, 0.01)
	test.ExpectApproximate(t, int(c.G), 100, 0.02)
	test.ExpectApproximate(t, int(c.B), 50, 0.04)
	test.ExpectApproximate(t, int(c.A), 100, 0.02)
}

func TestHSL(t *testing.T) {
	type rgb struct{ r, g, b uint8 }
	conv := func(h, s, l float64) rgb {
		r, g, b := colors.HSLToRGB(h, s, l)
		return rgb{r, g, b}
	}

	test.ExpectEquality(t, conv(0, 1, 0.5), rgb{255, 0, 0})
	test.ExpectEquality(t, conv(120, 1, 0.5), rgb{0, 255, 0})
	test.ExpectEquality(t, conv(240, 1, 0.5), rgb{0, 0, 255})
	test.ExpectEquality(t, conv(60, 1, 0.5), rgb{255, 255, 0})
	test.ExpectEquality(t, conv(180, 1, 0.5), rgb{0, 255, 255})
	test.ExpectEquality(t, conv(0, 0, 0.5), rgb{128, 128, 128})
	test.ExpectEquality(t, conv(0, 0, 1), rgb{255, 255, 255})
	test.ExpectEquality(t, conv(0, 1, 0), rgb{0, 0, 0})
}

func TestParseRGBA(t *testing.T) {
	c, err := colors.ParseRGBA("ff8000c0")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, c, color.RGBA{R: 0xff, G: 0x80, B: 0x00, A: 0xc0})

	_, err = colors.ParseRGBA("ff8000")
	test.ExpectSuccess(t, errors.Is(err, colors.ErrInvalidHex))

	_, err = colors.ParseRGBA("ff8000zz")
	test.ExpectSuccess(t, errors.Is(err, colors.ErrInvalidHex))

	v, err := colors.ParseByte("7f")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint8(0x7f))

	_, err = colors.ParseByte("100")
	test.ExpectFailure(t, err)
}
