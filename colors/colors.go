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

// Package colors contains the color arithmetic used by the filters. Colors are
// non-premultiplied 8-bit RGBA values, as decoded from the source and as sent
// to the canvas.
package colors

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
)

// ErrInvalidHex is returned when a hex color string cannot be parsed.
var ErrInvalidHex = errors.New("invalid hex color")

// Over composites fg over bg and returns the result.
//
// A fully transparent fg leaves bg untouched and a fully opaque fg replaces
// it. Channels are truncated, not rounded, when converted back to bytes.
func Over(bg, fg color.RGBA) color.RGBA {
	if fg.A == 0 {
		return bg
	}
	if fg.A == 0xff {
		return fg
	}

	const max = float32(0xff)

	bgA := float32(bg.A) / max
	fgA := float32(fg.A) / max

	alpha := bgA + fgA - bgA*fgA
	if alpha == 0 {
		return bg
	}

	blend := func(b, f uint8) uint8 {
		bc := float32(b) / max
		fc := float32(f) / max
		out := (fc*fgA + bc*bgA*(1-fgA)) / alpha
		return uint8(max * out)
	}

	return color.RGBA{
		R: blend(bg.R, fg.R),
		G: blend(bg.G, fg.G),
		B: blend(bg.B, fg.B),
		A: uint8(max * alpha),
	}
}

// ParseRGBA parses an eight character string of the form rrggbbaa.
func ParseRGBA(s string) (color.RGBA, error) {
	if len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("colors: %w: %q is not of the form rrggbbaa", ErrInvalidHex, s)
	}

	var c [4]uint8
	for i := range c {
		v, err := ParseByte(s[i*2 : i*2+2])
		if err != nil {
			return color.RGBA{}, err
		}
		c[i] = v
	}

	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}, nil
}

// ParseByte parses a two character hex string.
func ParseByte(s string) (uint8, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("colors: %w: %q is not a two digit hex value", ErrInvalidHex, s)
	}
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("colors: %w: %q", ErrInvalidHex, s)
	}
	return uint8(v), nil
}
