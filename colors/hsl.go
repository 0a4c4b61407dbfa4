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

package colors

import "math"

// HSLToRGB converts hue (in degrees), saturation and lightness (both in the
// range 0 to 1) to 8-bit RGB values.
func HSLToRGB(h, s, l float64) (uint8, uint8, uint8) {
	if s == 0 {
		v := toByte(l)
		return v, v, v
	}

	h = math.Mod(h, 360) / 360

	var t2 float64
	if l < 0.5 {
		t2 = l * (1 + s)
	} else {
		t2 = l + s - l*s
	}
	t1 := 2*l - t2

	return toByte(hueToChannel(t1, t2, h+1.0/3.0)),
		toByte(hueToChannel(t1, t2, h)),
		toByte(hueToChannel(t1, t2, h-1.0/3.0))
}

func hueToChannel(t1, t2, h float64) float64 {
	if h < 0 {
		h += 1
	}
	if h > 1 {
		h -= 1
	}

	switch {
	case 6*h < 1:
		return t1 + (t2-t1)*6*h
	case 2*h < 1:
		return t2
	case 3*h < 2:
		return t1 + (t2-t1)*(2.0/3.0-h)*6
	}
	return t1
}

func toByte(v float64) uint8 {
	return uint8(math.Round(v * 255))
}
