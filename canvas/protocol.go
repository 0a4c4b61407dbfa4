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

// Package canvas implements the client side of the line-oriented canvas
// protocol. Two commands are supported:
//
//	PX <x> <y> <rrggbbaa>\n
//	SIZE\n
//
// The SIZE command is answered by the server with a single line, of which the
// second and third fields are the width and height of the canvas.
//
// A Link is a single persistent connection to the server. Links never share
// connections and a Link is only ever used by one goroutine.
package canvas

import (
	"errors"
	"strconv"

	"github.com/vidflood/vidflood/pixel"
)

// Sentinel errors returned by the canvas package.
var (
	ErrConnect   = errors.New("cannot connect to canvas")
	ErrSizeReply = errors.New("invalid reply to SIZE command")
)

// SizeCommand queries the dimensions of the canvas.
const SizeCommand = "SIZE\n"

const hexDigits = "0123456789abcdef"

// AppendCommand appends the draw command for the pixel to dst and returns the
// extended buffer.
func AppendCommand(dst []byte, px pixel.Pixel) []byte {
	dst = append(dst, "PX "...)
	dst = strconv.AppendUint(dst, uint64(px.X), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(px.Y), 10)
	dst = append(dst, ' ')
	dst = appendHex(dst, px.Color.R)
	dst = appendHex(dst, px.Color.G)
	dst = appendHex(dst, px.Color.B)
	dst = appendHex(dst, px.Color.A)
	return append(dst, '\n')
}

func appendHex(dst []byte, v uint8) []byte {
	return append(dst, hexDigits[v>>4], hexDigits[v&0x0f])
}
